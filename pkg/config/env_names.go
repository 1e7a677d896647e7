package config

// EnvPrefix scopes envconfig processing; individual fields carry full names.
const EnvPrefix = "PRICEWATCH"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv                 = "PRICEWATCH_APP_ENV"
	EnvPort                   = "PRICEWATCH_APP_PORT"
	EnvDBDSN                  = "PRICEWATCH_DB_DSN"
	EnvDBHost                 = "PRICEWATCH_DB_HOST"
	EnvDBUser                 = "PRICEWATCH_DB_USER"
	EnvDBName                 = "PRICEWATCH_DB_NAME"
	EnvRedisURL               = "PRICEWATCH_REDIS_URL"
	EnvJWTSecret              = "PRICEWATCH_JWT_SECRET"
	EnvJWTIssuer              = "PRICEWATCH_JWT_ISSUER"
	EnvJWTExpMins             = "PRICEWATCH_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "PRICEWATCH_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
