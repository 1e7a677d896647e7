package enums

import "fmt"

// StoreType categorizes where a price was observed.
type StoreType string

const (
	StoreTypeSupermarket StoreType = "supermarket"
	StoreTypeMarket      StoreType = "market"
	StoreTypeOnline      StoreType = "online"
	StoreTypePharmacy    StoreType = "pharmacy"
	StoreTypeConvenience StoreType = "convenience"
	StoreTypeOther       StoreType = "other"
)

var validStoreTypes = []StoreType{
	StoreTypeSupermarket,
	StoreTypeMarket,
	StoreTypeOnline,
	StoreTypePharmacy,
	StoreTypeConvenience,
	StoreTypeOther,
}

// String implements fmt.Stringer.
func (t StoreType) String() string {
	return string(t)
}

// IsValid reports whether the value matches a known StoreType.
func (t StoreType) IsValid() bool {
	for _, candidate := range validStoreTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseStoreType converts raw input into a StoreType.
func ParseStoreType(value string) (StoreType, error) {
	for _, candidate := range validStoreTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid store type %q", value)
}
