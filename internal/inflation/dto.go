package inflation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
)

// ItemInflationDTO reports the price change of one item across a window.
// When fewer than two observations match the window and currency, the
// insufficient_data flag is set and the price fields stay empty; that is a
// normal result, not an error.
type ItemInflationDTO struct {
	ItemID           uuid.UUID        `json:"item_id"`
	ItemName         string           `json:"item_name"`
	Currency         enums.Currency   `json:"currency"`
	StartPrice       *decimal.Decimal `json:"start_price,omitempty"`
	StartDate        *time.Time       `json:"start_date,omitempty"`
	EndPrice         *decimal.Decimal `json:"end_price,omitempty"`
	EndDate          *time.Time       `json:"end_date,omitempty"`
	PercentChange    *decimal.Decimal `json:"percent_change,omitempty"`
	AbsoluteChange   *decimal.Decimal `json:"absolute_change,omitempty"`
	ObservationCount int              `json:"observation_count"`
	InsufficientData bool             `json:"insufficient_data"`
}

// ReportDTO aggregates per-item changes across the user's tracked items.
// Items without enough history in the window are counted, not listed.
type ReportDTO struct {
	From           time.Time          `json:"from"`
	To             time.Time          `json:"to"`
	Currency       enums.Currency     `json:"currency"`
	Items          []ItemInflationDTO `json:"items"`
	SkippedItems   int                `json:"skipped_items"`
	AveragePercent *decimal.Decimal   `json:"average_percent,omitempty"`
}
