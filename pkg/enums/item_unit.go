package enums

import "fmt"

// ItemUnit defines the measurement unit an item is priced in.
type ItemUnit string

const (
	ItemUnitUnit       ItemUnit = "unit"
	ItemUnitGram       ItemUnit = "gram"
	ItemUnitKilogram   ItemUnit = "kilogram"
	ItemUnitLiter      ItemUnit = "liter"
	ItemUnitMilliliter ItemUnit = "milliliter"
	ItemUnitPiece      ItemUnit = "piece"
	ItemUnitPack       ItemUnit = "pack"
)

var validItemUnits = []ItemUnit{
	ItemUnitUnit,
	ItemUnitGram,
	ItemUnitKilogram,
	ItemUnitLiter,
	ItemUnitMilliliter,
	ItemUnitPiece,
	ItemUnitPack,
}

// String implements fmt.Stringer.
func (u ItemUnit) String() string {
	return string(u)
}

// IsValid reports whether the value matches a known ItemUnit.
func (u ItemUnit) IsValid() bool {
	for _, candidate := range validItemUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseItemUnit converts raw input into an ItemUnit.
func ParseItemUnit(value string) (ItemUnit, error) {
	for _, candidate := range validItemUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item unit %q", value)
}
