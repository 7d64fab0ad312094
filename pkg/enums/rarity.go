package enums

import "fmt"

// Rarity grades a card within the fixed N < R < SR < SSR ladder.
type Rarity string

const (
	RarityN   Rarity = "N"
	RarityR   Rarity = "R"
	RaritySR  Rarity = "SR"
	RaritySSR Rarity = "SSR"
)

var validRarities = []Rarity{RarityN, RarityR, RaritySR, RaritySSR}

// String implements fmt.Stringer.
func (r Rarity) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Rarity.
func (r Rarity) IsValid() bool {
	for _, candidate := range validRarities {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRarity converts raw input into a Rarity.
func ParseRarity(value string) (Rarity, error) {
	for _, candidate := range validRarities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rarity %q", value)
}
