package domain

// PromotionLevel is the ordered visibility tier of a document.
// Higher levels are prioritised during retrieval.
type PromotionLevel string

// Promotion levels, lowest to highest.
const (
	PromotionStandard  PromotionLevel = "standard"
	PromotionImportant PromotionLevel = "important"
	PromotionCritical  PromotionLevel = "critical"
)

// promotionRank maps levels to their ordering.
var promotionRank = map[PromotionLevel]int{
	PromotionStandard:  0,
	PromotionImportant: 1,
	PromotionCritical:  2,
}

// IsValid returns true if the level is recognised.
func (p PromotionLevel) IsValid() bool {
	_, ok := promotionRank[p]
	return ok
}

// Rank returns the numeric ordering of the level (standard=0).
// Unknown levels rank as standard.
func (p PromotionLevel) Rank() int {
	return promotionRank[p]
}

// Above returns true if this level is strictly higher than other.
func (p PromotionLevel) Above(other PromotionLevel) bool {
	return p.Rank() > other.Rank()
}

// String returns the string representation.
func (p PromotionLevel) String() string {
	return string(p)
}

// ParsePromotionLevel converts a string into a PromotionLevel.
// Unknown or empty input falls back to PromotionStandard.
func ParsePromotionLevel(s string) PromotionLevel {
	level := PromotionLevel(s)
	if level.IsValid() {
		return level
	}
	return PromotionStandard
}
