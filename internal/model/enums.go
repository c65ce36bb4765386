package model // model defines the wardrobe domain entities and their enumerations

import "strings"

// ClothingType categorizes a clothing item. The zero value means the
// owner never assigned a type.
type ClothingType string

const (
	TypeTop       ClothingType = "TOP"
	TypeBottom    ClothingType = "BOTTOM"
	TypeShoes     ClothingType = "SHOES"
	TypeOuterwear ClothingType = "OUTERWEAR"
	TypeDress     ClothingType = "DRESS"
	TypeAccessory ClothingType = "ACCESSORY"
)

// Season marks when an item is wearable. SeasonAll satisfies a query for
// any specific season.
type Season string

const (
	SeasonSpring Season = "SPRING"
	SeasonSummer Season = "SUMMER"
	SeasonFall   Season = "FALL"
	SeasonWinter Season = "WINTER"
	SeasonAll    Season = "ALL"
)

// Occasion is the context an outfit was composed for.
type Occasion string

const (
	OccasionCasual Occasion = "CASUAL"
	OccasionFormal Occasion = "FORMAL"
	OccasionSport  Occasion = "SPORT"
	OccasionWork   Occasion = "WORK"
	OccasionParty  Occasion = "PARTY"
)

// NormalizeEnum is the single normalization rule applied to every
// enum-like string the API accepts: surrounding whitespace is dropped and
// the value is upper-cased before membership checks.
func NormalizeEnum(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

var clothingTypes = map[ClothingType]bool{
	TypeTop: true, TypeBottom: true, TypeShoes: true,
	TypeOuterwear: true, TypeDress: true, TypeAccessory: true,
}

var seasons = map[Season]bool{
	SeasonSpring: true, SeasonSummer: true, SeasonFall: true,
	SeasonWinter: true, SeasonAll: true,
}

var occasions = map[Occasion]bool{
	OccasionCasual: true, OccasionFormal: true, OccasionSport: true,
	OccasionWork: true, OccasionParty: true,
}

// ParseClothingType resolves a free-form string to a ClothingType.
// Unrecognized input reports ok=false and callers treat the value as
// absent; it is never an error.
func ParseClothingType(s string) (ClothingType, bool) {
	t := ClothingType(NormalizeEnum(s))
	return t, clothingTypes[t]
}

// ParseSeason resolves a free-form string to a Season.
func ParseSeason(s string) (Season, bool) {
	t := Season(NormalizeEnum(s))
	return t, seasons[t]
}

// ParseOccasion resolves a free-form string to an Occasion.
func ParseOccasion(s string) (Occasion, bool) {
	t := Occasion(NormalizeEnum(s))
	return t, occasions[t]
}

// SplitTags normalizes a comma-separated tag string into a list: each
// entry is trimmed and empty entries are discarded.
func SplitTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// CleanTags applies the same trim-and-drop-empties rule to an already
// split tag list.
func CleanTags(in []string) []string {
	tags := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
