// Package suggest ranks a user's outfits against contextual criteria.
// It is a pure, single-pass filter-then-sort over already-loaded
// outfits: no storage access, no side effects, deterministic for a
// fixed input.
package suggest

import (
	"sort"
	"strings"

	"github.com/iliyamo/virtual-closet/internal/model"
)

// DefaultLimit bounds the result when the caller supplies no limit.
const DefaultLimit = 10

// MaxLimit caps the result length regardless of the requested limit.
const MaxLimit = 50

// Query carries the raw, un-normalized criteria from the request. Every
// supplied criterion must hold for an outfit to survive filtering;
// unrecognized enum values are treated as absent criteria.
type Query struct {
	Occasion string
	Season   string
	Color    string
	Tags     []string
	Limit    int
}

// Rank filters outfits by the query and orders survivors by
// completeness score descending. The sort is stable, so outfits with
// equal scores keep their input order (callers load newest first).
func Rank(outfits []model.Outfit, q Query) []model.Outfit {
	// The occasion criterion is a normalized string compare, not an enum
	// membership check: an unknown occasion matches nothing rather than
	// being ignored.
	occasion := model.NormalizeEnum(q.Occasion)
	season, hasSeason := model.ParseSeason(q.Season)
	color := strings.ToLower(strings.TrimSpace(q.Color))
	tags := normalizeTags(q.Tags)

	kept := make([]model.Outfit, 0, len(outfits))
	for _, o := range outfits {
		if occasion != "" && (o.Occasion == nil || string(*o.Occasion) != occasion) {
			continue
		}
		if hasSeason && !matchesSeason(o.Items, season) {
			continue
		}
		if color != "" && !hasColor(o.Items, color) {
			continue
		}
		if len(tags) > 0 && !hasAnyTag(o.Items, tags) {
			continue
		}
		kept = append(kept, o)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return Completeness(kept[i].Items) > Completeness(kept[j].Items)
	})

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

// Completeness counts how many of TOP, BOTTOM and SHOES are covered by
// at least one item (0-3). A full outfit beats a partial one.
func Completeness(items []model.ClothingItem) int {
	score := 0
	if hasType(items, model.TypeTop) {
		score++
	}
	if hasType(items, model.TypeBottom) {
		score++
	}
	if hasType(items, model.TypeShoes) {
		score++
	}
	return score
}

func hasType(items []model.ClothingItem, t model.ClothingType) bool {
	for _, it := range items {
		if it.Type != nil && *it.Type == t {
			return true
		}
	}
	return false
}

// matchesSeason holds when any item carries the requested season or the
// catch-all ALL value.
func matchesSeason(items []model.ClothingItem, s model.Season) bool {
	for _, it := range items {
		if it.Season != nil && (*it.Season == s || *it.Season == model.SeasonAll) {
			return true
		}
	}
	return false
}

func hasColor(items []model.ClothingItem, color string) bool {
	for _, it := range items {
		if it.Color != nil && strings.ToLower(strings.TrimSpace(*it.Color)) == color {
			return true
		}
	}
	return false
}

// hasAnyTag holds when any item carries at least one of the requested
// tags (OR semantics across the tag set).
func hasAnyTag(items []model.ClothingItem, wanted map[string]bool) bool {
	for _, it := range items {
		for _, t := range it.Tags {
			if wanted[strings.ToLower(strings.TrimSpace(t))] {
				return true
			}
		}
	}
	return false
}

func normalizeTags(tags []string) map[string]bool {
	m := make(map[string]bool, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			m[t] = true
		}
	}
	return m
}
