package models

import (
	"fmt"
	"strings"
)

// Category is a closed set of budget categories. The free-form category
// strings of the source documents are parsed into this set exactly once,
// when a transaction or budget line is created.
type Category string

const (
	CategoryPersonnel   Category = "Personnel"
	CategoryTravel      Category = "Travel"
	CategoryMaterials   Category = "Materials"
	CategoryEquipment   Category = "Equipment"
	CategoryOtherDirect Category = "Other Direct Costs"
	CategorySubawards   Category = "Subawards"
	CategoryOther       Category = "Other"
)

var categories = map[string]Category{
	"personnel":          CategoryPersonnel,
	"travel":             CategoryTravel,
	"materials":          CategoryMaterials,
	"equipment":          CategoryEquipment,
	"other direct costs": CategoryOtherDirect,
	"subawards":          CategorySubawards,
	"other":              CategoryOther,
	"":                   CategoryOther,
}

// reconciliation maps a generic fallback category to the more specific
// category it should be booked under when the award carries a budget line
// for the specific one.
var reconciliation = map[Category]Category{
	CategoryOther: CategoryOtherDirect,
}

// ParseCategory resolves a raw category string against the closed set.
func ParseCategory(raw string) (Category, error) {
	c, ok := categories[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("unknown category %q", raw)
	}
	return c, nil
}

// Reconcile redirects a generic category to its specific counterpart when
// hasLine reports that a budget line for the counterpart exists. The result
// is stored on the transaction so reads never re-derive the mapping.
func (c Category) Reconcile(hasLine func(Category) bool) Category {
	if specific, ok := reconciliation[c]; ok && hasLine(specific) {
		return specific
	}
	return c
}

func (c Category) String() string {
	return string(c)
}
