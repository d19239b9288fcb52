package models

import "github.com/shopspring/decimal"

// Breakdown is the itemized budget entry attached to an award. It is the
// only input of the category allocator; individual line items are summed,
// never validated for business plausibility.
type Breakdown struct {
	Personnel []PersonnelItem `json:"personnel"`
	Travel    []TravelItem    `json:"travel"`
	Items     []LineItem      `json:"items"`
}

type PersonnelItem struct {
	Name  string          `json:"name"`
	Hours decimal.Decimal `json:"hours"`
	Rate  decimal.Decimal `json:"rate"`
	// Total is used as-is when no hourly rate is given.
	Total decimal.Decimal `json:"total"`
}

// Cost is hours x rate when a rate is given, else the explicit total.
func (p PersonnelItem) Cost() decimal.Decimal {
	if p.Rate.IsPositive() {
		return p.Hours.Mul(p.Rate)
	}
	return p.Total
}

type TravelItem struct {
	Destination string          `json:"destination"`
	Estimated   decimal.Decimal `json:"estimated"`
	Flight      decimal.Decimal `json:"flight"`
	TaxiPerDay  decimal.Decimal `json:"taxi_per_day"`
	FoodPerDay  decimal.Decimal `json:"food_per_day"`
	Days        decimal.Decimal `json:"days"`
}

// Cost is the trip's estimated total, falling back to
// flight + (taxi/day + food/day) x days when no estimate is given.
func (t TravelItem) Cost() decimal.Decimal {
	if t.Estimated.IsPositive() {
		return t.Estimated
	}
	return t.Flight.Add(t.TaxiPerDay.Add(t.FoodPerDay).Mul(t.Days))
}

type LineItemType string

const (
	LineItemMaterials   LineItemType = "materials"
	LineItemEquipment   LineItemType = "equipment"
	LineItemOtherDirect LineItemType = "other"
)

type LineItem struct {
	Description string          `json:"description"`
	Type        LineItemType    `json:"type"`
	Cost        decimal.Decimal `json:"cost"`
}

// Bucket maps the item's type tag to a budget category. Untagged items are
// materials.
func (l LineItem) Bucket() Category {
	switch l.Type {
	case LineItemEquipment:
		return CategoryEquipment
	case LineItemOtherDirect:
		return CategoryOtherDirect
	default:
		return CategoryMaterials
	}
}
