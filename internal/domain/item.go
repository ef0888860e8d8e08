package domain

import (
	"math"
	"strings"
)

// Item is a single entry on a shopping list. Price is per unit; the line
// cost is Price * Quantity. Purchased tracks the in-store checkbox state.
type Item struct {
	Syncable
	OwnerID   string  `json:"owner_id"` // Denormalized from the list for access checks and event routing
	ListID    string  `json:"list_id"`
	Name      string  `json:"name"`
	Note      string  `json:"note,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Purchased bool    `json:"purchased"`
}

// Cost returns the line cost for this item. Malformed numerics (NaN,
// infinities, negatives) contribute zero rather than poisoning totals,
// matching how the mobile client coerces bad input.
func (i *Item) Cost() float64 {
	price := i.Price
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		price = 0
	}
	qty := i.Quantity
	if qty < 0 {
		qty = 0
	}
	return price * float64(qty)
}

// Totals holds the aggregate costs of a set of items.
type Totals struct {
	TotalCost     float64 `json:"total_cost"`
	PurchasedCost float64 `json:"purchased_cost"`
}

// Aggregate computes the total and purchased cost over items.
// Deterministic for a given input, and never negative: items with
// malformed price or quantity count as zero. PurchasedCost is always
// the aggregate of the purchased subset, so it never exceeds TotalCost.
func Aggregate(items []Item) Totals {
	var t Totals
	for i := range items {
		cost := items[i].Cost()
		t.TotalCost += cost
		if items[i].Purchased {
			t.PurchasedCost += cost
		}
	}
	return t
}

// ItemStatus selects which purchase states FilterItems keeps.
type ItemStatus string

// ItemStatus values for filtering.
const (
	ItemStatusAll         ItemStatus = "all"
	ItemStatusPurchased   ItemStatus = "purchased"
	ItemStatusUnpurchased ItemStatus = "unpurchased"
)

// Valid returns true if the status is a recognized value.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusAll, ItemStatusPurchased, ItemStatusUnpurchased:
		return true
	default:
		return false
	}
}

// Matches reports whether an item's purchased state passes this filter.
func (s ItemStatus) Matches(purchased bool) bool {
	switch s {
	case ItemStatusPurchased:
		return purchased
	case ItemStatusUnpurchased:
		return !purchased
	default:
		return true
	}
}

// FilterItems returns the items matching a case-insensitive substring
// search on the name and a purchase-status filter. The two conditions
// are independent, so applying them in either order gives the same
// result. Input order is preserved and an empty search matches all.
func FilterItems(items []Item, search string, status ItemStatus) []Item {
	needle := strings.ToLower(search)
	out := make([]Item, 0, len(items))
	for i := range items {
		if !status.Matches(items[i].Purchased) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(items[i].Name), needle) {
			continue
		}
		out = append(out, items[i])
	}
	return out
}
