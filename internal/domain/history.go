package domain

import "time"

// PurchaseRecord tracks how often a user has added an item name to any
// of their lists. Matching is by exact name, case included: "Milk" and
// "milk" are separate records. The record remembers the most recent
// price so the client can prefill it when suggesting the item again.
type PurchaseRecord struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Frequency     int       `json:"frequency"`
	LastPrice     float64   `json:"last_price"`
	LastPurchased time.Time `json:"last_purchased"`
	CreatedAt     time.Time `json:"created_at"`
}

// Record applies one more purchase of this item: frequency goes up by
// one and the price and timestamp are overwritten. Not idempotent.
func (r *PurchaseRecord) Record(price float64, at time.Time) {
	r.Frequency++
	r.LastPrice = price
	r.LastPurchased = at
}
