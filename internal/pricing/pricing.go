// Package pricing maps seat price tiers to currency amounts.
package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// priceByTier holds the static tier table in dollars.
var priceByTier = map[int]decimal.Decimal{
	1: decimal.NewFromInt(100),
	2: decimal.NewFromInt(80),
	3: decimal.NewFromInt(60),
}

// SeatPrice returns the amount for tier. Unknown tiers cost zero so display
// code never fails on malformed tier data.
func SeatPrice(tier int) decimal.Decimal {
	if price, ok := priceByTier[tier]; ok {
		return price
	}
	return decimal.Zero
}

// Subtotal sums the prices of the given tiers.
func Subtotal(tiers []int) decimal.Decimal {
	total := decimal.Zero
	for _, tier := range tiers {
		total = total.Add(SeatPrice(tier))
	}
	return total
}

type Tier struct {
	Tier  int             `json:"tier"`
	Price decimal.Decimal `json:"price"`
}

// Tiers lists the known tiers in ascending order.
func Tiers() []Tier {
	tiers := make([]Tier, 0, len(priceByTier))
	for tier, price := range priceByTier {
		tiers = append(tiers, Tier{Tier: tier, Price: price})
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Tier < tiers[j].Tier })
	return tiers
}
