package bidding

import "auction-coordinator/internal/models"

// Reservations are recomputed from the items on every call and never cached;
// an outbid item changes leader and frees its amount on the next computation.

// reservedAmount sums the highest bids the named user currently leads
func reservedAmount(items []models.Item, userName string) int64 {
	var reserved int64
	for _, item := range items {
		if item.LedBy(userName) {
			reserved += item.HighestBid
		}
	}
	return reserved
}

// reservedExcluding is reservedAmount without the item being bid on,
// so a leader can raise their own standing bid
func reservedExcluding(items []models.Item, userName string, itemID int) int64 {
	var reserved int64
	for _, item := range items {
		if item.ID != itemID && item.LedBy(userName) {
			reserved += item.HighestBid
		}
	}
	return reserved
}

// availableBalance is the user's balance minus everything they currently lead
func availableBalance(user models.User, items []models.Item) int64 {
	return user.Balance - reservedAmount(items, user.Name)
}
