package market

import (
	"fmt"
	"strings"
)

// BidPolicy decides which amounts are accepted for a new bid
type BidPolicy string

const (
	// BidPolicyPresence only requires a strictly positive amount
	BidPolicyPresence BidPolicy = "presence"
	// BidPolicyAboveHighest also requires the amount to exceed the current
	// highest bid, or to reach the original price while the product has no bids
	BidPolicyAboveHighest BidPolicy = "above-highest"
)

// ParseBidPolicy maps a configuration value to a BidPolicy. Empty means presence.
func ParseBidPolicy(s string) (BidPolicy, error) {
	switch BidPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", BidPolicyPresence:
		return BidPolicyPresence, nil
	case BidPolicyAboveHighest:
		return BidPolicyAboveHighest, nil
	default:
		return "", fmt.Errorf("unknown bid policy %q", s)
	}
}
