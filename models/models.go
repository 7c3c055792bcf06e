// Package models holds the persisted records of the referral system.
package models

import "github.com/shopspring/decimal"

func init() {
	// Currency amounts travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// All lists every model migrated by database.Migrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Referral{},
		&RewardTier{},
	}
}
