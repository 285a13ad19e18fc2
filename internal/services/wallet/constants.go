package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultProfileTTL = 10 * time.Minute

	profileKeyType = "profile"

	DefaultPageSize = 20
	maxPageSize     = 100
)

// DefaultMaxCredit is the largest single top-up accepted.
var DefaultMaxCredit = decimal.NewFromInt(10000)
