package domain

import "time"

// Currency enumerates the supported donation currencies.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyINR Currency = "INR"
	CurrencyBTC Currency = "BTC"
	CurrencyETH Currency = "ETH"
)

// SupportedCurrencies lists currencies in the order the donate screen offers them.
var SupportedCurrencies = []Currency{CurrencyUSD, CurrencyINR, CurrencyBTC, CurrencyETH}

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	for _, s := range SupportedCurrencies {
		if c == s {
			return true
		}
	}
	return false
}

// DonationStatus enumerates donation lifecycle states.
type DonationStatus string

const (
	DonationStatusPending DonationStatus = "pending"
	DonationStatusSuccess DonationStatus = "success"
	DonationStatusFailed  DonationStatus = "failed"
)

// PrivacySnapshot is the donor's identity choice captured by value when the
// donation was made. It is never updated afterwards.
type PrivacySnapshot struct {
	RealName  string `json:"real_name" yaml:"real_name"`
	DummyName string `json:"dummy_name" yaml:"dummy_name"`
	IsPrivate bool   `json:"is_private" yaml:"is_private"`
}

// DisplayIdentity returns the pseudonym for private snapshots and the real
// name otherwise.
func (s PrivacySnapshot) DisplayIdentity() string {
	if s.IsPrivate {
		return s.DummyName
	}
	return s.RealName
}

// Donation represents a supporter contribution record.
type Donation struct {
	ID         int64           `json:"id" yaml:"id"`
	UserID     int64           `json:"user_id" yaml:"user_id"`
	CategoryID int             `json:"category_id" yaml:"category_id"`
	Amount     float64         `json:"amount" yaml:"amount"`
	Currency   Currency        `json:"currency" yaml:"currency"`
	Status     DonationStatus  `json:"status" yaml:"status"`
	DonatedAt  time.Time       `json:"donated_at" yaml:"donated_at"`
	Snapshot   PrivacySnapshot `json:"snapshot" yaml:"snapshot"`
}
