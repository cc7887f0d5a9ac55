package domain

import "time"

// Certificate acknowledges a single donation.
type Certificate struct {
	ID           int64     `json:"id"`
	DonationID   int64     `json:"donation_id"`
	CategoryName string    `json:"category_name"`
	Amount       float64   `json:"amount"`
	Currency     Currency  `json:"currency"`
	Display      string    `json:"display"`
	IssuedAt     time.Time `json:"issued_at"`
}
