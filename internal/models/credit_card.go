package models

import "time"

// CardBrand represents a credit card network brand
type CardBrand string

const (
	CardBrandVisa       CardBrand = "visa"
	CardBrandMastercard CardBrand = "mastercard"
	CardBrandElo        CardBrand = "elo"
	CardBrandAmex       CardBrand = "amex"
	CardBrandHipercard  CardBrand = "hipercard"
)

// CreditCard represents a credit card owned by a profile. CurrentSpend is a
// running accumulator in cents mutated by spend registration, not derived
// from invoices.
type CreditCard struct {
	Base
	ProfileID    uint      `gorm:"not null;index" json:"profile_id"`
	Name         string    `gorm:"not null" json:"name"`
	Brand        CardBrand `gorm:"not null" json:"brand"`
	Limit        int64     `gorm:"not null" json:"limit"`
	DueDay       int       `gorm:"not null" json:"due_day"`
	CurrentSpend int64     `gorm:"not null;default:0" json:"current_spend"`

	// Relationships
	Invoices []Invoice `gorm:"foreignKey:CreditCardID" json:"invoices,omitempty"`
}

// Invoice is an immutable snapshot of a card's closed monthly balance.
// Settlement moves it from closed through partially paid to paid; AmountPaid
// only ever increases and never exceeds Amount.
type Invoice struct {
	Base
	CreditCardID uint      `gorm:"not null;uniqueIndex:idx_invoices_card_period" json:"credit_card_id"`
	Period       string    `gorm:"not null;size:7;uniqueIndex:idx_invoices_card_period" json:"period"` // "YYYY-MM"
	Amount       int64     `gorm:"not null" json:"amount"`
	ClosureDate  time.Time `gorm:"not null" json:"closure_date"`
	AmountPaid   int64     `gorm:"not null;default:0" json:"amount_paid"`
	Paid         bool      `gorm:"not null;default:false" json:"paid"`
}
