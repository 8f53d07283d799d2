package models

import "time"

// Recurrence represents how often a ledger entry repeats
type Recurrence string

const (
	RecurrenceOneOff    Recurrence = "one_off"
	RecurrenceRecurring Recurrence = "recurring"
)

// PaymentStatus represents the settlement state of an expense
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// AccountKind classifies the account an expense was paid from
type AccountKind string

const (
	AccountKindChecking AccountKind = "checking"
	AccountKindSavings  AccountKind = "savings"
	AccountKindCash     AccountKind = "cash"
)

// Expense represents an expense ledger entry. Amounts are stored in cents.
// Fixed entries appear in every month's filtered listing regardless of their
// literal dates.
type Expense struct {
	Base
	ProfileID     uint          `gorm:"not null;index" json:"profile_id"`
	CategoryID    uint          `gorm:"not null;index" json:"category_id"`
	Amount        int64         `gorm:"not null" json:"amount"`
	DeliveryDate  time.Time     `gorm:"not null" json:"delivery_date"`
	DueDate       time.Time     `gorm:"not null" json:"due_date"`
	Description   string        `json:"description"`
	Recurrence    Recurrence    `gorm:"not null" json:"recurrence"`
	PaymentStatus PaymentStatus `gorm:"not null" json:"payment_status"`
	AccountKind   AccountKind   `gorm:"not null" json:"account_kind"`
	Fixed         bool          `gorm:"not null;default:false" json:"fixed"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}

// Income represents an income ledger entry. Amounts are stored in cents.
type Income struct {
	Base
	ProfileID    uint       `gorm:"not null;index" json:"profile_id"`
	CategoryID   uint       `gorm:"not null;index" json:"category_id"`
	Amount       int64      `gorm:"not null" json:"amount"`
	ReceivedDate time.Time  `gorm:"not null" json:"received_date"`
	Description  string     `json:"description"`
	Recurrence   Recurrence `gorm:"not null" json:"recurrence"`
	Fixed        bool       `gorm:"not null;default:false" json:"fixed"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}
