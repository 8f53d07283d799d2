package models

// Profile represents a family member's identity within a household account.
// Profiles carry their own credential and authenticate independently of the
// account they belong to.
type Profile struct {
	Base
	FamilyAccountID uint   `gorm:"not null;index" json:"family_account_id"`
	Code            string `gorm:"not null;uniqueIndex" json:"code"`
	Name            string `gorm:"not null" json:"name"`
	Role            string `json:"role"` // free-text family role, e.g. "Mãe"
	Income          int64  `gorm:"not null;default:0" json:"income"`
	IsAdmin         bool   `gorm:"not null;default:false" json:"is_admin"`
	Password        string `gorm:"not null" json:"-"`

	// Relationships
	Permission  *Permission  `gorm:"foreignKey:ProfileID" json:"permission,omitempty"`
	Expenses    []Expense    `gorm:"foreignKey:ProfileID" json:"expenses,omitempty"`
	Incomes     []Income     `gorm:"foreignKey:ProfileID" json:"incomes,omitempty"`
	Budgets     []Budget     `gorm:"foreignKey:ProfileID" json:"budgets,omitempty"`
	CreditCards []CreditCard `gorm:"foreignKey:ProfileID" json:"credit_cards,omitempty"`
}

// Permission is the four-capability access-control record attached 1:1 to a
// profile. It is created in the same database transaction as its profile; a
// profile without a permission row must never be observable.
type Permission struct {
	Base
	ProfileID  uint `gorm:"not null;uniqueIndex" json:"profile_id"`
	CanCreate  bool `gorm:"not null;default:false" json:"can_create"`
	CanEdit    bool `gorm:"not null;default:false" json:"can_edit"`
	CanDelete  bool `gorm:"not null;default:false" json:"can_delete"`
	CanViewAll bool `gorm:"not null;default:false" json:"can_view_all"`
}
