package models

// CategoryKind represents the kind of category
type CategoryKind string

const (
	CategoryKindIncome  CategoryKind = "income"
	CategoryKindExpense CategoryKind = "expense"
)

// Category represents a global ledger category. Names are unique across the
// whole system regardless of kind.
type Category struct {
	Base
	Name string       `gorm:"not null;uniqueIndex" json:"name"`
	Kind CategoryKind `gorm:"not null" json:"kind"`

	// Relationships
	Expenses []Expense `gorm:"foreignKey:CategoryID" json:"expenses,omitempty"`
	Incomes  []Income  `gorm:"foreignKey:CategoryID" json:"incomes,omitempty"`
}
