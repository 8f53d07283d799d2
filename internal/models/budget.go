package models

// Budget represents a per-profile, per-month spending ceiling in cents.
// The (profile, period) pair is immutable once created; only the ceiling
// may change afterwards.
type Budget struct {
	Base
	ProfileID uint   `gorm:"not null;uniqueIndex:idx_budgets_profile_period" json:"profile_id"`
	Period    string `gorm:"not null;size:7;uniqueIndex:idx_budgets_profile_period" json:"period"` // "YYYY-MM"
	Ceiling   int64  `gorm:"not null" json:"ceiling"`
}
