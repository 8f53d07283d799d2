package models

// FamilyAccount represents a household account shared by one or more profiles.
type FamilyAccount struct {
	Base
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"not null;uniqueIndex" json:"email"`
	Password string `gorm:"not null" json:"-"`

	// Relationships
	Profiles []Profile `gorm:"foreignKey:FamilyAccountID" json:"profiles,omitempty"`
}
