package models

// PersonProfile represents a person a user is trying to detect. The
// profile lifecycle is owned elsewhere in the platform; this subsystem
// only reads it to validate watcher targets.
// It corresponds to the 'person_profiles' table.
type PersonProfile struct {
	ID       string `gorm:"primaryKey" json:"id"`
	OwnerID  string `gorm:"not null;index" json:"owner_id"`
	Name     string `gorm:"not null" json:"name"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`

	CreatedAt int64 `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt int64 `gorm:"not null" json:"updated_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (PersonProfile) TableName() string {
	return "person_profiles"
}
