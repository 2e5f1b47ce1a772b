package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/groupwatchapp/groupwatchbackend/models"
)

// PersonProfileRepository reads the platform's person directory. This
// subsystem never creates or mutates profiles.
type PersonProfileRepository struct {
	DB *gorm.DB
}

// NewPersonProfileRepository creates a new instance of PersonProfileRepository
func NewPersonProfileRepository(db *gorm.DB) *PersonProfileRepository {
	return &PersonProfileRepository{DB: db}
}

// GetActiveByOwner retrieves the active profiles among ids that belong
// to ownerID. Missing, inactive, or foreign ids are simply absent from
// the result; the caller decides whether that is an error.
func (r *PersonProfileRepository) GetActiveByOwner(ownerID string, ids []string) ([]models.PersonProfile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var profiles []models.PersonProfile
	err := r.DB.Where("owner_id = ? AND is_active = ? AND id IN ?", ownerID, true, ids).Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get person profiles for owner %s: %w", ownerID, err)
	}
	return profiles, nil
}
