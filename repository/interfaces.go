package repository

import (
	"github.com/groupwatchapp/groupwatchbackend/models"
)

// WatcherRepositoryInterface defines the methods for watcher data operations
type WatcherRepositoryInterface interface {
	Create(watcher *models.Watcher) error
	GetByID(id string) (*models.Watcher, error)
	GetByOwnerAndGroup(ownerID, groupID string) (*models.Watcher, error)
	ListByOwner(ownerID string) ([]models.Watcher, error)
	ListActiveByGroup(groupID string) ([]models.Watcher, error)
	ListActiveGroupIDs() ([]string, error)
	Update(watcher *models.Watcher) error
	SetActive(id string, active bool) error
	Delete(id string) error

	// atomic SQL increments, safe under concurrent message delivery
	IncrementTotalMessages(id string) error
	IncrementImagesProcessed(id string) error
	IncrementPersonsDetected(id string) error
}

// FilteredImageRepositoryInterface defines the methods for filtered image data operations
type FilteredImageRepositoryInterface interface {
	Create(image *models.FilteredImage) error
	GetByID(id string) (*models.FilteredImage, error)
	List(filter FilteredImageFilter) ([]models.FilteredImage, error)
	Count(filter FilteredImageFilter) (int64, error)
	MarkNotified(id string) error
	SetArchived(id string, archived bool) error
	Delete(id string) error
}

// PersonProfileRepositoryInterface defines the read-only view of the
// platform's person directory this subsystem is allowed to consult
type PersonProfileRepositoryInterface interface {
	GetActiveByOwner(ownerID string, ids []string) ([]models.PersonProfile, error)
}

// FilteredImageFilter narrows and pages List and Count queries
type FilteredImageFilter struct {
	OwnerID  string
	GroupID  string
	PersonID string
	Archived *bool
	Limit    int
	Offset   int
}
