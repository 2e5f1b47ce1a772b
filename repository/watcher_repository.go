package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/facette/natsort"
	"gorm.io/gorm"

	"github.com/groupwatchapp/groupwatchbackend/chatid"
	"github.com/groupwatchapp/groupwatchbackend/models"
)

// WatcherRepository handles database operations for Watcher entities
type WatcherRepository struct {
	DB *gorm.DB
}

// NewWatcherRepository creates a new instance of WatcherRepository
func NewWatcherRepository(db *gorm.DB) *WatcherRepository {
	return &WatcherRepository{DB: db}
}

// Create creates a new watcher record in the database
func (r *WatcherRepository) Create(watcher *models.Watcher) error {
	now := time.Now().Unix()
	if watcher.CreatedAt == 0 {
		watcher.CreatedAt = now
	}
	if watcher.UpdatedAt == 0 {
		watcher.UpdatedAt = now
	}

	err := r.DB.Create(watcher).Error
	if err != nil {
		return fmt.Errorf("failed to create watcher for group %s: %w", watcher.GroupID, err)
	}
	return nil
}

// GetByID retrieves a watcher by its ID
func (r *WatcherRepository) GetByID(id string) (*models.Watcher, error) {
	var watcher models.Watcher
	err := r.DB.Where("id = ?", id).First(&watcher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get watcher by ID %s: %w", id, err)
	}
	return &watcher, nil
}

// GetByOwnerAndGroup retrieves the watcher for a (owner, canonical group) pair
func (r *WatcherRepository) GetByOwnerAndGroup(ownerID, groupID string) (*models.Watcher, error) {
	var watcher models.Watcher
	err := r.DB.Where("owner_id = ? AND group_id = ?", ownerID, groupID).First(&watcher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get watcher for owner %s group %s: %w", ownerID, groupID, err)
	}
	return &watcher, nil
}

// ListByOwner retrieves all watchers belonging to a user, newest first
func (r *WatcherRepository) ListByOwner(ownerID string) ([]models.Watcher, error) {
	var watchers []models.Watcher
	err := r.DB.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&watchers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list watchers for owner %s: %w", ownerID, err)
	}
	return watchers, nil
}

// ListActiveByGroup retrieves all active watchers for a canonical group id
func (r *WatcherRepository) ListActiveByGroup(groupID string) ([]models.Watcher, error) {
	var watchers []models.Watcher
	err := r.DB.Where("group_id = ? AND is_active = ?", groupID, true).Find(&watchers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active watchers for group %s: %w", groupID, err)
	}
	return watchers, nil
}

// ListActiveGroupIDs returns the canonical ids of every group with at
// least one active watcher, deduplicated and naturally sorted. Stored
// values are re-normalized so records written before the canonical-form
// migration still collapse to one entry.
func (r *WatcherRepository) ListActiveGroupIDs() ([]string, error) {
	var stored []string
	err := r.DB.Model(&models.Watcher{}).
		Where("is_active = ?", true).
		Distinct().
		Pluck("group_id", &stored).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active group ids: %w", err)
	}

	seen := make(map[string]bool, len(stored))
	ids := make([]string, 0, len(stored))
	for _, raw := range stored {
		id := chatid.Normalize(raw)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	natsort.Sort(ids)
	return ids, nil
}

// Update persists the mutable fields of an existing watcher
func (r *WatcherRepository) Update(watcher *models.Watcher) error {
	watcher.UpdatedAt = time.Now().Unix()

	result := r.DB.Model(&models.Watcher{}).Where("id = ?", watcher.ID).Updates(map[string]interface{}{
		"group_name":             watcher.GroupName,
		"target_person_ids":      watcher.TargetPersonIDs,
		"notify_on_match":        watcher.NotifyOnMatch,
		"save_all_images":        watcher.SaveAllImages,
		"confidence_threshold":   watcher.ConfidenceThreshold,
		"auto_reply":             watcher.AutoReply,
		"reply_message":          watcher.ReplyMessage,
		"capture_social_links":   watcher.CaptureSocialLinks,
		"process_voice_notes":    watcher.ProcessVoiceNotes,
		"send_feedback_messages": watcher.SendFeedbackMessages,
		"is_active":              watcher.IsActive,
		"updated_at":             watcher.UpdatedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update watcher ID %s: %w", watcher.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetActive flips the isActive flag without touching policy settings
func (r *WatcherRepository) SetActive(id string, active bool) error {
	result := r.DB.Model(&models.Watcher{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active":  active,
		"updated_at": time.Now().Unix(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to set active=%v on watcher ID %s: %w", active, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a watcher by its ID
func (r *WatcherRepository) Delete(id string) error {
	result := r.DB.Delete(&models.Watcher{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete watcher ID %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// increment applies an atomic counter update in SQL so concurrent
// messages to the same watcher never lose an increment
func (r *WatcherRepository) increment(id, column string) error {
	result := r.DB.Model(&models.Watcher{}).Where("id = ?", id).Updates(map[string]interface{}{
		column:       gorm.Expr(column+" + ?", 1),
		"updated_at": time.Now().Unix(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to increment %s for watcher ID %s: %w", column, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementTotalMessages bumps the received-message counter by one
func (r *WatcherRepository) IncrementTotalMessages(id string) error {
	return r.increment(id, "total_messages")
}

// IncrementImagesProcessed bumps the processed-image counter by one
func (r *WatcherRepository) IncrementImagesProcessed(id string) error {
	return r.increment(id, "images_processed")
}

// IncrementPersonsDetected bumps the detection counter by one
func (r *WatcherRepository) IncrementPersonsDetected(id string) error {
	return r.increment(id, "persons_detected")
}
