package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/groupwatchapp/groupwatchbackend/chatid"
	"github.com/groupwatchapp/groupwatchbackend/models"
	"github.com/groupwatchapp/groupwatchbackend/repository"
)

// DefaultConfidenceThreshold is applied when a watcher is registered
// without an explicit threshold.
const DefaultConfidenceThreshold = 0.6

// WatcherSettings is a partial settings patch: nil fields are left at
// their defaults on create and untouched on update.
type WatcherSettings struct {
	NotifyOnMatch        *bool    `json:"notify_on_match,omitempty"`
	SaveAllImages        *bool    `json:"save_all_images,omitempty"`
	ConfidenceThreshold  *float64 `json:"confidence_threshold,omitempty"`
	AutoReply            *bool    `json:"auto_reply,omitempty"`
	ReplyMessage         *string  `json:"reply_message,omitempty"`
	CaptureSocialLinks   *bool    `json:"capture_social_links,omitempty"`
	ProcessVoiceNotes    *bool    `json:"process_voice_notes,omitempty"`
	SendFeedbackMessages *bool    `json:"send_feedback_messages,omitempty"`
}

// WatcherUpdate carries the mutable watcher fields for partial updates.
type WatcherUpdate struct {
	GroupName       *string         `json:"group_name,omitempty"`
	TargetPersonIDs []string        `json:"target_person_ids,omitempty"`
	IsActive        *bool           `json:"is_active,omitempty"`
	Settings        WatcherSettings `json:"settings"`
}

// WatcherRegistry owns watcher lifecycle: registration, lookup, policy
// updates, and removal. All group keying goes through chatid.
type WatcherRegistry struct {
	watcherRepo repository.WatcherRepositoryInterface
	personRepo  repository.PersonProfileRepositoryInterface
}

// NewWatcherRegistry creates a new watcher registry service
func NewWatcherRegistry(watcherRepo repository.WatcherRepositoryInterface, personRepo repository.PersonProfileRepositoryInterface) *WatcherRegistry {
	return &WatcherRegistry{watcherRepo: watcherRepo, personRepo: personRepo}
}

// validateTargetPersons checks that every id resolves to an active
// profile owned by ownerID
func (s *WatcherRegistry) validateTargetPersons(ownerID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	profiles, err := s.personRepo.GetActiveByOwner(ownerID, ids)
	if err != nil {
		return fmt.Errorf("failed to validate target persons: %w", err)
	}
	found := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		found[p.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return NewValidationError("target person %s is not an active profile owned by this user", id)
		}
	}
	return nil
}

func applySettings(w *models.Watcher, settings WatcherSettings) error {
	if settings.NotifyOnMatch != nil {
		w.NotifyOnMatch = *settings.NotifyOnMatch
	}
	if settings.SaveAllImages != nil {
		w.SaveAllImages = *settings.SaveAllImages
	}
	if settings.ConfidenceThreshold != nil {
		t := *settings.ConfidenceThreshold
		if t < 0 || t > 1 {
			return NewValidationError("confidence_threshold must be between 0 and 1, got %v", t)
		}
		w.ConfidenceThreshold = t
	}
	if settings.AutoReply != nil {
		w.AutoReply = *settings.AutoReply
	}
	if settings.ReplyMessage != nil {
		w.ReplyMessage = settings.ReplyMessage
	}
	if settings.CaptureSocialLinks != nil {
		w.CaptureSocialLinks = *settings.CaptureSocialLinks
	}
	if settings.ProcessVoiceNotes != nil {
		w.ProcessVoiceNotes = *settings.ProcessVoiceNotes
	}
	if settings.SendFeedbackMessages != nil {
		w.SendFeedbackMessages = *settings.SendFeedbackMessages
	}
	return nil
}

// CreateWatcher registers a new watcher for (ownerID, groupID). The
// group id is normalized before the uniqueness check; statistics start
// at zero and the watcher is active.
func (s *WatcherRegistry) CreateWatcher(ownerID string, groupID chatid.Ref, groupName string, targetPersonIDs []string, settings WatcherSettings) (*models.Watcher, error) {
	canonical := groupID.Canonical()
	if canonical == "" {
		return nil, NewValidationError("group id is missing or unusable")
	}

	if err := s.validateTargetPersons(ownerID, targetPersonIDs); err != nil {
		return nil, err
	}

	existing, err := s.watcherRepo.GetByOwnerAndGroup(ownerID, canonical)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for existing watcher: %w", err)
	}
	if existing != nil {
		return nil, &ConflictError{Detail: fmt.Sprintf("a watcher for group %s already exists", canonical)}
	}

	watcher := &models.Watcher{
		ID:                  uuid.NewString(),
		OwnerID:             ownerID,
		GroupID:             canonical,
		GroupName:           groupName,
		NotifyOnMatch:       true,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		IsActive:            true,
	}
	watcher.SetTargetPersonIDs(targetPersonIDs)
	if err := applySettings(watcher, settings); err != nil {
		return nil, err
	}

	if err := s.watcherRepo.Create(watcher); err != nil {
		return nil, err
	}
	log.Printf("registry: created watcher %s for owner %s on group %s", watcher.ID, ownerID, canonical)
	return watcher, nil
}

// ListWatchers returns all watchers owned by a user
func (s *WatcherRegistry) ListWatchers(ownerID string) ([]models.Watcher, error) {
	return s.watcherRepo.ListByOwner(ownerID)
}

// GetActiveWatchersForGroup normalizes the id and returns the active
// watchers subscribed to it
func (s *WatcherRegistry) GetActiveWatchersForGroup(groupID chatid.Ref) ([]models.Watcher, error) {
	canonical := groupID.Canonical()
	if canonical == "" {
		return nil, nil
	}
	return s.watcherRepo.ListActiveByGroup(canonical)
}

// GetActiveWatchedGroupIDs returns every group with at least one active
// watcher, deduplicated and in canonical lowercase form. The transport
// layer uses this to skip media downloads for unwatched groups.
func (s *WatcherRegistry) GetActiveWatchedGroupIDs() ([]string, error) {
	return s.watcherRepo.ListActiveGroupIDs()
}

// getOwned loads a watcher and enforces ownership
func (s *WatcherRegistry) getOwned(watcherID, ownerID string) (*models.Watcher, error) {
	watcher, err := s.watcherRepo.GetByID(watcherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Detail: fmt.Sprintf("watcher %s not found", watcherID)}
		}
		return nil, err
	}
	if watcher.OwnerID != ownerID {
		return nil, &ForbiddenError{Detail: fmt.Sprintf("watcher %s does not belong to this user", watcherID)}
	}
	return watcher, nil
}

// UpdateWatcher applies a partial update to an owned watcher,
// re-validating target persons when they are supplied.
func (s *WatcherRegistry) UpdateWatcher(watcherID, ownerID string, update WatcherUpdate) (*models.Watcher, error) {
	watcher, err := s.getOwned(watcherID, ownerID)
	if err != nil {
		return nil, err
	}

	if update.TargetPersonIDs != nil {
		if err := s.validateTargetPersons(ownerID, update.TargetPersonIDs); err != nil {
			return nil, err
		}
		watcher.SetTargetPersonIDs(update.TargetPersonIDs)
	}
	if update.GroupName != nil {
		watcher.GroupName = *update.GroupName
	}
	if update.IsActive != nil {
		watcher.IsActive = *update.IsActive
	}
	if err := applySettings(watcher, update.Settings); err != nil {
		return nil, err
	}

	if err := s.watcherRepo.Update(watcher); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Detail: fmt.Sprintf("watcher %s not found", watcherID)}
		}
		return nil, err
	}
	return watcher, nil
}

// DeactivateWatcher soft-removes an owned watcher (isActive=false)
func (s *WatcherRegistry) DeactivateWatcher(watcherID, ownerID string) error {
	if _, err := s.getOwned(watcherID, ownerID); err != nil {
		return err
	}
	return s.watcherRepo.SetActive(watcherID, false)
}

// DeleteWatcher hard-deletes an owned watcher
func (s *WatcherRegistry) DeleteWatcher(watcherID, ownerID string) error {
	if _, err := s.getOwned(watcherID, ownerID); err != nil {
		return err
	}
	if err := s.watcherRepo.Delete(watcherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Detail: fmt.Sprintf("watcher %s not found", watcherID)}
		}
		return err
	}
	log.Printf("registry: deleted watcher %s for owner %s", watcherID, ownerID)
	return nil
}
