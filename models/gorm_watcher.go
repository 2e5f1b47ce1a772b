package models

import "encoding/json"

// Watcher represents a user's subscription to one chat group using GORM.
// It corresponds to the 'watchers' table. GroupID is always stored in
// canonical form (see the chatid package); (OwnerID, GroupID) is unique.
type Watcher struct {
	ID        string `gorm:"primaryKey" json:"id"`
	OwnerID   string `gorm:"not null;uniqueIndex:idx_watchers_owner_group" json:"owner_id"`
	GroupID   string `gorm:"not null;uniqueIndex:idx_watchers_owner_group" json:"group_id"`
	GroupName string `gorm:"not null" json:"group_name"`

	// TargetPersonIDs is a JSON array of person-profile ids, stored as TEXT
	TargetPersonIDs string `gorm:"not null;default:'[]';column:target_person_ids" json:"-"`

	NotifyOnMatch        bool    `gorm:"not null;default:true" json:"notify_on_match"`
	SaveAllImages        bool    `gorm:"not null;default:false" json:"save_all_images"`
	ConfidenceThreshold  float64 `gorm:"not null;default:0.6" json:"confidence_threshold"`
	AutoReply            bool    `gorm:"not null;default:false" json:"auto_reply"`
	ReplyMessage         *string `gorm:"" json:"reply_message,omitempty"`
	CaptureSocialLinks   bool    `gorm:"not null;default:false" json:"capture_social_links"`
	ProcessVoiceNotes    bool    `gorm:"not null;default:false" json:"process_voice_notes"`
	SendFeedbackMessages bool    `gorm:"not null;default:false" json:"send_feedback_messages"`

	IsActive bool `gorm:"not null;default:true;index" json:"is_active"`

	// running usage counters, only ever incremented atomically in SQL
	TotalMessages   int64 `gorm:"not null;default:0" json:"total_messages"`
	ImagesProcessed int64 `gorm:"not null;default:0" json:"images_processed"`
	PersonsDetected int64 `gorm:"not null;default:0" json:"persons_detected"`

	CreatedAt int64 `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt int64 `gorm:"not null" json:"updated_at"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Watcher) TableName() string {
	return "watchers"
}

// GetTargetPersonIDs decodes the JSON id list column.
func (w *Watcher) GetTargetPersonIDs() []string {
	if w.TargetPersonIDs == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(w.TargetPersonIDs), &ids); err != nil {
		return nil
	}
	return ids
}

// SetTargetPersonIDs encodes the id list into the JSON column.
func (w *Watcher) SetTargetPersonIDs(ids []string) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		w.TargetPersonIDs = "[]"
		return
	}
	w.TargetPersonIDs = string(data)
}
