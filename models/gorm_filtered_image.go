package models

import "encoding/json"

// processing status values for FilteredImage records
const (
	FilteredImageStatusCompleted = "completed"
	FilteredImageStatusNoMatch   = "no_match"
)

// BoundingBox is the pixel region of a detected face within the image.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DetectedPerson is one candidate match that cleared a watcher's
// confidence threshold.
type DetectedPerson struct {
	PersonID    string      `json:"person_id"`
	PersonName  string      `json:"person_name"`
	Confidence  float64     `json:"confidence"`
	BoundingBox BoundingBox `json:"bounding_box"`
}

// FilteredImage represents one persisted evaluation record for a
// (message, watcher) pair using GORM. It corresponds to the
// 'filtered_images' table. After creation only IsNotified and
// IsArchived are ever mutated.
type FilteredImage struct {
	ID        string `gorm:"primaryKey" json:"id"`
	MessageID string `gorm:"not null;index" json:"message_id"`
	WatcherID string `gorm:"not null;index" json:"watcher_id"`
	OwnerID   string `gorm:"not null;index" json:"owner_id"`
	GroupID   string `gorm:"not null;index" json:"group_id"`
	GroupName string `gorm:"not null" json:"group_name"`

	SenderID   string `gorm:"not null" json:"sender_id"`
	SenderName string `gorm:"" json:"sender_name"`

	ImageRef      string  `gorm:"not null" json:"image_ref"`
	Caption       *string `gorm:"" json:"caption,omitempty"`
	ThumbnailPath *string `gorm:"" json:"thumbnail_path,omitempty"`

	// DetectedPersonsData is a JSON array of DetectedPerson, stored as TEXT
	DetectedPersonsData string `gorm:"not null;default:'[]';column:detected_persons" json:"-"`

	FacesDetected    int    `gorm:"not null;default:0" json:"faces_detected"`
	ProcessingTimeMs int64  `gorm:"not null;default:0" json:"processing_time_ms"`
	Algorithm        string `gorm:"not null;default:''" json:"algorithm"`
	Status           string `gorm:"not null;default:''" json:"status"`

	// best-effort image metadata, defaulted when probing fails
	ImageSize *int64  `gorm:"" json:"image_size,omitempty"`
	Width     *int    `gorm:"" json:"width,omitempty"`
	Height    *int    `gorm:"" json:"height,omitempty"`
	MimeType  *string `gorm:"" json:"mime_type,omitempty"`

	IsNotified bool   `gorm:"not null;default:false" json:"is_notified"`
	IsArchived bool   `gorm:"not null;default:false;index" json:"is_archived"`
	TagsData   string `gorm:"not null;default:'[]';column:tags" json:"-"`

	CreatedAt int64 `gorm:"not null;index" json:"created_at"` // Unix timestamp
	UpdatedAt int64 `gorm:"not null" json:"updated_at"`       // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (FilteredImage) TableName() string {
	return "filtered_images"
}

// GetDetectedPersons decodes the JSON detection column.
func (fi *FilteredImage) GetDetectedPersons() []DetectedPerson {
	if fi.DetectedPersonsData == "" {
		return nil
	}
	var persons []DetectedPerson
	if err := json.Unmarshal([]byte(fi.DetectedPersonsData), &persons); err != nil {
		return nil
	}
	return persons
}

// SetDetectedPersons encodes the detection list into the JSON column.
func (fi *FilteredImage) SetDetectedPersons(persons []DetectedPerson) {
	if persons == nil {
		persons = []DetectedPerson{}
	}
	data, err := json.Marshal(persons)
	if err != nil {
		fi.DetectedPersonsData = "[]"
		return
	}
	fi.DetectedPersonsData = string(data)
}

// GetTags decodes the free-form tag list.
func (fi *FilteredImage) GetTags() []string {
	if fi.TagsData == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(fi.TagsData), &tags); err != nil {
		return nil
	}
	return tags
}

// SetTags encodes the free-form tag list.
func (fi *FilteredImage) SetTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		fi.TagsData = "[]"
		return
	}
	fi.TagsData = string(data)
}
