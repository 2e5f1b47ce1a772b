package dispatch

import (
	"context"

	"github.com/groupwatchapp/groupwatchbackend/models"
	"github.com/groupwatchapp/groupwatchbackend/recognition"
)

// Matcher is the recognition collaborator. Failures are reported inside
// the Result, never as an error; a failed attempt is terminal for the
// current (watcher, image).
type Matcher interface {
	MatchFaces(ctx context.Context, imageRef string, personIDs []string, confidenceThreshold float64) recognition.Result
}

// MatchNotification is the one-way signal sent when a watcher's policy
// fires on a persisted image.
type MatchNotification struct {
	WatcherID       string                  `json:"watcher_id"`
	OwnerID         string                  `json:"owner_id"`
	GroupID         string                  `json:"group_id"`
	GroupName       string                  `json:"group_name"`
	ImageID         string                  `json:"image_id"`
	ImageRef        string                  `json:"image_ref"`
	ThumbnailPath   string                  `json:"thumbnail_path,omitempty"`
	DetectedPersons []models.DetectedPerson `json:"detected_persons"`
}

// Notifier delivers match notifications, best-effort.
type Notifier interface {
	NotifyMatch(notification MatchNotification) error
}

// Messenger sends text back into a chat group through the transport
// gateway, fire-and-forget from this subsystem's perspective.
type Messenger interface {
	SendMessage(groupID, text string) error
}

// BookmarkBatch is a set of URLs handed off to the bookmark pipeline.
type BookmarkBatch struct {
	OwnerID string   `json:"owner_id"`
	URLs    []string `json:"urls"`
	Source  string   `json:"source"`
	Context string   `json:"context"`
}

// BookmarkIngestor accepts URL batches asynchronously; results are
// ignored by the caller.
type BookmarkIngestor interface {
	Ingest(batch BookmarkBatch) error
}
