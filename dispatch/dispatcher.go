package dispatch

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/groupwatchapp/groupwatchbackend/chatid"
	"github.com/groupwatchapp/groupwatchbackend/models"
	"github.com/groupwatchapp/groupwatchbackend/repository"
	"github.com/groupwatchapp/groupwatchbackend/urltext"
)

// bookmarkSource tags bookmark batches originating from this pipeline
const bookmarkSource = "group-watch"

// MessagePayload is the content of one inbound group message.
type MessagePayload struct {
	ImageRef string   `json:"image_ref,omitempty"`
	Caption  string   `json:"caption,omitempty"`
	Text     string   `json:"text,omitempty"`
	URLs     []string `json:"urls,omitempty"`
}

// InboundMessage is the single public input of this subsystem, supplied
// by the chat transport layer.
type InboundMessage struct {
	MessageID  string         `json:"message_id"`
	GroupID    chatid.Ref     `json:"group_id"`
	SenderID   string         `json:"sender_id"`
	SenderName string         `json:"sender_name"`
	Payload    MessagePayload `json:"payload"`
}

// Options tune non-essential recorder behavior.
type Options struct {
	// Algorithm tags persisted records with the recognition backend in use
	Algorithm string
	// ThumbnailDir enables preview thumbnails for locally stored images
	// when non-empty
	ThumbnailDir  string
	ThumbnailSize int
}

// Dispatcher fans one inbound message out to every active watcher of
// its group and runs each watcher's pipeline independently.
type Dispatcher struct {
	watcherRepo repository.WatcherRepositoryInterface
	imageRepo   repository.FilteredImageRepositoryInterface
	matcher     Matcher
	notifier    Notifier
	messenger   Messenger
	bookmarks   BookmarkIngestor
	opts        Options

	sideEffects sync.WaitGroup
}

// NewDispatcher creates a message dispatcher. Notifier, messenger, and
// bookmark collaborators may be nil; the corresponding hand-offs are
// then skipped.
func NewDispatcher(
	watcherRepo repository.WatcherRepositoryInterface,
	imageRepo repository.FilteredImageRepositoryInterface,
	matcher Matcher,
	notifier Notifier,
	messenger Messenger,
	bookmarks BookmarkIngestor,
	opts Options,
) *Dispatcher {
	return &Dispatcher{
		watcherRepo: watcherRepo,
		imageRepo:   imageRepo,
		matcher:     matcher,
		notifier:    notifier,
		messenger:   messenger,
		bookmarks:   bookmarks,
		opts:        opts,
	}
}

// ProcessMessage runs the full fan-out for one inbound message. The
// only failure it surfaces is the inability to load the watcher list;
// everything inside a watcher's pipeline is contained to that watcher.
func (d *Dispatcher) ProcessMessage(ctx context.Context, msg InboundMessage) error {
	groupID := msg.GroupID.Canonical()
	if groupID == "" {
		log.Printf("dispatch: message %s has no usable group id, skipping", msg.MessageID)
		return nil
	}

	watchers, err := d.watcherRepo.ListActiveByGroup(groupID)
	if err != nil {
		log.Printf("dispatch: failed to load watchers for group %s: %v", groupID, err)
		return fmt.Errorf("failed to load watchers for group %s: %w", groupID, err)
	}
	if len(watchers) == 0 {
		// the hot path: most groups have no watcher and must cost nothing
		return nil
	}

	var wg sync.WaitGroup
	for i := range watchers {
		watcher := watchers[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("dispatch: watcher %s pipeline panicked on message %s: %v", watcher.ID, msg.MessageID, r)
				}
			}()
			d.runWatcherPipeline(ctx, groupID, &watcher, msg)
		}()
	}
	wg.Wait()
	return nil
}

// runWatcherPipeline executes one watcher's steps strictly in order:
// message counter, optional bookmark hand-off, optional image pipeline.
func (d *Dispatcher) runWatcherPipeline(ctx context.Context, groupID string, watcher *models.Watcher, msg InboundMessage) {
	// the message counter reflects receipt even if later steps fail
	if err := d.watcherRepo.IncrementTotalMessages(watcher.ID); err != nil {
		log.Printf("dispatch: failed to count message %s for watcher %s: %v", msg.MessageID, watcher.ID, err)
	}

	if watcher.CaptureSocialLinks && d.bookmarks != nil {
		urls := urltext.Union(
			msg.Payload.URLs,
			urltext.Extract(msg.Payload.Text),
			urltext.Extract(msg.Payload.Caption),
		)
		if len(urls) > 0 {
			batch := BookmarkBatch{
				OwnerID: watcher.OwnerID,
				URLs:    urls,
				Source:  bookmarkSource,
				Context: watcher.GroupName,
			}
			d.detach(func() {
				if err := d.bookmarks.Ingest(batch); err != nil {
					log.Printf("dispatch: bookmark hand-off failed for watcher %s: %v", watcher.ID, err)
				}
			})
		}
	}

	if msg.Payload.ImageRef != "" {
		if err := d.watcherRepo.IncrementImagesProcessed(watcher.ID); err != nil {
			log.Printf("dispatch: failed to count image for watcher %s: %v", watcher.ID, err)
		}
		d.processImage(ctx, groupID, watcher, msg)
	}
}

// detach spawns a fire-and-forget side effect with its own error
// boundary so it can never propagate into the watcher pipeline.
func (d *Dispatcher) detach(fn func()) {
	d.sideEffects.Add(1)
	go func() {
		defer d.sideEffects.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("dispatch: side effect panicked: %v", r)
			}
		}()
		fn()
	}()
}

// DrainSideEffects blocks until all detached side-effect tasks have
// finished. Used during shutdown and by tests.
func (d *Dispatcher) DrainSideEffects() {
	d.sideEffects.Wait()
}
