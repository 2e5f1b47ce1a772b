package dispatch

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/groupwatchapp/groupwatchbackend/media"
	"github.com/groupwatchapp/groupwatchbackend/models"
	"github.com/groupwatchapp/groupwatchbackend/recognition"
)

// processImage runs the image-match pipeline for one watcher: call the
// recognition service, apply the watcher's confidence policy, and
// persist plus notify when the policy says to.
func (d *Dispatcher) processImage(ctx context.Context, groupID string, watcher *models.Watcher, msg InboundMessage) {
	result := d.matcher.MatchFaces(ctx, msg.Payload.ImageRef, watcher.GetTargetPersonIDs(), watcher.ConfidenceThreshold)
	if !result.Success {
		// terminal for this (watcher, image); the next message proceeds normally
		log.Printf("dispatch: recognition failed for watcher %s on message %s: %s", watcher.ID, msg.MessageID, result.Error)
		return
	}

	detected := recognition.FilterMatches(result, watcher.ConfidenceThreshold)

	if len(detected) == 0 && !watcher.SaveAllImages {
		return
	}

	if len(detected) > 0 {
		// one increment per image with any detection, not per person
		if err := d.watcherRepo.IncrementPersonsDetected(watcher.ID); err != nil {
			log.Printf("dispatch: failed to count detection for watcher %s: %v", watcher.ID, err)
		}
	}

	record := d.buildRecord(groupID, watcher, msg, result, detected)
	if err := d.imageRepo.Create(record); err != nil {
		log.Printf("dispatch: failed to persist filtered image for watcher %s on message %s: %v", watcher.ID, msg.MessageID, err)
		return
	}

	if len(detected) == 0 {
		// saveAllImages forced persistence; no side effects without a match
		return
	}

	if watcher.NotifyOnMatch && d.notifier != nil {
		notification := MatchNotification{
			WatcherID:       watcher.ID,
			OwnerID:         watcher.OwnerID,
			GroupID:         groupID,
			GroupName:       watcher.GroupName,
			ImageID:         record.ID,
			ImageRef:        record.ImageRef,
			DetectedPersons: detected,
		}
		if record.ThumbnailPath != nil {
			notification.ThumbnailPath = *record.ThumbnailPath
		}
		recordID := record.ID
		d.detach(func() {
			if err := d.notifier.NotifyMatch(notification); err != nil {
				log.Printf("dispatch: notification failed for image %s: %v", recordID, err)
			}
			// notified means attempted, regardless of delivery outcome
			if err := d.imageRepo.MarkNotified(recordID); err != nil {
				log.Printf("dispatch: failed to mark image %s notified: %v", recordID, err)
			}
		})
	}

	if watcher.AutoReply && watcher.ReplyMessage != nil && *watcher.ReplyMessage != "" && d.messenger != nil {
		reply := *watcher.ReplyMessage
		d.detach(func() {
			if err := d.messenger.SendMessage(groupID, reply); err != nil {
				log.Printf("dispatch: auto-reply failed for group %s: %v", groupID, err)
			}
		})
	}
}

// buildRecord assembles the FilteredImage row, attaching best-effort
// image metadata and an optional preview thumbnail.
func (d *Dispatcher) buildRecord(groupID string, watcher *models.Watcher, msg InboundMessage, result recognition.Result, detected []models.DetectedPerson) *models.FilteredImage {
	status := models.FilteredImageStatusCompleted
	if len(detected) == 0 {
		status = models.FilteredImageStatusNoMatch
	}

	record := &models.FilteredImage{
		ID:               uuid.NewString(),
		MessageID:        msg.MessageID,
		WatcherID:        watcher.ID,
		OwnerID:          watcher.OwnerID,
		GroupID:          groupID,
		GroupName:        watcher.GroupName,
		SenderID:         msg.SenderID,
		SenderName:       msg.SenderName,
		ImageRef:         msg.Payload.ImageRef,
		FacesDetected:    result.FacesDetected,
		ProcessingTimeMs: result.ProcessingTimeMs,
		Algorithm:        d.opts.Algorithm,
		Status:           status,
	}
	if msg.Payload.Caption != "" {
		caption := msg.Payload.Caption
		record.Caption = &caption
	}
	record.SetDetectedPersons(detected)
	record.SetTags(nil)

	meta := media.Probe(msg.Payload.ImageRef)
	record.ImageSize = meta.Size
	record.Width = meta.Width
	record.Height = meta.Height
	record.MimeType = meta.MimeType
	if record.Width == nil && result.ImageDimensions.Width > 0 {
		w, h := result.ImageDimensions.Width, result.ImageDimensions.Height
		record.Width = &w
		record.Height = &h
	}

	if d.opts.ThumbnailDir != "" && media.IsRasterImage(msg.Payload.ImageRef) {
		size := d.opts.ThumbnailSize
		if size <= 0 {
			size = 300
		}
		thumbPath, err := media.GenerateThumbnail(msg.Payload.ImageRef, d.opts.ThumbnailDir, size, size)
		if err != nil {
			log.Printf("dispatch: thumbnail generation failed for %s: %v", msg.Payload.ImageRef, err)
		} else {
			record.ThumbnailPath = &thumbPath
		}
	}

	return record
}
