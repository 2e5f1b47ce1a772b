package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/groupwatchapp/groupwatchbackend/dispatch"
	"github.com/groupwatchapp/groupwatchbackend/workers"
)

// WebhookHandler is the inbound boundary: the chat transport posts each
// normalized message here and the pipeline picks it up asynchronously.
type WebhookHandler struct {
	Queue *workers.MessageProcessor
}

// ReceiveMessage handles POST /api/messages
func (h *WebhookHandler) ReceiveMessage(w http.ResponseWriter, r *http.Request) {
	var msg dispatch.InboundMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "invalid message payload: "+err.Error())
		return
	}
	if msg.MessageID == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_message_id", "message_id is required")
		return
	}

	if !h.Queue.Enqueue(msg) {
		WriteAPIError(w, http.StatusServiceUnavailable, "queue_full", "message queue is full, retry later")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
