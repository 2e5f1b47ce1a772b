package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/groupwatchapp/groupwatchbackend/chatid"
	"github.com/groupwatchapp/groupwatchbackend/services"
)

// ownerHeader carries the authenticated user id, injected by the
// platform's API gateway in front of this service.
const ownerHeader = "X-Owner-ID"

func ownerID(r *http.Request) string {
	return r.Header.Get(ownerHeader)
}

// WatcherHandler exposes the watcher registry over HTTP.
type WatcherHandler struct {
	Registry *services.WatcherRegistry
}

// CreateWatcher handles POST /api/watchers
func (wh *WatcherHandler) CreateWatcher(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_owner", "missing "+ownerHeader+" header")
		return
	}

	var req struct {
		GroupID         chatid.Ref               `json:"group_id"`
		GroupName       string                   `json:"group_name"`
		TargetPersonIDs []string                 `json:"target_person_ids"`
		Settings        services.WatcherSettings `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "invalid request body: "+err.Error())
		return
	}

	watcher, err := wh.Registry.CreateWatcher(owner, req.GroupID, req.GroupName, req.TargetPersonIDs, req.Settings)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, watcher)
}

// ListWatchers handles GET /api/watchers
func (wh *WatcherHandler) ListWatchers(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_owner", "missing "+ownerHeader+" header")
		return
	}

	watchers, err := wh.Registry.ListWatchers(owner)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, watchers)
}

// ListWatchedGroups handles GET /api/watched-groups. The transport
// layer polls this to skip media downloads for unwatched groups.
func (wh *WatcherHandler) ListWatchedGroups(w http.ResponseWriter, r *http.Request) {
	ids, err := wh.Registry.GetActiveWatchedGroupIDs()
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"group_ids": ids})
}

// UpdateWatcher handles PUT /api/watchers/{watcher_id}
func (wh *WatcherHandler) UpdateWatcher(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	watcherID := chi.URLParam(r, "watcher_id")

	var update services.WatcherUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_body", "invalid request body: "+err.Error())
		return
	}

	watcher, err := wh.Registry.UpdateWatcher(watcherID, owner, update)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, watcher)
}

// DeactivateWatcher handles POST /api/watchers/{watcher_id}/deactivate
func (wh *WatcherHandler) DeactivateWatcher(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	watcherID := chi.URLParam(r, "watcher_id")

	if err := wh.Registry.DeactivateWatcher(watcherID, owner); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteWatcher handles DELETE /api/watchers/{watcher_id}
func (wh *WatcherHandler) DeleteWatcher(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	watcherID := chi.URLParam(r, "watcher_id")

	if err := wh.Registry.DeleteWatcher(watcherID, owner); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
