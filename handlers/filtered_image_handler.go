package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/groupwatchapp/groupwatchbackend/chatid"
	"github.com/groupwatchapp/groupwatchbackend/models"
	"github.com/groupwatchapp/groupwatchbackend/repository"
)

const defaultPageSize = 50

// FilteredImageHandler exposes the persisted evaluation records for the
// dashboard.
type FilteredImageHandler struct {
	Repo repository.FilteredImageRepositoryInterface
}

// imageView augments the stored record with its decoded JSON columns.
type imageView struct {
	models.FilteredImage
	DetectedPersons []models.DetectedPerson `json:"detected_persons"`
	Tags            []string                `json:"tags"`
}

func toView(image models.FilteredImage) imageView {
	view := imageView{FilteredImage: image}
	view.DetectedPersons = image.GetDetectedPersons()
	if view.DetectedPersons == nil {
		view.DetectedPersons = []models.DetectedPerson{}
	}
	view.Tags = image.GetTags()
	if view.Tags == nil {
		view.Tags = []string{}
	}
	return view
}

// ListImages handles GET /api/images with optional group_id, person_id,
// archived, limit, and offset query parameters.
func (ih *FilteredImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		WriteAPIError(w, http.StatusBadRequest, "missing_owner", "missing "+ownerHeader+" header")
		return
	}

	filter := repository.FilteredImageFilter{
		OwnerID:  owner,
		GroupID:  chatid.Normalize(r.URL.Query().Get("group_id")),
		PersonID: r.URL.Query().Get("person_id"),
		Limit:    defaultPageSize,
	}
	if v := r.URL.Query().Get("archived"); v != "" {
		archived := v == "true" || v == "1"
		filter.Archived = &archived
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		filter.Offset = v
	}

	images, err := ih.Repo.List(filter)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	total, err := ih.Repo.Count(filter)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	views := make([]imageView, 0, len(images))
	for _, image := range images {
		views = append(views, toView(image))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"images": views,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// getOwned loads a record and checks it belongs to the caller
func (ih *FilteredImageHandler) getOwned(w http.ResponseWriter, r *http.Request) *models.FilteredImage {
	imageID := chi.URLParam(r, "image_id")
	image, err := ih.Repo.GetByID(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "filtered image not found")
		} else {
			WriteServiceError(w, err)
		}
		return nil
	}
	if image.OwnerID != ownerID(r) {
		WriteAPIError(w, http.StatusForbidden, "forbidden", "filtered image does not belong to this user")
		return nil
	}
	return image
}

// GetImage handles GET /api/images/{image_id}
func (ih *FilteredImageHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	image := ih.getOwned(w, r)
	if image == nil {
		return
	}
	writeJSON(w, http.StatusOK, toView(*image))
}

// SetArchived handles POST /api/images/{image_id}/archive and /unarchive
func (ih *FilteredImageHandler) SetArchived(archived bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		image := ih.getOwned(w, r)
		if image == nil {
			return
		}
		if err := ih.Repo.SetArchived(image.ID, archived); err != nil {
			WriteServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteImage handles DELETE /api/images/{image_id}
func (ih *FilteredImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	image := ih.getOwned(w, r)
	if image == nil {
		return
	}
	if err := ih.Repo.Delete(image.ID); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
