package repository

import (
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/groupwatchapp/groupwatchbackend/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// FilteredImageRepository handles database operations for FilteredImage entities
type FilteredImageRepository struct {
	DB *gorm.DB
}

// NewFilteredImageRepository creates a new instance of FilteredImageRepository
func NewFilteredImageRepository(db *gorm.DB) *FilteredImageRepository {
	return &FilteredImageRepository{DB: db}
}

// Create persists a new filtered image record
func (r *FilteredImageRepository) Create(image *models.FilteredImage) error {
	now := time.Now().Unix()
	if image.CreatedAt == 0 {
		image.CreatedAt = now
	}
	if image.UpdatedAt == 0 {
		image.UpdatedAt = now
	}

	err := r.DB.Create(image).Error
	if err != nil {
		return fmt.Errorf("failed to create filtered image for message %s: %w", image.MessageID, err)
	}
	return nil
}

// GetByID retrieves a filtered image by its ID
func (r *FilteredImageRepository) GetByID(id string) (*models.FilteredImage, error) {
	var image models.FilteredImage
	err := r.DB.Where("id = ?", id).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get filtered image by ID %s: %w", id, err)
	}
	return &image, nil
}

// applyFilter translates a FilteredImageFilter into WHERE clauses. The
// person filter matches against the JSON detection column.
func applyFilter(builder sq.SelectBuilder, filter FilteredImageFilter) sq.SelectBuilder {
	if filter.OwnerID != "" {
		builder = builder.Where(sq.Eq{"owner_id": filter.OwnerID})
	}
	if filter.GroupID != "" {
		builder = builder.Where(sq.Eq{"group_id": filter.GroupID})
	}
	if filter.PersonID != "" {
		builder = builder.Where(sq.Like{"detected_persons": fmt.Sprintf(`%%"person_id":%q%%`, filter.PersonID)})
	}
	if filter.Archived != nil {
		builder = builder.Where(sq.Eq{"is_archived": *filter.Archived})
	}
	return builder
}

// List retrieves filtered images matching the filter, newest first
func (r *FilteredImageRepository) List(filter FilteredImageFilter) ([]models.FilteredImage, error) {
	builder := applyFilter(psql.Select("*").From("filtered_images"), filter).
		OrderBy("created_at DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for filtered image list: %w", err)
	}

	var images []models.FilteredImage
	if err := r.DB.Raw(sqlStr, args...).Scan(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list filtered images: %w", err)
	}
	return images, nil
}

// Count returns the number of filtered images matching the filter
func (r *FilteredImageRepository) Count(filter FilteredImageFilter) (int64, error) {
	builder := applyFilter(psql.Select("COUNT(*)").From("filtered_images"), filter)

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL for filtered image count: %w", err)
	}

	var count int64
	if err := r.DB.Raw(sqlStr, args...).Scan(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count filtered images: %w", err)
	}
	return count, nil
}

// MarkNotified flips the isNotified flag after a notification attempt
func (r *FilteredImageRepository) MarkNotified(id string) error {
	result := r.DB.Model(&models.FilteredImage{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_notified": true,
		"updated_at":  time.Now().Unix(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to mark filtered image %s notified: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetArchived flips the isArchived flag
func (r *FilteredImageRepository) SetArchived(id string, archived bool) error {
	result := r.DB.Model(&models.FilteredImage{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_archived": archived,
		"updated_at":  time.Now().Unix(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to set archived=%v on filtered image %s: %w", archived, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a filtered image by its ID
func (r *FilteredImageRepository) Delete(id string) error {
	result := r.DB.Delete(&models.FilteredImage{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete filtered image ID %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
