package repositories

import (
	"context"
	"fmt"

	gormModels "biblioruche/hive/internal/models/gorm"

	"gorm.io/gorm"
)

// EbookRepository handles ebook table operations using GORM
type EbookRepository struct {
	db *gorm.DB
}

// NewEbookRepository creates a new GORM-based ebook repository
func NewEbookRepository(db *gorm.DB) *EbookRepository {
	return &EbookRepository{db: db}
}

// GetByID retrieves an ebook by its ID
func (r *EbookRepository) GetByID(ctx context.Context, ebookID string) (*gormModels.Ebook, error) {
	var ebook gormModels.Ebook

	err := r.db.WithContext(ctx).
		Where("id = ?", ebookID).
		First(&ebook).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch ebook: %w", err)
	}

	return &ebook, nil
}

// Create inserts a new ebook record
func (r *EbookRepository) Create(ctx context.Context, ebook *gormModels.Ebook) error {
	if err := r.db.WithContext(ctx).Create(ebook).Error; err != nil {
		return fmt.Errorf("failed to create ebook: %w", err)
	}
	return nil
}

// Update persists changes on an existing ebook record
func (r *EbookRepository) Update(ctx context.Context, ebook *gormModels.Ebook) error {
	if err := r.db.WithContext(ctx).Save(ebook).Error; err != nil {
		return fmt.Errorf("failed to update ebook: %w", err)
	}
	return nil
}

// ListVisible retrieves all visible ebooks, newest first
func (r *EbookRepository) ListVisible(ctx context.Context) ([]gormModels.Ebook, error) {
	var ebooks []gormModels.Ebook

	err := r.db.WithContext(ctx).
		Where("is_visible = ?", true).
		Order("created_at DESC").
		Find(&ebooks).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch ebooks: %w", err)
	}

	return ebooks, nil
}

// ListAll retrieves every ebook including hidden ones. Admin only.
func (r *EbookRepository) ListAll(ctx context.Context) ([]gormModels.Ebook, error) {
	var ebooks []gormModels.Ebook

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&ebooks).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch ebooks: %w", err)
	}

	return ebooks, nil
}

// IncrementDownloadCount bumps the counter after a successful download
func (r *EbookRepository) IncrementDownloadCount(ctx context.Context, ebookID string) error {
	err := r.db.WithContext(ctx).
		Model(&gormModels.Ebook{}).
		Where("id = ?", ebookID).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error

	if err != nil {
		return fmt.Errorf("failed to increment download count: %w", err)
	}

	return nil
}

// Delete removes an ebook record
func (r *EbookRepository) Delete(ctx context.Context, ebookID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", ebookID).
		Delete(&gormModels.Ebook{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete ebook: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("ebook not found with ID: %s", ebookID)
	}

	return nil
}
