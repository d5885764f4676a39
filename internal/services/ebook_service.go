package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/constants"
	"biblioruche/hive/internal/db/repositories"
	"biblioruche/hive/internal/logging"
	"biblioruche/hive/internal/metrics"
	"biblioruche/hive/internal/models/dtos"
	gormModels "biblioruche/hive/internal/models/gorm"
)

const downloadLinkTTL = 15 * time.Minute

// EbookService manages the EPUB library: validated uploads, single-use
// presigned download links and the download counter.
type EbookService struct {
	ebookRepo *repositories.EbookRepository
	files     *common.FileStore
	signer    *common.URLSignerService
	metrics   *metrics.MetricsRegistry
}

func NewEbookService(
	ebookRepo *repositories.EbookRepository,
	files *common.FileStore,
	signer *common.URLSignerService,
	reg *metrics.MetricsRegistry,
) *EbookService {
	return &EbookService{
		ebookRepo: ebookRepo,
		files:     files,
		signer:    signer,
		metrics:   reg,
	}
}

// Upload validates and stores an EPUB plus an optional cover, then records
// the library entry.
func (s *EbookService) Upload(
	ctx context.Context,
	uploaderID, title, author string,
	genre, proposalID *string,
	epubName string, epubSize int64, epub io.Reader,
	coverName string, coverSize int64, cover io.Reader,
) (*gormModels.Ebook, error) {
	title = common.SanitizeInput(title)
	author = common.SanitizeInput(author)
	if title == "" || author == "" {
		return nil, fmt.Errorf("%w: title and author are required", ErrInvalidInput)
	}

	fileName, err := s.files.SaveEbook(epubName, epubSize, epub)
	if err != nil {
		return nil, mapUploadError(err)
	}

	var coverFileName *string
	if cover != nil && coverName != "" {
		name, err := s.files.SaveCover(coverName, coverSize, cover)
		if err != nil {
			s.files.Remove(fileName, nil)
			return nil, mapUploadError(err)
		}
		coverFileName = &name
	}

	ebook := &gormModels.Ebook{
		ProposalID:    proposalID,
		Title:         title,
		Author:        author,
		Genre:         common.SanitizeInputPtr(genre),
		FileName:      fileName,
		OriginalName:  epubName,
		FileSize:      epubSize,
		CoverFileName: coverFileName,
		UploadedBy:    uploaderID,
	}

	if err := s.ebookRepo.Create(ctx, ebook); err != nil {
		s.files.Remove(fileName, coverFileName)
		return nil, err
	}

	logging.Info("Ebook uploaded", "ebook_id", ebook.ID, "title", title, "size", epubSize)
	return ebook, nil
}

// List returns the library. Hidden entries only show up for admins.
func (s *EbookService) List(ctx context.Context, includeHidden bool) ([]dtos.EbookResponse, error) {
	var ebooks []gormModels.Ebook
	var err error
	if includeHidden {
		ebooks, err = s.ebookRepo.ListAll(ctx)
	} else {
		ebooks, err = s.ebookRepo.ListVisible(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]dtos.EbookResponse, 0, len(ebooks))
	for _, e := range ebooks {
		out = append(out, dtos.EbookResponse{
			ID:            e.ID,
			ProposalID:    e.ProposalID,
			Title:         e.Title,
			Author:        e.Author,
			Genre:         e.Genre,
			FileSize:      e.FileSize,
			DownloadCount: e.DownloadCount,
			CreatedAt:     e.CreatedAt,
		})
	}
	return out, nil
}

// PresignDownload issues a short-lived single-use download token
func (s *EbookService) PresignDownload(ctx context.Context, userID, ebookID string) (string, error) {
	ebook, err := s.ebookRepo.GetByID(ctx, ebookID)
	if err != nil {
		return "", err
	}
	if ebook == nil || !ebook.IsVisible {
		return "", ErrNotFound
	}

	token, err := s.signer.GeneratePresignedURL(userID, ebookID, downloadLinkTTL)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return token, nil
}

// RedeemDownload validates a token, burns it and returns the file path and
// download name. The caller streams the file.
func (s *EbookService) RedeemDownload(ctx context.Context, tokenString string) (path, downloadName string, err error) {
	token, err := s.signer.ValidateToken(ctx, tokenString)
	if err != nil {
		return "", "", errors.New(constants.ErrMsgDownloadLinkUsed)
	}

	ebook, err := s.ebookRepo.GetByID(ctx, token.EbookID)
	if err != nil {
		return "", "", err
	}
	if ebook == nil {
		return "", "", ErrNotFound
	}

	ttl := time.Until(token.ExpiresAt) + time.Minute
	if err := s.signer.MarkTokenAsUsed(ctx, token.TokenID, ttl); err != nil {
		return "", "", errors.New(constants.ErrMsgDownloadLinkUsed)
	}

	if err := s.ebookRepo.IncrementDownloadCount(ctx, ebook.ID); err != nil {
		logging.Warn("Download count update failed", "ebook_id", ebook.ID, "error", err)
	}
	if s.metrics != nil {
		s.metrics.EbookDownloadsTotal.Inc()
	}

	return s.files.EbookPath(ebook.FileName), ebook.OriginalName, nil
}

// CoverPath resolves an ebook's cover file, if it has one
func (s *EbookService) CoverPath(ctx context.Context, ebookID string) (string, error) {
	ebook, err := s.ebookRepo.GetByID(ctx, ebookID)
	if err != nil {
		return "", err
	}
	if ebook == nil || ebook.CoverFileName == nil {
		return "", ErrNotFound
	}
	return s.files.CoverPath(*ebook.CoverFileName), nil
}

// SetVisibility hides or restores a library entry. Admin action.
func (s *EbookService) SetVisibility(ctx context.Context, ebookID string, visible bool) error {
	ebook, err := s.ebookRepo.GetByID(ctx, ebookID)
	if err != nil {
		return err
	}
	if ebook == nil {
		return ErrNotFound
	}

	ebook.IsVisible = visible
	return s.ebookRepo.Update(ctx, ebook)
}

// Delete removes the record and its files. Admin action.
func (s *EbookService) Delete(ctx context.Context, ebookID string) error {
	ebook, err := s.ebookRepo.GetByID(ctx, ebookID)
	if err != nil {
		return err
	}
	if ebook == nil {
		return ErrNotFound
	}

	if err := s.ebookRepo.Delete(ctx, ebookID); err != nil {
		return err
	}
	s.files.Remove(ebook.FileName, ebook.CoverFileName)

	logging.Info("Ebook deleted", "ebook_id", ebookID)
	return nil
}

func mapUploadError(err error) error {
	switch {
	case errors.Is(err, common.ErrDisallowedExtension), errors.Is(err, common.ErrBadMagicBytes):
		return fmt.Errorf("%s: %w", constants.ErrMsgInvalidUpload, ErrInvalidInput)
	case errors.Is(err, common.ErrFileTooLarge):
		return fmt.Errorf("%s: %w", constants.ErrMsgUploadTooLarge, ErrInvalidInput)
	default:
		return err
	}
}
