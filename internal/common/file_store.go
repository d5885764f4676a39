package common

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	MaxEbookSize = 50 * 1024 * 1024 // 50 MB
	MaxCoverSize = 5 * 1024 * 1024  // 5 MB
)

var (
	ErrDisallowedExtension = errors.New("file extension not allowed")
	ErrBadMagicBytes       = errors.New("file content does not match its extension")
	ErrFileTooLarge        = errors.New("file exceeds the size limit")
)

var allowedCoverExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {},
}

// FileStore keeps uploaded ebooks and covers on disk under generated names.
type FileStore struct {
	ebookDir string
	coverDir string
}

// NewFileStore creates the storage directories if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		baseDir = os.Getenv("EBOOK_DIR")
	}
	if baseDir == "" {
		baseDir = "data"
	}

	ebookDir := filepath.Join(baseDir, "ebooks")
	coverDir := filepath.Join(baseDir, "covers")
	for _, dir := range []string{ebookDir, coverDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage dir %s: %w", dir, err)
		}
	}

	return &FileStore{ebookDir: ebookDir, coverDir: coverDir}, nil
}

// SaveEbook validates and stores an EPUB. Returns the generated file name.
func (fs *FileStore) SaveEbook(originalName string, size int64, r io.Reader) (string, error) {
	if size > MaxEbookSize {
		return "", ErrFileTooLarge
	}
	if strings.ToLower(filepath.Ext(originalName)) != ".epub" {
		return "", ErrDisallowedExtension
	}

	// EPUBs are zip archives: the stream must start with PK\x03\x04.
	header := make([]byte, 4)
	n, err := io.ReadFull(r, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if n < 2 || header[0] != 'P' || header[1] != 'K' {
		return "", ErrBadMagicBytes
	}

	name := uuid.New().String() + ".epub"
	if err := fs.write(filepath.Join(fs.ebookDir, name), header[:n], r, MaxEbookSize); err != nil {
		return "", err
	}
	return name, nil
}

// SaveCover validates and stores a cover image. Returns the generated file name.
func (fs *FileStore) SaveCover(originalName string, size int64, r io.Reader) (string, error) {
	if size > MaxCoverSize {
		return "", ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedCoverExtensions[ext]; !ok {
		return "", ErrDisallowedExtension
	}

	header := make([]byte, 12)
	n, err := io.ReadFull(r, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if !coverMagicMatches(ext, header[:n]) {
		return "", ErrBadMagicBytes
	}

	name := uuid.New().String() + ext
	if err := fs.write(filepath.Join(fs.coverDir, name), header[:n], r, MaxCoverSize); err != nil {
		return "", err
	}
	return name, nil
}

// EbookPath resolves a stored ebook file name to its absolute path.
func (fs *FileStore) EbookPath(fileName string) string {
	return filepath.Join(fs.ebookDir, filepath.Base(fileName))
}

// CoverPath resolves a stored cover file name to its absolute path.
func (fs *FileStore) CoverPath(fileName string) string {
	return filepath.Join(fs.coverDir, filepath.Base(fileName))
}

// Remove deletes a stored ebook and its cover, ignoring missing files.
func (fs *FileStore) Remove(ebookName string, coverName *string) {
	if ebookName != "" {
		os.Remove(fs.EbookPath(ebookName))
	}
	if coverName != nil && *coverName != "" {
		os.Remove(fs.CoverPath(*coverName))
	}
}

func (fs *FileStore) write(path string, header []byte, r io.Reader, limit int64) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	src := io.MultiReader(bytes.NewReader(header), io.LimitReader(r, limit))
	if _, err := io.Copy(f, src); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func coverMagicMatches(ext string, header []byte) bool {
	switch ext {
	case ".png":
		return len(header) >= 8 && bytes.Equal(header[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A})
	case ".jpg", ".jpeg":
		return len(header) >= 3 && header[0] == 0xFF && header[1] == 0xD8 && header[2] == 0xFF
	case ".gif":
		return len(header) >= 6 && (bytes.Equal(header[:6], []byte("GIF87a")) || bytes.Equal(header[:6], []byte("GIF89a")))
	case ".webp":
		return len(header) >= 12 && bytes.Equal(header[:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WEBP"))
	default:
		return false
	}
}
