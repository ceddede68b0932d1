package document

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AllowedMimeTypes defines which file types the review catalogs accept.
var AllowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// StoredFile describes a file durably written to the store.
type StoredFile struct {
	Path     string // relative path within the store
	URL      string // public URL
	Name     string // original client filename
	MimeType string
	Size     int64
}

// FileStore persists uploaded files. Remove is best-effort; the file may
// already be gone.
type FileStore interface {
	Save(fileHeader *multipart.FileHeader) (*StoredFile, error)
	Remove(relPath string) error
}

// DiskStore writes files to local disk under dated subdirectories.
// Simple: sniff mime -> write under uuid name -> return path + URL.
type DiskStore struct {
	baseDir    string // absolute path to uploads dir
	staticBase string // URL prefix for serving files
	maxSize    int64
}

func NewDiskStore(baseDir, staticBase string, maxSize int64) *DiskStore {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if staticBase == "" {
		staticBase = "/static/uploads"
	}
	if maxSize <= 0 {
		maxSize = 15 * 1024 * 1024
	}
	return &DiskStore{baseDir: baseDir, staticBase: staticBase, maxSize: maxSize}
}

func (s *DiskStore) Save(fileHeader *multipart.FileHeader) (*StoredFile, error) {
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fileHeader.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// Detect MIME type from first 512 bytes
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	mimeType := http.DetectContentType(buf[:n])
	mimeType = strings.Split(mimeType, ";")[0] // strip charset params

	if !AllowedMimeTypes[mimeType] {
		return nil, ErrInvalidFileType
	}

	if seeker, ok := file.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}

	// Build directory: uploads/YYYY/MM/DD/
	now := time.Now()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	absDir := filepath.Join(s.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = mimeToExt(mimeType)
	}
	filename := fmt.Sprintf("%s_%s%s", uuid.New().String(), sanitizeName(fileHeader.Filename), ext)

	absPath := filepath.Join(absDir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	relPath := filepath.Join(relDir, filename)
	return &StoredFile{
		Path:     relPath,
		URL:      s.staticBase + "/" + strings.ReplaceAll(relPath, "\\", "/"),
		Name:     fileHeader.Filename,
		MimeType: mimeType,
		Size:     fileHeader.Size,
	}, nil
}

func (s *DiskStore) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	absPath := filepath.Join(s.baseDir, relPath)
	_ = os.Remove(absPath) // ignore error, file may already be gone
	return nil
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name)) // extension is added separately
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" {
		return "file"
	}
	return name
}

func mimeToExt(mime string) string {
	switch mime {
	case "application/pdf":
		return ".pdf"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	default:
		return ".bin"
	}
}
