package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PublicPrefix is the URL prefix the upload directory is served under.
const PublicPrefix = "uploads"

var (
	ErrFileType = errors.New("file type not allowed")
	ErrFileSize = errors.New("file too large")
	ErrNoFile   = errors.New("no file uploaded")
)

// Kind selects the form field, directory and filters for an upload.
type Kind struct {
	Field      string
	Dir        string
	Extensions []string
	MIMETypes  []string
	Message    string
}

var (
	Resume = Kind{
		Field:      "resume",
		Dir:        "resumes",
		Extensions: []string{".pdf", ".doc", ".docx"},
		MIMETypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/x-ole-storage",
			"application/zip",
		},
		Message: "Only .pdf, .doc and .docx files are allowed",
	}
	Avatar = Kind{
		Field:      "avatar",
		Dir:        "avatars",
		Extensions: []string{".jpg", ".jpeg", ".png", ".gif"},
		MIMETypes:  []string{"image/jpeg", "image/png", "image/gif"},
		Message:    "Only .jpg, .jpeg, .png and .gif images are allowed",
	}
)

// StoredFile describes a file written to disk.
type StoredFile struct {
	// Path is the public path, e.g. "uploads/avatars/7-<uuid>.png".
	Path         string
	OriginalName string
	Size         int64
}

// FileStore keeps uploads under a base directory. The directory is also
// served statically, so stored paths double as URLs.
type FileStore struct {
	baseDir string
	maxSize int64
	log     *zap.Logger
}

func NewFileStore(baseDir string, maxSize int64, log *zap.Logger) (*FileStore, error) {
	for _, kind := range []Kind{Resume, Avatar} {
		if err := os.MkdirAll(filepath.Join(baseDir, kind.Dir), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}

	return &FileStore{baseDir: baseDir, maxSize: maxSize, log: log}, nil
}

func (s *FileStore) MaxSize() int64 {
	return s.maxSize
}

// Save validates header against kind and writes it as <userID>-<uuid><ext>.
func (s *FileStore) Save(kind Kind, userID uint, header *multipart.FileHeader) (*StoredFile, error) {
	if header == nil {
		return nil, ErrNoFile
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !slices.Contains(kind.Extensions, ext) {
		return nil, fmt.Errorf("%w: %s", ErrFileType, kind.Message)
	}
	if header.Size > s.maxSize {
		return nil, fmt.Errorf("%w: maximum size is %d MB", ErrFileSize, s.maxSize>>20)
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, fmt.Errorf("detect content type: %w", err)
	}
	if !matchesMIME(mtype, kind.MIMETypes) {
		return nil, fmt.Errorf("%w: %s", ErrFileType, kind.Message)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	name := strconv.FormatUint(uint64(userID), 10) + "-" + uuid.NewString() + ext
	dst := filepath.Join(s.baseDir, kind.Dir, name)

	written, err := writeFile(dst, src, s.maxSize)
	if err != nil {
		return nil, err
	}

	s.log.Debug("stored upload",
		zap.String("kind", kind.Field),
		zap.Uint("user_id", userID),
		zap.String("path", dst),
		zap.Int64("size", written),
	)

	return &StoredFile{
		Path:         path.Join(PublicPrefix, kind.Dir, name),
		OriginalName: filepath.Base(header.Filename),
		Size:         written,
	}, nil
}

// Remove deletes a previously stored file. Missing files are not an error.
func (s *FileStore) Remove(storedPath string) error {
	if storedPath == "" {
		return nil
	}

	full, err := s.resolve(storedPath)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}

// RemoveQuietly is Remove for cleanup paths where failure is only logged.
func (s *FileStore) RemoveQuietly(storedPath string) {
	if err := s.Remove(storedPath); err != nil {
		s.log.Warn("failed to remove upload", zap.String("path", storedPath), zap.Error(err))
	}
}

// resolve maps a stored path back onto disk and refuses anything that would
// escape the base directory.
func (s *FileStore) resolve(storedPath string) (string, error) {
	rel := strings.TrimPrefix(filepath.ToSlash(storedPath), PublicPrefix+"/")
	full := filepath.Join(s.baseDir, filepath.FromSlash(rel))

	base, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(abs, base+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q outside upload dir", storedPath)
	}
	return abs, nil
}

func writeFile(dst string, src io.Reader, maxSize int64) (int64, error) {
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create upload: %w", err)
	}

	// Size on the header is client-supplied; cap what actually lands on disk.
	written, err := io.Copy(out, io.LimitReader(src, maxSize+1))
	closeErr := out.Close()

	switch {
	case err != nil:
		_ = os.Remove(dst)
		return 0, fmt.Errorf("write upload: %w", err)
	case closeErr != nil:
		_ = os.Remove(dst)
		return 0, fmt.Errorf("close upload: %w", closeErr)
	case written > maxSize:
		_ = os.Remove(dst)
		return 0, fmt.Errorf("%w: maximum size is %d MB", ErrFileSize, maxSize>>20)
	}

	return written, nil
}

func matchesMIME(mtype *mimetype.MIME, allowed []string) bool {
	for m := mtype; m != nil; m = m.Parent() {
		for _, a := range allowed {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}
