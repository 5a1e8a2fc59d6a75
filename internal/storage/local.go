package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// ErrSourceMissing indicates the file to store does not exist or is not a regular file.
var ErrSourceMissing = errors.New("source file not found")

// maxPreviewBytes caps how much of a text file is loaded for previews.
const maxPreviewBytes = 64 * 1024

// Preview kinds.
const (
	KindImage = "image"
	KindPDF   = "pdf"
	KindText  = "text"
	KindOther = "other"
)

// StoredFile describes a file copied into the submissions directory.
type StoredFile struct {
	Path     string
	MimeType string
	Size     int64
	// Replaced is set when an earlier file with the same name was overwritten.
	Replaced bool
}

// Preview is the detected presentation of a stored file.
type Preview struct {
	Kind     string
	MimeType string
	Content  string
}

// LocalStore keeps submission files in a directory on the local filesystem.
type LocalStore struct {
	root   string
	logger zerolog.Logger
}

// NewLocalStore creates the submissions directory if needed.
func NewLocalStore(root string, logger zerolog.Logger) (*LocalStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("storage root must be provided")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create submissions directory: %w", err)
	}
	return &LocalStore{
		root:   root,
		logger: logger.With().Str("component", "local_storage").Logger(),
	}, nil
}

// Root returns the submissions directory.
func (s *LocalStore) Root() string {
	return s.root
}

// SubmissionFileName builds the stored name {student}_{course}_{definition}_{original}.
func SubmissionFileName(student string, courseID, definitionID uint, sourcePath string) string {
	return fmt.Sprintf("%s_%d_%d_%s", student, courseID, definitionID, filepath.Base(sourcePath))
}

// Save copies sourcePath into the submissions directory under the submission naming convention.
// An existing file with the same name is overwritten.
func (s *LocalStore) Save(ctx context.Context, student string, courseID, definitionID uint, sourcePath string) (StoredFile, error) {
	info, err := os.Stat(sourcePath)
	if err != nil || !info.Mode().IsRegular() {
		return StoredFile{}, fmt.Errorf("%w: %s", ErrSourceMissing, sourcePath)
	}
	if err := ctx.Err(); err != nil {
		return StoredFile{}, err
	}

	dest := filepath.Join(s.root, SubmissionFileName(student, courseID, definitionID, sourcePath))
	_, statErr := os.Stat(dest)
	replaced := statErr == nil

	written, err := copyFile(sourcePath, dest)
	if err != nil {
		return StoredFile{}, err
	}

	mime, err := mimetype.DetectFile(dest)
	if err != nil {
		return StoredFile{}, fmt.Errorf("detect file type: %w", err)
	}

	s.logger.Debug().Str("path", dest).Str("mime", mime.String()).Int64("bytes", written).Msg("submission stored")

	return StoredFile{Path: dest, MimeType: mime.String(), Size: written, Replaced: replaced}, nil
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (s *LocalStore) Remove(storedPath string) error {
	if err := os.Remove(storedPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", storedPath, err)
	}
	s.logger.Debug().Str("path", storedPath).Msg("submission file removed")
	return nil
}

// CopyTo copies a stored file to destPath. A directory destination keeps the stored base name.
func (s *LocalStore) CopyTo(storedPath, destPath string) (string, error) {
	if info, err := os.Stat(destPath); err == nil && info.IsDir() {
		destPath = filepath.Join(destPath, filepath.Base(storedPath))
	}
	if _, err := copyFile(storedPath, destPath); err != nil {
		return "", err
	}
	return destPath, nil
}

// Preview classifies a stored file and loads its content when it is text.
func (s *LocalStore) Preview(storedPath string) (Preview, error) {
	mime, err := mimetype.DetectFile(storedPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Preview{}, fmt.Errorf("%w: %s", ErrSourceMissing, storedPath)
		}
		return Preview{}, err
	}

	preview := Preview{Kind: classify(mime), MimeType: mime.String()}
	if preview.Kind != KindText {
		return preview, nil
	}

	content, err := readHead(storedPath, maxPreviewBytes)
	if err != nil {
		return Preview{}, err
	}
	if len(content) == maxPreviewBytes {
		content = trimPartialRune(content)
	}
	if !utf8.Valid(content) {
		preview.Kind = KindOther
		return preview, nil
	}
	preview.Content = string(content)
	return preview, nil
}

func classify(mime *mimetype.MIME) string {
	switch {
	case strings.HasPrefix(mime.String(), "image/"):
		return KindImage
	case mime.Is("application/pdf"):
		return KindPDF
	}
	for m := mime; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return KindText
		}
	}
	return KindOther
}

// copyFile copies src to dst. Copying a file onto itself is a no-op, since creating
// dst would truncate src first.
func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrSourceMissing, src)
		}
		return 0, err
	}
	defer in.Close()

	srcInfo, err := in.Stat()
	if err != nil {
		return 0, err
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
		return srcInfo.Size(), nil
	}

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dst, err)
	}

	written, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("copy to %s: %w", dst, err)
	}
	return written, nil
}

func readHead(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, limit))
}

// trimPartialRune drops a multibyte rune cut off at the end of b.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			break
		}
	}
	return b
}
