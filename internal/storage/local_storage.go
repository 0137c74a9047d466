package storage

import (
	"context"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/dchest/safefile"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// URLPrefix is where stored files are exposed over HTTP.
const URLPrefix = "/uploads"

// ErrInvalidImage marks uploads rejected for their content, not for an I/O failure.
var ErrInvalidImage = errors.New("imagen inválida")

var allowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// LocalImageStorage saves images under Root/<category>/ and hands out URLs
// of the form BaseURL + /uploads/<category>/<file>.
type LocalImageStorage struct {
	Root     string
	BaseURL  string
	MaxBytes int64
}

func NewLocalImageStorage(root, baseURL string, maxBytes int64) *LocalImageStorage {
	return &LocalImageStorage{Root: root, BaseURL: strings.TrimRight(baseURL, "/"), MaxBytes: maxBytes}
}

func (s *LocalImageStorage) SaveImage(ctx context.Context, fh *multipart.FileHeader, category string) (string, error) {
	if fh == nil || fh.Size == 0 {
		return "", errors.WithMessage(ErrInvalidImage, "archivo vacío")
	}
	if !isSafeSegment(category) {
		return "", errors.Errorf("invalid image category %q", category)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !govalidator.IsIn(ext, allowedExtensions...) {
		return "", errors.WithMessagef(ErrInvalidImage, "extensión %q no permitida", ext)
	}
	if s.MaxBytes > 0 && fh.Size > s.MaxBytes {
		return "", errors.WithMessagef(ErrInvalidImage, "la imagen pesa %s, máximo %s",
			humanize.Bytes(uint64(fh.Size)), humanize.Bytes(uint64(s.MaxBytes)))
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "opening upload")
	}
	defer src.Close()

	dir := filepath.Join(s.Root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating upload folder")
	}

	name := uuid.NewString() + ext
	dst, err := safefile.Create(filepath.Join(dir, name), 0o644)
	if err != nil {
		return "", errors.Wrap(err, "creating image file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", errors.Wrap(err, "writing image")
	}
	if err := dst.Commit(); err != nil {
		return "", errors.Wrap(err, "committing image")
	}

	return s.BaseURL + path.Join(URLPrefix, category, name), nil
}

// DeleteImageByURL removes a file previously returned by SaveImage.
// URLs outside the upload folder are rejected.
func (s *LocalImageStorage) DeleteImageByURL(_ context.Context, url string) error {
	rel, ok := s.relativePath(url)
	if !ok {
		return errors.Errorf("url %q is not a stored image", url)
	}
	if err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(rel))); err != nil {
		return errors.Wrap(err, "deleting image")
	}
	return nil
}

func (s *LocalImageStorage) relativePath(url string) (string, bool) {
	p := strings.TrimSpace(url)
	if s.BaseURL != "" {
		p = strings.TrimPrefix(p, s.BaseURL)
	}
	if !strings.HasPrefix(p, URLPrefix+"/") {
		return "", false
	}
	rel := strings.TrimPrefix(p, URLPrefix+"/")
	parts := strings.Split(rel, "/")
	if len(parts) != 2 {
		return "", false
	}
	for _, part := range parts {
		if !isSafeSegment(part) {
			return "", false
		}
	}
	return rel, true
}

func isSafeSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
