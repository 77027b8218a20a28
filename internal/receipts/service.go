package receipts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	pkgerrors "github.com/vitalfit/vitalfit-backend/pkg/errors"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
)

const (
	defaultKeyPrefix    = "receipts"
	defaultMaxSizeBytes = 10 << 20
)

var (
	errUploaderRequired = errors.New("receipts uploader is required")
	errLoggerRequired   = errors.New("receipts logger is required")

	allowedContentTypes = map[string]string{
		"image/jpeg":      ".jpg",
		"image/png":       ".png",
		"image/webp":      ".webp",
		"application/pdf": ".pdf",
	}
)

// uploader is the storage surface receipts are written through.
type uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// Service stores payment receipts and hands back the public URL attached to
// payment submissions.
type Service struct {
	storage   uploader
	logger    *logger.Logger
	keyPrefix string
	maxSize   int64
	now       func() time.Time
}

type ServiceParams struct {
	Storage      uploader
	Logger       *logger.Logger
	KeyPrefix    string
	MaxSizeBytes int64

	// Now overrides the clock in tests.
	Now func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Storage == nil {
		return nil, errUploaderRequired
	}
	if params.Logger == nil {
		return nil, errLoggerRequired
	}
	prefix := strings.Trim(params.KeyPrefix, "/")
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	maxSize := params.MaxSizeBytes
	if maxSize <= 0 {
		maxSize = defaultMaxSizeBytes
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		storage:   params.Storage,
		logger:    params.Logger,
		keyPrefix: prefix,
		maxSize:   maxSize,
		now:       now,
	}, nil
}

// UploadParams describes one receipt upload.
type UploadParams struct {
	MemberID    uuid.UUID
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Upload validates the file, writes it under a sanitized timestamp-prefixed
// key, and returns the public URL.
func (s *Service) Upload(ctx context.Context, params UploadParams) (string, error) {
	if params.MemberID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "member id is required")
	}
	if params.Body == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "receipt body is required")
	}
	ext, ok := allowedContentTypes[params.ContentType]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported receipt content type")
	}
	if params.Size > s.maxSize {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "receipt exceeds the maximum size")
	}

	key := s.objectKey(params.MemberID, params.Filename, ext)

	// The size header is client-supplied; cap the read regardless.
	body := io.LimitReader(params.Body, s.maxSize+1)

	url, err := s.storage.Upload(ctx, key, params.ContentType, body)
	if err != nil {
		s.logger.Error(s.logger.WithMemberID(ctx, params.MemberID.String()), "receipt upload failed", err)
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing receipt")
	}

	ctx = s.logger.WithMemberID(ctx, params.MemberID.String())
	s.logger.Info(s.logger.WithField(ctx, "key", key), "receipt stored")
	return url, nil
}

func (s *Service) objectKey(memberID uuid.UUID, filename, ext string) string {
	name := sanitizeFilename(filename)
	if name == "" {
		name = "receipt" + ext
	} else if path.Ext(name) == "" {
		name += ext
	}
	return fmt.Sprintf("%s/%s/%d-%s", s.keyPrefix, memberID, s.now().UnixMilli(), name)
}

// sanitizeFilename keeps letters, digits, dots, dashes and underscores and
// collapses everything else to a dash.
func sanitizeFilename(raw string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(raw), "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}

	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(base) {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r), r == '.', r == '_':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-.")
}
