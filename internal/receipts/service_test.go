package receipts

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vitalfit/vitalfit-backend/pkg/logger"
)

type stubUploader struct {
	lastKey         string
	lastContentType string
	url             string
	err             error
}

func (u *stubUploader) Upload(_ context.Context, key, contentType string, _ io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.lastKey = key
	u.lastContentType = contentType
	return u.url, nil
}

func newTestService(t *testing.T, storage *stubUploader) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Storage: storage,
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Now:     func() time.Time { return time.UnixMilli(1700000000000) },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestUploadBuildsSanitizedTimestampedKey(t *testing.T) {
	storage := &stubUploader{url: "https://storage.googleapis.com/vitalfit-receipts/x"}
	svc := newTestService(t, storage)
	memberID := uuid.New()

	url, err := svc.Upload(context.Background(), UploadParams{
		MemberID:    memberID,
		Filename:    "Comprobante Transferencia (enero).PDF",
		ContentType: "application/pdf",
		Size:        1024,
		Body:        strings.NewReader("%PDF"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != storage.url {
		t.Fatalf("unexpected url %q", url)
	}

	want := "receipts/" + memberID.String() + "/1700000000000-comprobante-transferencia-enero-.pdf"
	if storage.lastKey != want {
		t.Fatalf("key = %q, want %q", storage.lastKey, want)
	}
}

func TestUploadRejectsUnsupportedContentType(t *testing.T) {
	svc := newTestService(t, &stubUploader{})

	_, err := svc.Upload(context.Background(), UploadParams{
		MemberID:    uuid.New(),
		Filename:    "receipt.exe",
		ContentType: "application/octet-stream",
		Body:        strings.NewReader("x"),
	})
	if err == nil {
		t.Fatal("expected unsupported content type to be rejected")
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	storage := &stubUploader{}
	svc, err := NewService(ServiceParams{
		Storage:      storage,
		Logger:       logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		MaxSizeBytes: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Upload(context.Background(), UploadParams{
		MemberID:    uuid.New(),
		Filename:    "receipt.png",
		ContentType: "image/png",
		Size:        11,
		Body:        strings.NewReader("12345678901"),
	})
	if err == nil {
		t.Fatal("expected oversized receipt to be rejected")
	}
}

func TestUploadFallsBackToGenericName(t *testing.T) {
	storage := &stubUploader{url: "https://example.com/r"}
	svc := newTestService(t, storage)
	memberID := uuid.New()

	if _, err := svc.Upload(context.Background(), UploadParams{
		MemberID:    memberID,
		Filename:    "???",
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("data"),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "receipts/" + memberID.String() + "/1700000000000-receipt.png"
	if storage.lastKey != want {
		t.Fatalf("key = %q, want %q", storage.lastKey, want)
	}
}
