package service

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/ammar1510/chatterbox/internal/metrics"
	"github.com/ammar1510/chatterbox/internal/storage"
)

// DefaultMaxImageBytes caps decoded image payloads.
const DefaultMaxImageBytes = 5 << 20

const dataImagePrefix = "data:image/"

// IsInlineImage reports whether payload is a data:image/...;base64 URL.
func IsInlineImage(payload string) bool {
	return strings.HasPrefix(payload, dataImagePrefix)
}

func isRemoteURL(payload string) bool {
	return strings.HasPrefix(payload, "https://") || strings.HasPrefix(payload, "http://")
}

// decodeImage accepts a data URL or bare base64 and returns the bytes with
// their sniffed content type. Only images are accepted.
func decodeImage(payload string, maxBytes int) ([]byte, string, error) {
	raw := payload
	if i := strings.Index(raw, ";base64,"); i >= 0 {
		raw = raw[i+len(";base64,"):]
	}
	raw = strings.TrimSpace(raw)

	if maxBytes > 0 && base64.StdEncoding.DecodedLen(len(raw)) > maxBytes+2 {
		return nil, "", invalidInput("Image is too large")
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, "", invalidInput("Image must be base64 encoded")
	}
	if len(data) == 0 {
		return nil, "", invalidInput("Image is empty")
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return nil, "", invalidInput("Image is too large")
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, "", invalidInput("Unsupported image format")
	}

	return data, mt.String(), nil
}

type uploader struct {
	blobs    storage.BlobStore
	maxBytes int
}

func (u uploader) upload(ctx context.Context, payload string) (string, error) {
	data, contentType, err := decodeImage(payload, u.maxBytes)
	if err != nil {
		return "", err
	}

	url, err := u.blobs.Upload(ctx, data, contentType)
	if err != nil {
		metrics.BlobUploads.WithLabelValues("error").Inc()
		return "", upstream("upload image", err)
	}
	metrics.BlobUploads.WithLabelValues("ok").Inc()
	return url, nil
}

// discard removes an upload whose owning record was never persisted.
func (u uploader) discard(url string) {
	if url == "" {
		return
	}
	if err := u.blobs.Delete(context.Background(), url); err != nil {
		log.Warn("Failed to remove orphaned upload %s: %v", url, err)
	}
}
