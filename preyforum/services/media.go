package services

import (
	"fmt"
	"strings"

	"github.com/preyforum/preyforum/preyforum/config"
)

// MediaKind buckets an upload by its MIME type; each kind has its own size
// cap and storage prefix.
type MediaKind string

const (
	MediaKindImage    MediaKind = "images"
	MediaKindVideo    MediaKind = "video"
	MediaKindAudio    MediaKind = "audio"
	MediaKindDocument MediaKind = "documents"
)

var documentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/plain": true,
}

// ClassifyMedia maps a content type to its media kind and size cap. Types
// outside the accepted set are rejected.
func ClassifyMedia(contentType string) (MediaKind, int64, error) {
	base := contentType
	if i := strings.Index(base, ";"); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}

	switch {
	case strings.HasPrefix(base, "image/"):
		return MediaKindImage, config.MaxImageSize, nil
	case strings.HasPrefix(base, "video/"):
		return MediaKindVideo, config.MaxVideoSize, nil
	case strings.HasPrefix(base, "audio/"):
		return MediaKindAudio, config.MaxAudioSize, nil
	case documentTypes[base]:
		return MediaKindDocument, config.MaxDocumentSize, nil
	}
	return "", 0, fmt.Errorf("unsupported content type %q", contentType)
}
