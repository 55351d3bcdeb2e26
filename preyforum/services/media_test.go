package services

import (
	"testing"

	"github.com/preyforum/preyforum/preyforum/config"
)

func TestClassifyMedia(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantKind    MediaKind
		wantMax     int64
		wantErr     bool
	}{
		{name: "jpeg", contentType: "image/jpeg", wantKind: MediaKindImage, wantMax: config.MaxImageSize},
		{name: "png", contentType: "image/png", wantKind: MediaKindImage, wantMax: config.MaxImageSize},
		{name: "mp4", contentType: "video/mp4", wantKind: MediaKindVideo, wantMax: config.MaxVideoSize},
		{name: "mpeg audio", contentType: "audio/mpeg", wantKind: MediaKindAudio, wantMax: config.MaxAudioSize},
		{name: "pdf", contentType: "application/pdf", wantKind: MediaKindDocument, wantMax: config.MaxDocumentSize},
		{name: "plain text", contentType: "text/plain", wantKind: MediaKindDocument, wantMax: config.MaxDocumentSize},
		{name: "charset parameter", contentType: "text/plain; charset=utf-8", wantKind: MediaKindDocument, wantMax: config.MaxDocumentSize},
		{name: "executable rejected", contentType: "application/x-msdownload", wantErr: true},
		{name: "html rejected", contentType: "text/html", wantErr: true},
		{name: "empty rejected", contentType: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, maxSize, err := ClassifyMedia(tt.contentType)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ClassifyMedia(%q) error = %v, wantErr %v", tt.contentType, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if kind != tt.wantKind {
				t.Errorf("ClassifyMedia(%q) kind = %v, want %v", tt.contentType, kind, tt.wantKind)
			}
			if maxSize != tt.wantMax {
				t.Errorf("ClassifyMedia(%q) max = %d, want %d", tt.contentType, maxSize, tt.wantMax)
			}
		})
	}
}
