package engine

import (
	"maps"
	"strings"
)

// Well-known Document metadata keys.
const (
	MetaSource   = "source"
	MetaKind     = "kind"
	MetaVideoID  = "video_id"
	MetaTitle    = "title"
	MetaAuthor   = "author"
	MetaLanguage = "language"
	MetaStrategy = "strategy"
)

// Document is one unit of retrievable text: a full transcript or a page body.
// Treat it as immutable once built.
type Document struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Normalize wraps raw text into a Document. Blank text yields ErrEmptyContent.
// The metadata map is copied; a detected language is added unless already set.
func Normalize(raw string, metadata map[string]string) (Document, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return Document{}, ErrEmptyContent
	}
	meta := make(map[string]string, len(metadata)+1)
	maps.Copy(meta, metadata)
	if meta[MetaLanguage] == "" {
		if lang := DetectLanguage(content); lang != "" {
			meta[MetaLanguage] = lang
		}
	}
	return Document{Content: content, Metadata: meta}, nil
}

// Meta returns the metadata value for key, "" when absent.
func (d Document) Meta(key string) string {
	return d.Metadata[key]
}
