// Package sanitize cleans caller supplied text and metadata before it
// reaches the store or the upstream service.
package sanitize

import (
	"regexp"
	"strings"
)

const (
	// MaxInputLen caps message, subject and description content.
	MaxInputLen = 5000

	maxMetadataKeyLen   = 100
	maxMetadataValueLen = 1000
	maxMetadataArrayLen = 50
)

var filenamePattern = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Input trims, strips angle brackets and caps free-form text.
func Input(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.NewReplacer("<", "", ">", "").Replace(cleaned)
	if len(cleaned) > MaxInputLen {
		cleaned = cleaned[:MaxInputLen]
	}
	return cleaned
}

// Metadata scrubs a free-form metadata object. Keys over the length cap
// are dropped, string values are truncated, arrays are cut to a fixed
// size and nested objects are discarded.
func Metadata(raw map[string]interface{}) map[string]interface{} {
	if raw == nil {
		return nil
	}

	sanitized := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		if len(key) > maxMetadataKeyLen {
			continue
		}
		switch v := value.(type) {
		case string:
			if len(v) > maxMetadataValueLen {
				v = v[:maxMetadataValueLen]
			}
			sanitized[key] = v
		case bool, float64, float32, int, int32, int64:
			sanitized[key] = v
		case []interface{}:
			if len(v) > maxMetadataArrayLen {
				v = v[:maxMetadataArrayLen]
			}
			sanitized[key] = v
		}
	}
	return sanitized
}

// Filename replaces every character outside [a-zA-Z0-9._-] with an
// underscore. An empty result means the original name was unusable.
func Filename(raw string) string {
	return filenamePattern.ReplaceAllString(raw, "_")
}
