package validation

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// ClipConstraints defines validation rules for clip uploads
type ClipConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

var (
	// VideoConstraints covers recorded question clips. The sniffing
	// table has no entry for QuickTime atoms, so octet-stream is
	// accepted for videos and the extension check carries the
	// discrimination.
	VideoConstraints = ClipConstraints{
		AllowedMimeTypes: map[string]bool{
			"video/mp4":                true,
			"video/quicktime":          true,
			"application/octet-stream": true,
		},
		AllowedExtensions: map[string]bool{
			".mp4": true,
			".mov": true,
		},
		MaxSize: 100 << 20, // 100MB
	}

	// TextConstraints covers typed questions submitted as text clips.
	TextConstraints = ClipConstraints{
		AllowedMimeTypes: map[string]bool{
			"text/plain":                true,
			"text/plain; charset=utf-8": true,
		},
		AllowedExtensions: map[string]bool{
			".txt": true,
		},
		MaxSize: 64 << 10, // 64KB
	}
)

// ValidateClip validates an upload against one or more constraint sets.
// If multiple constraints are provided, the payload must match at least
// one (OR logic).
func ValidateClip(filename string, payload []byte, constraints ...ClipConstraints) error {
	if len(constraints) == 0 {
		return fmt.Errorf("no clip constraints provided")
	}

	var lastErr error
	for _, constraint := range constraints {
		err := validateAgainstConstraint(filename, payload, constraint)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	return lastErr
}

// validateAgainstConstraint validates a payload against a single constraint set
func validateAgainstConstraint(filename string, payload []byte, constraints ClipConstraints) error {
	if int64(len(payload)) > constraints.MaxSize {
		maxMB := constraints.MaxSize / (1 << 20)
		if maxMB > 0 {
			return fmt.Errorf("file too large: maximum size is %d MB", maxMB)
		}
		return fmt.Errorf("file too large: maximum size is %d KB", constraints.MaxSize/(1<<10))
	}

	// Detect actual content type from the payload's magic numbers.
	// This cannot be faked by just changing the Content-Type header.
	head := payload
	if len(head) > 512 {
		head = head[:512]
	}
	detectedType := http.DetectContentType(head)

	if !constraints.AllowedMimeTypes[detectedType] {
		return fmt.Errorf("invalid file type (detected: %s)", detectedType)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !constraints.AllowedExtensions[ext] {
		return fmt.Errorf("invalid file extension: %s", ext)
	}

	return nil
}
