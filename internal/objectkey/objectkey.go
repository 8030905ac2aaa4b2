// Package objectkey builds and parses the legacy storage-key format
// that encodes clip metadata into the object key itself:
//
//	public/<title>-<epoch millis>_<responder>.<extension>
//
// The clips table is the authoritative metadata record; these functions
// exist to read keys written before the table existed and to keep new
// keys compatible with old readers.
package objectkey

import (
	"fmt"
	"strings"
	"time"
)

// Prefix is the fixed namespace all clip objects live under.
const Prefix = "public/"

// DefaultResponder is used when a submission is not addressed to a
// specific responder.
const DefaultResponder = "anonymous"

// Kind classifies a clip by its payload type.
type Kind string

const (
	KindVideo   Kind = "video"
	KindText    Kind = "text"
	KindUnknown Kind = ""
)

// KeyInfo holds the fields recovered from a key. Fields whose pattern
// did not match are left empty.
type KeyInfo struct {
	Title     string
	Responder string
	Kind      Kind
}

// Encode builds a storage key from a submission's fields. No escaping
// is applied: a title or responder containing '-', '_' or '.' produces
// a key that Decode cannot fully recover.
func Encode(title, responder string, at time.Time, ext string) string {
	if responder == "" {
		responder = DefaultResponder
	}
	ext = strings.TrimPrefix(ext, ".")
	return fmt.Sprintf("%s%s-%d_%s.%s", Prefix, title, at.UnixMilli(), responder, ext)
}

// Decode extracts metadata from a key or full object URL. Extraction is
// best effort: any field whose delimiters are missing comes back empty.
// Decode never fails on malformed input.
func Decode(key string) KeyInfo {
	var info KeyInfo

	rest := key
	if i := strings.Index(rest, Prefix); i >= 0 {
		rest = rest[i+len(Prefix):]
		if j := strings.Index(rest, "-"); j >= 0 {
			info.Title = rest[:j]
		}
	}

	if u := strings.LastIndex(rest, "_"); u >= 0 {
		if d := strings.LastIndex(rest, "."); d > u {
			info.Responder = rest[u+1 : d]
		}
	}

	if d := strings.LastIndex(key, "."); d >= 0 {
		info.Kind = KindFromExtension(key[d+1:])
	}

	return info
}

// KindFromExtension maps a file extension (without dot) to a clip kind.
func KindFromExtension(ext string) Kind {
	switch strings.ToLower(ext) {
	case "mov", "mp4":
		return KindVideo
	case "txt":
		return KindText
	default:
		return KindUnknown
	}
}

// ExtensionForContentType maps a MIME type to the extension used in
// keys. Unknown types fall back to "bin".
func ExtensionForContentType(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "video/quicktime":
		return "mov"
	case "video/mp4":
		return "mp4"
	case "text/plain", "text/plain; charset=utf-8":
		return "txt"
	default:
		return "bin"
	}
}
