package errors

import (
	"strings"
	"unicode"
)

// ValidatePath validates a document path supplied on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateTitle rejects document titles that would not fit on the netlist
// title line.
func ValidateTitle(title string) error {
	if strings.ContainsAny(title, "\r\n") {
		return New(ErrCodeInvalidDocument, "title must be a single line")
	}
	return nil
}

// ValidateComponentID validates a component identifier.
// IDs become part of netlist element names, so they must be non-empty
// single tokens.
func ValidateComponentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidDocument, "component id cannot be empty")
	}
	if i := strings.IndexFunc(id, isSeparator); i >= 0 {
		return New(ErrCodeInvalidDocument, "component id %q contains whitespace or control characters", id)
	}
	return nil
}

// ValidateNetName validates a net name referenced by a connection.
// Net names are netlist tokens: non-empty and free of whitespace.
func ValidateNetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidDocument, "net name cannot be empty")
	}
	if i := strings.IndexFunc(name, isSeparator); i >= 0 {
		return New(ErrCodeInvalidDocument, "net name %q contains whitespace or control characters", name)
	}
	return nil
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r)
}

// cacheSchemes lists URL schemes accepted by ValidateCacheURL.
var cacheSchemes = []string{"redis://", "rediss://", "mongodb://", "mongodb+srv://", "file://"}

// ValidateCacheURL validates a cache backend URL.
// An empty URL is valid and means caching is disabled.
func ValidateCacheURL(rawURL string) error {
	if rawURL == "" {
		return nil
	}
	for _, s := range cacheSchemes {
		if strings.HasPrefix(rawURL, s) {
			if len(rawURL) == len(s) {
				return New(ErrCodeInvalidCacheURL, "cache URL %q has no location", rawURL)
			}
			return nil
		}
	}
	return New(ErrCodeInvalidCacheURL, "cache URL must use one of: redis, rediss, mongodb, mongodb+srv, file")
}
