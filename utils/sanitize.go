package utils

import "strings"

// SanitizeFilename flattens a client-supplied name into something safe for
// blob keys and archive entries. Path separators and traversal sequences
// become underscores.
func SanitizeFilename(name string) string {
	clean := strings.TrimSpace(name)
	clean = strings.ReplaceAll(clean, "\\", "/")
	clean = strings.ReplaceAll(clean, "/", "_")
	clean = strings.ReplaceAll(clean, "..", "_")
	if clean == "" || clean == "." {
		return "unnamed"
	}
	return clean
}
