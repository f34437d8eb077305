package store

import "github.com/roach88/hq/internal/sanitize"

// Documentation returns the markup to display: the local patch when one is
// set, base otherwise. The result is always sanitized.
func (s *Store) Documentation(base string) string {
	if s.current.HasDocumentPatch() {
		return sanitize.Sanitize(s.current.DocumentPatch)
	}
	return sanitize.Sanitize(base)
}
