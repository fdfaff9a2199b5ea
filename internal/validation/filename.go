package validation

import (
	"errors"
	"regexp"
)

// Generated files are always named <12 hex chars>.pdf. Anything else in
// a download URL is rejected before touching storage.
var packFilenameRx = regexp.MustCompile(`^[0-9a-f]{12}\.pdf$`)

// ValidatePackFilename validates a generated-file name from a URL path
func ValidatePackFilename(name string) error {
	if !packFilenameRx.MatchString(name) {
		return errors.New("invalid file name")
	}
	return nil
}
