package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTopic(t *testing.T) {
	assert.NoError(t, ValidateTopic("indoor gardening"))
	assert.Error(t, ValidateTopic(""))
	assert.Error(t, ValidateTopic("   "))
	assert.Error(t, ValidateTopic(strings.Repeat("x", 301)))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@example.com"))
}

func TestValidatePackFilename(t *testing.T) {
	assert.NoError(t, ValidatePackFilename("3f9c2a81d07b.pdf"))

	bad := []string{
		"",
		"3f9c2a81d07b",         // no extension
		"3F9C2A81D07B.pdf",     // uppercase hex
		"3f9c2a81d07.pdf",      // 11 chars
		"3f9c2a81d07bc.pdf",    // 13 chars
		"../3f9c2a81d07b.pdf",  // traversal
		"3f9c2a81d07b.pdf.exe", // trailing junk
		"zzzzzzzzzzzz.pdf",     // not hex
	}
	for _, name := range bad {
		assert.Error(t, ValidatePackFilename(name), name)
	}
}
