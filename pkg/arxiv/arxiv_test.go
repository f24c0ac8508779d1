package arxiv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripVersion(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single digit version", "1705.01234v2", "1705.01234"},
		{"multi digit version", "1607.00001v12", "1607.00001"},
		{"no version", "1705.01234", "1705.01234"},
		{"old style identifier", "cond-mat/9901001v3", "cond-mat/9901001"},
		{"bare v is not a version", "1705.0123v", "1705.0123v"},
		{"empty string", "", ""},
		{"version with no base", "v2", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripVersion(tt.input))
		})
	}
}

func TestStripVersionIdempotent(t *testing.T) {
	once := StripVersion("1705.01234v2")
	assert.Equal(t, once, StripVersion(once))
}
