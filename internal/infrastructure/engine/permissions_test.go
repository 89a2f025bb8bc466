package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMediaPermissionKind(t *testing.T) {
	tests := []struct {
		name      string
		isAudio   bool
		isVideo   bool
		isDisplay bool
		expected  string
	}{
		{
			name:     "camera wins over microphone",
			isAudio:  true,
			isVideo:  true,
			expected: "camera",
		},
		{
			name:     "microphone only",
			isAudio:  true,
			expected: "microphone",
		},
		{
			name:      "screen capture",
			isDisplay: true,
			expected:  "display",
		},
		{
			name:      "display wins when combined with audio",
			isAudio:   true,
			isDisplay: true,
			expected:  "display",
		},
		{
			name:     "display fallback when all flags unset",
			expected: "display",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, userMediaPermissionKind(tt.isAudio, tt.isVideo, tt.isDisplay))
		})
	}
}

func TestPermissionKindForRequestNilPointer(t *testing.T) {
	// A zero instance pointer cannot be classified and must not be allowed.
	assert.Equal(t, "unknown", permissionKindForRequest(0))
}
