package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVideoID(t *testing.T) {
	tests := []struct {
		input string
		want  string
		err   error
	}{
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ", nil},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", nil},
		{"youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", nil},
		{"https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ", nil},
		{"https://m.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", nil},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", nil},
		{"https://www.youtube.com/playlist?list=PL123", "", ErrPlaylistURL},
		{"https://vimeo.com/123456", "", ErrInvalidVideoID},
		{"short", "", ErrInvalidVideoID},
		{"https://www.youtube.com/watch?v=tooShort", "", ErrInvalidVideoID},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVideoID(tt.input)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
