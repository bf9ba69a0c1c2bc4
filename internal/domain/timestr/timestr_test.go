package timestr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"10s", 10 * time.Second},
		{"30", 30 * time.Second},
		{"0", 0},
		{"1.5", 1500 * time.Millisecond},
		{"500 ms", 500 * time.Millisecond},
		{"1 min 30 s", 90 * time.Second},
		{"2 minutes", 2 * time.Minute},
		{" 0.2S ", 200 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "soon", "10 parsecs", "1s and more"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "10s", Format(10*time.Second))
	assert.Equal(t, "0.2s", Format(200*time.Millisecond))
}
