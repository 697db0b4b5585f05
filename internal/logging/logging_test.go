package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewWithWriter(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{name: "quiet", verbose: false, wantDebug: false},
		{name: "verbose", verbose: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&buf, tt.verbose)
			logger.Debug("sorted rows", zap.Int("rows", 3))
			logger.Warn("dropped invalid order tokens")
			_ = logger.Sync()

			out := buf.String()
			assert.Contains(t, out, "dropped invalid order tokens")
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("sorted rows")), out)
			if tt.wantDebug {
				assert.Contains(t, out, `{"rows": 3}`)
			}
		})
	}
}
