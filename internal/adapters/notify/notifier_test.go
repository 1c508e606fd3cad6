package notify_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/firecast/internal/adapters/notify"
)

func TestTerminal_Notify(t *testing.T) {
	tests := []struct {
		name    string
		message string
		isError bool
	}{
		{name: "info", message: "Forest cover for Maricopa_AZ loaded", isError: false},
		{name: "error", message: "Export for Maricopa_AZ timed out after 60 attempts", isError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			notify.NewTerminal(buf).Notify(tt.message, tt.isError)

			g := goldie.New(t)
			g.Assert(t, "notify_"+tt.name, buf.Bytes())
		})
	}
}

func TestTerminal_ConcurrentLinesDoNotInterleave(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	n := notify.NewTerminal(buf)

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() { n.Notify("Playback finished after 20 frames", false) })
	}
	wg.Wait()

	lines := bytes.Split(bytes.TrimSuffix(buf.Bytes(), []byte("\n")), []byte("\n"))
	assert.Len(t, lines, 20)
	for _, l := range lines {
		assert.Equal(t, "✓ Playback finished after 20 frames", string(l))
	}
}
