// Package notify writes user-facing notifications to a terminal.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/firecast/internal/core/ports"
	"go.trai.ch/firecast/internal/ui/output"
	"go.trai.ch/firecast/internal/ui/style"
)

// Terminal prints one line per notification.
type Terminal struct {
	mu  sync.Mutex
	out *termenv.Output
}

var _ ports.Notifier = (*Terminal)(nil)

// NewTerminal creates a Terminal writing to w, or to stderr when w is nil.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{out: output.New(w)}
}

// Notify prints message with a check mark, or a cross when isError is set.
func (t *Terminal) Notify(message string, isError bool) {
	icon, color := style.Check, style.Forest
	if isError {
		icon, color = style.Cross, style.Flame
	}

	line := t.out.String(icon + " " + message).Foreground(termenv.RGBColor(string(color)))

	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintln(t.out, line)
}
