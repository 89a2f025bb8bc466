// Package desktop integrates with the host desktop environment.
package desktop

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/logging"
)

// XDGOpener hands URLs to the system default handler via xdg-open.
type XDGOpener struct {
	// Binary overrides the launcher command. Defaults to xdg-open.
	Binary string
}

var _ port.Opener = (*XDGOpener)(nil)

// NewXDGOpener creates an opener backed by xdg-open.
func NewXDGOpener() *XDGOpener {
	return &XDGOpener{Binary: "xdg-open"}
}

// OpenURL implements port.Opener. The viewer is started detached; only
// launch failures are reported.
func (o *XDGOpener) OpenURL(ctx context.Context, url string) error {
	binary := o.Binary
	if binary == "" {
		binary = "xdg-open"
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		return fmt.Errorf("external viewer %s not found: %w", binary, err)
	}

	cmd := exec.Command(path, url)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch external viewer: %w", err)
	}

	logging.FromContext(ctx).Debug().
		Str("url", url).
		Int("pid", cmd.Process.Pid).
		Msg("page handed to external viewer")

	// Reap the child so it doesn't linger as a zombie.
	go func() { _ = cmd.Wait() }()

	return nil
}
