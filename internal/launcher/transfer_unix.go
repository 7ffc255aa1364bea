//go:build unix

package launcher

import (
	"syscall"

	"github.com/sontallive/envhub/internal/errdefs"
)

// execTransfer replaces the process image in place: no fork, no wait. The
// launcher ceases to exist and the caller observes the target's exit code
// directly.
type execTransfer struct{}

func newTransfer() Transfer { return execTransfer{} }

func (execTransfer) Exec(l *Launch) (int, error) {
	argv := make([]string, 0, len(l.Args)+1)
	argv = append(argv, l.Path)
	argv = append(argv, l.Args...)

	err := syscall.Exec(l.Path, argv, l.Env)
	// Exec only returns on failure.
	return 0, errdefs.IO("failed to exec target", err)
}
