//go:build !unix

package launcher

import (
	"os"
	"os/exec"

	"github.com/sontallive/envhub/internal/errdefs"
)

// spawnTransfer runs the target as a child with inherited standard streams
// and waits for it, propagating its exit code. Abnormal termination without
// a reportable code maps to 1.
type spawnTransfer struct{}

func newTransfer() Transfer { return spawnTransfer{} }

func (spawnTransfer) Exec(l *Launch) (int, error) {
	cmd := exec.Command(l.Path, l.Args...)
	cmd.Env = l.Env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		code := exitErr.ExitCode()
		if code < 0 {
			code = 1
		}
		return code, nil
	}
	return 0, errdefs.IO("failed to launch target", err)
}
