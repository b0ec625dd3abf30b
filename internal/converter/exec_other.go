//go:build !unix

package converter

import "os/exec"

func configureProcess(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return cmd.Process.Kill()
	}
}

// reapProcess is a no-op without process groups
func reapProcess(cmd *exec.Cmd) {}
