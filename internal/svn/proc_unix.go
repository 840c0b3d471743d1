//go:build unix

package svn

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts svn in its own process group and makes context
// cancellation kill the whole group, so children like ssh die with it.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
