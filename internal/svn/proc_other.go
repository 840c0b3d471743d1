//go:build !unix

package svn

import "os/exec"

// killProcessGroup is a no-op here; WaitDelay still bounds Run.
func killProcessGroup(*exec.Cmd) {}
