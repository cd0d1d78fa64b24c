//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package encoding

import (
	"os/exec"
	"syscall"
)

func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
