//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package encoding

import "os/exec"

// Windows has no sessions; the console interrupt is delivered to the whole
// process group.
func detach(cmd *exec.Cmd) {}
