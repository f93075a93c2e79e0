//go:build !windows

package process

import "os/exec"

// Only cmd.exe takes a raw command line; elsewhere argv is passed as is.
func setCmdLine(*exec.Cmd, string) {}
