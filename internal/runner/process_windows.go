//go:build windows

package runner

import "os/exec"

func shellCommand(command string) (string, []string) {
	return "cmd", []string{"/C", command}
}

// configureProcessGroup keeps the default Cancel, which kills the direct child.
func configureProcessGroup(_ *exec.Cmd) {}
