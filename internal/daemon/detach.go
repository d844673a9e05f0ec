package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// envDetached marks a child that has already been re-executed into the
// background, so it does not detach again.
const envDetached = "HL_SERVER_DETACHED"

// Detached reports whether this process is the re-executed background child.
func Detached() bool {
	return os.Getenv(envDetached) == "1"
}

// Detach re-executes the current binary as a session leader with stdout and
// stderr appended to logPath, then returns the child pid. The caller (the
// foreground parent) should exit afterwards. This is process plumbing, kept
// apart from the daemon core.
func Detach(logPath string) (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("resolve executable: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open log %s: %w", logPath, err)
	}
	defer logFile.Close()

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Env = append(os.Environ(), envDetached+"=1")
	cmd.Stdin = nil
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start background process: %w", err)
	}
	return cmd.Process.Pid, nil
}
