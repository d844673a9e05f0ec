package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirUsesEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvDir, tmp)

	dir, err := Dir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != tmp {
		t.Fatalf("dir mismatch: %s != %s", dir, tmp)
	}
}

func TestDirDefaultsToHome(t *testing.T) {
	t.Setenv(EnvDir, "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	dir, err := Dir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != filepath.Join(home, ".hl") {
		t.Fatalf("unexpected dir: %s", dir)
	}
}

func TestFilePaths(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvDir, tmp)

	cases := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{"db", DBPath, "hl.db"},
		{"order config", OrderConfigPath, "order-config.json"},
		{"socket", ServerSocketPath, "server.sock"},
		{"pid", ServerPidPath, "server.pid"},
		{"log", ServerLogPath, "server.log"},
		{"status", ServerStatusPath, "server.json"},
	}
	for _, tc := range cases {
		got, err := tc.fn()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != filepath.Join(tmp, tc.want) {
			t.Fatalf("%s: path mismatch: %s", tc.name, got)
		}
	}
}

func TestEnsureDirCreates(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "nested", "hl")
	t.Setenv(EnvDir, tmp)

	dir, err := EnsureDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
}
