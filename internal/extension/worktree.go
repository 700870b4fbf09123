package extension

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// PathWorktree finds executables in a project's bin/ directory and then on
// the process search path.
type PathWorktree struct {
	// Root is the project directory; empty skips the project lookup.
	Root string
}

// Which returns the path of the executable called name.
func (w PathWorktree) Which(name string) (string, bool) {
	if w.Root != "" {
		candidate := filepath.Join(w.Root, "bin", name)
		if runtime.GOOS == "windows" {
			candidate += ".exe"
		}
		if isExecutable(candidate) {
			return candidate, true
		}
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, true
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
