package binary

import (
	"os"
	"path/filepath"
)

// removeStale deletes every entry of workDir except keep. Failures are
// collected rather than returned early so one stuck entry does not keep the
// others around.
func removeStale(workDir, keep string) []error {
	entries, err := os.ReadDir(workDir)
	if err != nil {
		return []error{&DirectoryListError{Dir: workDir, Err: err}}
	}

	var warnings []error
	for _, entry := range entries {
		if entry.Name() == keep {
			continue
		}
		path := filepath.Join(workDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			warnings = append(warnings, &DirectoryEntryError{Path: path, Err: err})
		}
	}
	return warnings
}
