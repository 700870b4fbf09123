package binary

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZebulonRouseFrantzich/lsprov/internal/platform"
)

// maxToolNameLength bounds tool names.
const maxToolNameLength = 128

// toolNamePattern matches names usable as a single path component.
var toolNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateToolName checks that tool can name the tool's working directory
// and executable. Separators and dot-only names are rejected.
func ValidateToolName(tool string) error {
	if tool == "" {
		return fmt.Errorf("cannot be empty")
	}
	if len(tool) > maxToolNameLength {
		return fmt.Errorf("too long (%d chars, max %d)", len(tool), maxToolNameLength)
	}
	if !toolNamePattern.MatchString(tool) {
		return fmt.Errorf("invalid tool name %q", tool)
	}
	return nil
}

// validateVersion checks that a release version can be embedded in a single
// directory name.
func validateVersion(version string) error {
	if version == "" {
		return fmt.Errorf("release has no version")
	}
	if version == "." || version == ".." || strings.ContainsAny(version, `/\`) || strings.ContainsRune(version, 0) {
		return fmt.Errorf("release version %q cannot name a directory", version)
	}
	return nil
}

// VersionDirName returns the name of the directory holding version of tool.
func VersionDirName(tool, version string) string {
	return tool + "-" + version
}

// ExecutableName returns the file name of tool's executable on os. Windows
// archives ship {tool}.exe.
func ExecutableName(tool string, os platform.OS) string {
	if os == platform.Windows {
		return tool + ".exe"
	}
	return tool
}

// executableNames lists every file name a cached executable of tool may have.
func executableNames(tool string) []string {
	return []string{tool, tool + ".exe"}
}
