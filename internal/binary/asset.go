package binary

import (
	"fmt"

	"github.com/ZebulonRouseFrantzich/lsprov/internal/platform"
)

// ArchiveFormat is the packaging of a release asset.
type ArchiveFormat string

const (
	// FormatZip is a zip archive.
	FormatZip ArchiveFormat = "zip"
	// FormatTarGz is a gzip-compressed tar archive.
	FormatTarGz ArchiveFormat = "tar.gz"
)

// ArchiveFormatFor returns the archive format assets use on os.
// Windows assets are zip files, everything else is a gzip tarball.
func ArchiveFormatFor(os platform.OS) ArchiveFormat {
	if os == platform.Windows {
		return FormatZip
	}
	return FormatTarGz
}

// AssetName computes the release asset for tool on the given platform.
// Pattern: {tool}-{os}-{arch}.{zip|tar.gz}
//
// Linux builds are statically linked against musl, so aarch64 and x86_64 on
// Linux map to the -musl variants. No other combination produces them.
func AssetName(tool string, os platform.OS, arch platform.Arch) (string, error) {
	osName, err := assetOS(os)
	if err != nil {
		return "", err
	}
	archName, err := assetArch(os, arch)
	if err != nil {
		return "", err
	}

	stem := fmt.Sprintf("%s-%s-%s", tool, osName, archName)
	return fmt.Sprintf("%s.%s", stem, ArchiveFormatFor(os)), nil
}

// assetOS maps an OS to the token used in asset names.
func assetOS(os platform.OS) (string, error) {
	switch os {
	case platform.Mac:
		return "darwin", nil
	case platform.Linux:
		return "linux", nil
	case platform.Windows:
		return "windows", nil
	default:
		return "", fmt.Errorf("unsupported operating system: %q", os)
	}
}

// assetArch maps an architecture to the token used in asset names.
func assetArch(os platform.OS, arch platform.Arch) (string, error) {
	switch arch {
	case platform.Aarch64:
		if os == platform.Linux {
			return "aarch64-musl", nil
		}
		return "aarch64", nil
	case platform.X86:
		return "x86", nil
	case platform.X86_64:
		if os == platform.Linux {
			return "x86_64-musl", nil
		}
		return "x86_64", nil
	default:
		return "", fmt.Errorf("unsupported architecture: %q", arch)
	}
}
