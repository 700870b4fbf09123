// Package platform describes the host an executable is provisioned for.
//
// It defines the operating system and architecture enumerations used to pick
// release assets, detects the running host (using gopsutil for Linux
// distribution details, with graceful fallback when detection fails), and
// injects this information as a read-only table into Lua extension manifests.
package platform

import "context"

// OS is an operating system a language server can be provisioned for.
type OS string

const (
	// Mac is macOS.
	Mac OS = "mac"
	// Linux is any Linux distribution.
	Linux OS = "linux"
	// Windows is Microsoft Windows.
	Windows OS = "windows"
)

// String returns the string representation of the OS.
func (o OS) String() string {
	return string(o)
}

// Valid reports whether o is one of the known operating systems.
func (o OS) Valid() bool {
	switch o {
	case Mac, Linux, Windows:
		return true
	default:
		return false
	}
}

// Arch is a CPU architecture a language server can be provisioned for.
type Arch string

const (
	// Aarch64 is 64-bit ARM.
	Aarch64 Arch = "aarch64"
	// X86 is 32-bit x86.
	X86 Arch = "x86"
	// X86_64 is 64-bit x86.
	X86_64 Arch = "x86_64"
)

// String returns the string representation of the architecture.
func (a Arch) String() string {
	return string(a)
}

// Valid reports whether a is one of the known architectures.
func (a Arch) Valid() bool {
	switch a {
	case Aarch64, X86, X86_64:
		return true
	default:
		return false
	}
}

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains platform detection information.
type Info struct {
	OS       OS
	Arch     Arch
	ArchRaw  string // original GOARCH (e.g., "amd64", "arm64")
	Platform string // distro ID (Linux only, e.g., "ubuntu", "alpine")
	Family   string // canonical family (e.g., "debian", "alpine")
	Version  string // distro version (Linux only, e.g., "22.04")
}

// Distro contains Linux distribution information.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// GetDistro returns distro information if this is a Linux platform.
// Returns nil for non-Linux platforms or if distro detection failed.
func (i *Info) GetDistro() *Distro {
	if i.OS != Linux || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool { return i.OS == Linux }

// IsMac returns true if the platform is macOS.
func (i *Info) IsMac() bool { return i.OS == Mac }

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool { return i.OS == Windows }

// IsAlpine returns true on Alpine Linux, where only musl builds run natively.
func (i *Info) IsAlpine() bool {
	return i.OS == Linux && i.Family == FamilyAlpine
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// StaticDetector returns a fixed Info. It is used when the target platform is
// given explicitly rather than detected.
type StaticDetector struct {
	Info *Info
}

// Detect returns the configured info.
func (s StaticDetector) Detect(ctx context.Context) (*Info, error) {
	return s.Info, nil
}
