package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct {
	goos   string
	goarch string
}

// NewDetector creates a new platform detector for the running process.
func NewDetector() Detector {
	return &RealDetector{goos: runtime.GOOS, goarch: runtime.GOARCH}
}

// Detect performs platform detection and returns platform information.
// OS and architecture come from the Go runtime; on Linux, gopsutil supplies
// the distribution. A failed distribution lookup is not an error: the
// returned Info simply has empty distro fields.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	osName, err := ParseOS(d.goos)
	if err != nil {
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}
	arch, err := ParseArch(d.goarch)
	if err != nil {
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}

	info := &Info{
		OS:      osName,
		Arch:    arch,
		ArchRaw: d.goarch,
	}

	if osName != Linux {
		return info, nil
	}

	platform, family, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	platform = normalizePlatform(platform)
	if platform != "" {
		info.Platform = platform
		info.Family = mapFamily(family)
		info.Version = normalizePlatform(version)
		// gopsutil reports alpine with an empty family
		if platform == "alpine" {
			info.Family = FamilyAlpine
		}
	}

	return info, nil
}
