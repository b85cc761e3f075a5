// Package platform maps the host OS to the scheduling backends that make
// sense on it and to the nominal default backend.
package platform

import (
	"fmt"
	"runtime"
	"strings"

	"schedpilot/internal/backend"
)

// OS is the coarse platform classification the selection policy works with.
type OS string

const (
	Darwin  OS = "darwin"
	Linux   OS = "linux"
	Windows OS = "windows"
	Unknown OS = "unknown"
)

// Current classifies the running host.
func Current() OS { return FromGOOS(runtime.GOOS) }

// FromGOOS classifies a GOOS-style name. Unrecognized values map to Unknown,
// which no backend applies to.
func FromGOOS(goos string) OS {
	switch strings.ToLower(strings.TrimSpace(goos)) {
	case "darwin", "macos":
		return Darwin
	case "linux":
		return Linux
	case "windows":
		return Windows
	default:
		return Unknown
	}
}

// Default returns the nominal default backend for the platform.
func Default(os OS) (backend.Kind, error) {
	switch os {
	case Darwin:
		return backend.KindManifest, nil
	case Linux:
		return backend.KindCron, nil
	case Windows:
		return backend.KindWrapper, nil
	default:
		return "", fmt.Errorf("%w: %s", backend.ErrUnsupportedPlatform, os)
	}
}

// Applicable lists every backend that can run on the platform, in the order
// forced convergence visits them.
func Applicable(os OS) []backend.Kind {
	switch os {
	case Darwin:
		return []backend.Kind{backend.KindManifest, backend.KindCron}
	case Linux:
		return []backend.Kind{backend.KindCron}
	case Windows:
		return []backend.Kind{backend.KindWrapper}
	default:
		return nil
	}
}

// Supports reports whether kind is usable on the platform.
func Supports(os OS, kind backend.Kind) bool {
	for _, k := range Applicable(os) {
		if k == kind {
			return true
		}
	}
	return false
}
