package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/rxtech-lab/argo-dataprep/pkg/errors"
)

// CheckVersionCompatibility checks whether a pipeline config written for
// configVersion can be run by toolVersion.
//
// Compatibility Rules:
//   - If either version is "main" (development build), compatibility check is skipped
//   - Major versions must match exactly
//   - The tool's minor version must be at least the config's
//   - Patch versions can differ (e.g., 1.2.0 is compatible with 1.2.5)
//
// Examples:
//   - Tool 1.2.0, Config 1.2.0 -> OK (exact match)
//   - Tool 1.3.0, Config 1.2.0 -> OK (newer tool reads older configs)
//   - Tool 1.2.0, Config 1.3.0 -> ERROR (config uses newer settings)
//   - Tool 2.0.0, Config 1.2.0 -> ERROR (major differs)
//   - Tool main, Config 1.2.0 -> OK (dev build, skip check)
func CheckVersionCompatibility(toolVersion, configVersion string) error {
	toolVersion = strings.TrimPrefix(toolVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if toolVersion == "main" || configVersion == "main" {
		return nil
	}

	toolSemver, err := semver.NewVersion(toolVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid tool version '%s'", toolVersion)
	}

	configSemver, err := semver.NewVersion(configVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid config version '%s'", configVersion)
	}

	if toolSemver.Major() != configSemver.Major() {
		return errors.Newf(errors.ErrCodeInvalidVersion, "major version mismatch: tool is %d.x.x but config requires %d.x.x",
			toolSemver.Major(), configSemver.Major())
	}

	if toolSemver.Minor() < configSemver.Minor() {
		return errors.Newf(errors.ErrCodeInvalidVersion, "minor version mismatch: tool is %d.%d.x but config requires %d.%d.x or newer",
			toolSemver.Major(), toolSemver.Minor(),
			configSemver.Major(), configSemver.Minor())
	}

	return nil
}
