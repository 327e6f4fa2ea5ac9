package config

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-version"
)

// SupportedVersions is the schemaVersion range this module understands.
const SupportedVersions = ">= 1.0, < 2.0"

// ErrUnsupportedVersion reports a schemaVersion outside SupportedVersions.
var ErrUnsupportedVersion = errors.New("config: unsupported schema version")

var supported = version.MustConstraints(version.NewConstraint(SupportedVersions))

// CheckVersion accepts an empty version or one that satisfies
// SupportedVersions.
func CheckVersion(raw string) error {
	if raw == "" {
		return nil
	}
	v, err := version.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrUnsupportedVersion, raw, err)
	}
	if !supported.Check(v) {
		return fmt.Errorf("%w %q (want %s)", ErrUnsupportedVersion, raw, SupportedVersions)
	}
	return nil
}
