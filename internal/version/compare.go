package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
)

// CheckCatalogCompatibility checks if a data catalog written with catalogVersion can be
// read by a reader of readerVersion. Returns nil if compatible, error with details if not.
//
// Compatibility Rules:
//   - If either version is "main" (development build), compatibility check is skipped
//   - Major versions must match exactly
//   - Minor versions must match exactly
//   - Patch versions can differ (e.g., 1.2.0 is compatible with 1.2.5)
func CheckCatalogCompatibility(readerVersion, catalogVersion string) error {
	readerVersion = strings.TrimPrefix(readerVersion, "v")
	catalogVersion = strings.TrimPrefix(catalogVersion, "v")

	if readerVersion == "main" || catalogVersion == "main" {
		return nil
	}

	reader, err := semver.NewVersion(readerVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid reader version '%s'", readerVersion)
	}

	catalog, err := semver.NewVersion(catalogVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid catalog version '%s'", catalogVersion)
	}

	if reader.Major() != catalog.Major() {
		return errors.Newf(errors.ErrCodeCatalogIncompat, "major version mismatch: reader is %d.x.x but catalog was written with %d.x.x",
			reader.Major(), catalog.Major())
	}

	if reader.Minor() != catalog.Minor() {
		return errors.Newf(errors.ErrCodeCatalogIncompat, "minor version mismatch: reader is %d.%d.x but catalog was written with %d.%d.x",
			reader.Major(), reader.Minor(), catalog.Major(), catalog.Minor())
	}

	return nil
}
