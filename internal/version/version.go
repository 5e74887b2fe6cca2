package version

// Version is the current version of the argo-examples toolkit.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-examples/internal/version.Version=1.2.3"
var Version = "v0.3.0"

// CatalogSchemaVersion is written into catalog.yaml and checked when a catalog is opened.
const CatalogSchemaVersion = "1.1.0"

// GetVersion returns the current version of the toolkit.
func GetVersion() string {
	return Version
}
