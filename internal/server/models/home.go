package models

import "time"

// Home is the top-level owned resource: one owning user plus zero or
// more delegated access grants.
type Home struct {
	ID      string
	OwnerID string
	Address string
	City    string
	State   string
	Zip     string
	// DataSource records where the home's history originated
	// (e.g. "Local" after a local-data import). Empty when unset.
	DataSource string
	CreatedAt  time.Time
}

// Access grant roles. The owner grant is created implicitly when a home
// is claimed; Viewer/Contributor come from invitations.
const (
	GrantRoleOwner       = "owner"
	GrantRoleViewer      = "Viewer"
	GrantRoleContributor = "Contributor"
)

// AccessGrant ties one user to one home with a role tag. At most one
// grant exists per (home, user) pair.
type AccessGrant struct {
	ID     string
	HomeID string
	UserID string
	Role   string
	// MigratedAt is set once the user's locally captured data has been
	// imported into this home; it makes the import idempotent.
	MigratedAt *time.Time
}
