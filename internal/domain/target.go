package domain

import "fmt"

// APIVersion selects the upstream query endpoint shape.
type APIVersion string

// Supported upstream API versions.
const (
	// V1 addresses a collection inside an environment.
	V1 APIVersion = "v1"
	// V2 addresses a project, optionally narrowed to collections.
	V2 APIVersion = "v2"
)

// Target identifies where queries are sent. It is built once at startup and
// never mutated afterwards.
type Target struct {
	version       APIVersion
	environmentID string
	collectionID  string
	projectID     string
	collectionIDs []string
}

// NewV1Target creates an environment/collection target.
func NewV1Target(environmentID, collectionID string) (Target, error) {
	if environmentID == "" {
		return Target{}, fmt.Errorf("%w: environment_id is required", ErrMissingTarget)
	}
	if collectionID == "" {
		return Target{}, fmt.Errorf("%w: collection_id is required", ErrMissingTarget)
	}
	return Target{version: V1, environmentID: environmentID, collectionID: collectionID}, nil
}

// NewV2Target creates a project target.
func NewV2Target(projectID string, collectionIDs []string) (Target, error) {
	if projectID == "" {
		return Target{}, fmt.Errorf("%w: project_id is required", ErrMissingTarget)
	}
	ids := make([]string, len(collectionIDs))
	copy(ids, collectionIDs)
	return Target{version: V2, projectID: projectID, collectionIDs: ids}, nil
}

// Version returns the API version.
func (t Target) Version() APIVersion { return t.version }

// EnvironmentID returns the v1 environment identifier.
func (t Target) EnvironmentID() string { return t.environmentID }

// CollectionID returns the v1 collection identifier.
func (t Target) CollectionID() string { return t.collectionID }

// ProjectID returns the v2 project identifier.
func (t Target) ProjectID() string { return t.projectID }

// CollectionIDs returns the v2 collection filter.
func (t Target) CollectionIDs() []string { return t.collectionIDs }

// IsZero reports whether the target was never configured.
func (t Target) IsZero() bool { return t.version == "" }
