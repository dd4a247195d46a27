// Package id generates prefixed identifiers for dataset snapshots and request-scoped objects.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// SnapshotPrefix marks identifiers of loaded dataset snapshots.
const SnapshotPrefix = "ds"

// Generate creates a prefixed unique ID using NanoID, e.g. "ds-V1StGXR8_Z5jdHi6B-myT".
// Returns an error if the system has insufficient entropy.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}
