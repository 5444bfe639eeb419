// Package settings provides the hierarchical key/value store the theme
// switcher reads installed themes from and writes the active theme to.
//
// The store mirrors a registry hive: a tree of subkeys addressed by a
// slash-separated root path, where each subkey has an optional default
// value and each root holds named string values. The store is process-wide
// external state; writers are expected to funnel their writes through a
// single goroutine (see pkg/dispatch).
package settings

import "errors"

// ErrNotFound is returned by GetValue when no value exists under the
// given root and name.
var ErrNotFound = errors.New("settings: value not found")

// Subkey is one child key of a root, as seen by enumeration.
type Subkey struct {
	// Name is the subkey's own name (not the full path).
	Name string
	// Default is the subkey's default value.
	Default string
	// HasDefault reports whether the default value could be read.
	// Enumeration still lists subkeys whose default is missing; callers
	// decide whether to skip them.
	HasDefault bool
}

// Store is a registry-style settings store.
//
// All implementations must be safe for concurrent reads. Writes are only
// well-defined from a single goroutine at a time.
type Store interface {
	// ListSubkeys enumerates the immediate subkeys of root together with
	// each subkey's default value. An absent root yields an empty list,
	// not an error.
	ListSubkeys(root string) ([]Subkey, error)

	// GetValue returns the named string value under root.
	// Returns ErrNotFound if the value does not exist.
	GetValue(root, name string) (string, error)

	// SetValue creates or replaces the named string value under root.
	SetValue(root, name, value string) error

	// CreateSubkey creates or replaces a subkey of root with the given
	// default value.
	CreateSubkey(root, name, defaultValue string) error

	// DeleteSubkey removes a subkey of root. Removing a subkey that does
	// not exist is not an error.
	DeleteSubkey(root, name string) error

	Close() error
}
