// Package themes reads the set of installed themes from the settings
// store and resolves marker-file contents to theme identifiers.
package themes

import (
	"log/slog"

	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/settings"
)

// RegistryRoot is the settings-store root holding one subkey per
// installed theme. The subkey's name is the theme id; its default value
// is the theme's display name.
const RegistryRoot = "software/autothemeswitcher/themes"

// InstalledSet maps display names to theme ids.
//
// Display names are assumed unique within the installed set. When two
// themes share a display name the later-enumerated one wins; that is an
// accepted quirk of the store layout, not a guarantee.
type InstalledSet map[string]string

// Registry enumerates installed themes. It holds no state beyond the
// store handle and takes a fresh snapshot on every call, so newly
// installed themes are picked up without a restart.
type Registry struct {
	store settings.Store
}

func NewRegistry(store settings.Store) *Registry {
	return &Registry{store: store}
}

// ListInstalled returns a fresh snapshot of the installed themes.
// Subkeys whose display name is missing or unreadable are skipped rather
// than failing the whole enumeration. An absent registry root yields an
// empty set, not an error.
func (r *Registry) ListInstalled() (InstalledSet, error) {
	subkeys, err := r.store.ListSubkeys(RegistryRoot)
	if err != nil {
		return nil, err
	}

	installed := make(InstalledSet, len(subkeys))
	for _, sk := range subkeys {
		if !sk.HasDefault || sk.Default == "" {
			slog.Debug("Skipping theme with unreadable display name", "id", sk.Name)
			continue
		}
		installed[sk.Default] = sk.Name
	}
	return installed, nil
}

// Install registers a theme under the registry root.
func (r *Registry) Install(id, displayName string) error {
	return r.store.CreateSubkey(RegistryRoot, id, displayName)
}

// Uninstall removes a theme from the registry root.
func (r *Registry) Uninstall(id string) error {
	return r.store.DeleteSubkey(RegistryRoot, id)
}
