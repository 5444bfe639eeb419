package themes

import (
	"bufio"
	"log/slog"
	"os"
)

// Resolver turns a marker file's content into a theme id.
type Resolver struct {
	registry *Registry
}

func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve reads the marker file at path and looks its first non-empty
// line up in a fresh installed-themes snapshot.
//
// The line is matched exactly as written: no trimming, no case folding.
// Partial or fuzzy matching against display names would silently mask
// typos, so the match is deliberately strict.
//
// Resolve fails soft: a missing file, an empty file, an unmatched display
// name, or a store read failure all yield ok=false. The next file event
// retries naturally.
func (r *Resolver) Resolve(path string) (themeID string, ok bool) {
	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to open marker file", "path", path, "error", err)
		}
		return "", false
	}
	defer file.Close()

	displayName, ok := firstLine(file)
	if !ok {
		slog.Debug("Marker file has no content", "path", path)
		return "", false
	}

	installed, err := r.registry.ListInstalled()
	if err != nil {
		slog.Warn("Failed to enumerate installed themes", "error", err)
		return "", false
	}

	id, ok := installed[displayName]
	if !ok {
		slog.Debug("Marker file names an unknown theme", "path", path, "name", displayName)
		return "", false
	}
	return id, true
}

// firstLine returns the first non-empty line of the reader, verbatim.
func firstLine(file *os.File) (string, bool) {
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			return line, true
		}
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("Failed to read marker file", "path", file.Name(), "error", err)
	}
	return "", false
}
