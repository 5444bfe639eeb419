package settings

import (
	"sort"
	"sync"
)

type memorySubkey struct {
	def    string
	hasDef bool
}

// MemoryStore is an in-memory Store. It backs the --memory flag and the
// test suites; nothing survives the process.
type MemoryStore struct {
	mu      sync.RWMutex
	subkeys map[string]map[string]memorySubkey
	values  map[string]map[string]string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subkeys: make(map[string]map[string]memorySubkey),
		values:  make(map[string]map[string]string),
	}
}

func (s *MemoryStore) ListSubkeys(root string) ([]Subkey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	children := s.subkeys[root]
	subkeys := make([]Subkey, 0, len(children))
	for name, sk := range children {
		subkeys = append(subkeys, Subkey{
			Name:       name,
			Default:    sk.def,
			HasDefault: sk.hasDef,
		})
	}
	// Deterministic order, matching the SQLite store's ORDER BY.
	sort.Slice(subkeys, func(i, j int) bool { return subkeys[i].Name < subkeys[j].Name })
	return subkeys, nil
}

func (s *MemoryStore) GetValue(root, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[root][name]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *MemoryStore) SetValue(root, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.values[root] == nil {
		s.values[root] = make(map[string]string)
	}
	s.values[root][name] = value
	return nil
}

func (s *MemoryStore) CreateSubkey(root, name, defaultValue string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subkeys[root] == nil {
		s.subkeys[root] = make(map[string]memorySubkey)
	}
	s.subkeys[root][name] = memorySubkey{def: defaultValue, hasDef: true}
	return nil
}

// CreateSubkeyNoDefault creates a subkey whose default value is absent.
// Registry enumeration skips such subkeys; tests use this to exercise
// that path.
func (s *MemoryStore) CreateSubkeyNoDefault(root, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subkeys[root] == nil {
		s.subkeys[root] = make(map[string]memorySubkey)
	}
	s.subkeys[root][name] = memorySubkey{}
	return nil
}

func (s *MemoryStore) DeleteSubkey(root, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.subkeys[root], name)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
