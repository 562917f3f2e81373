package ordering

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ettle/strcase"
)

// Registry implements CollectionRegistry with manifest support.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]CollectionDefinition
}

// NewRegistry builds a registry seeded with DefaultCollections.
func NewRegistry() *Registry {
	reg := NewEmptyRegistry()
	for _, def := range DefaultCollections() {
		_ = reg.Register(def)
	}
	return reg
}

// NewEmptyRegistry builds a registry without defaults.
func NewEmptyRegistry() *Registry {
	return &Registry{definitions: map[string]CollectionDefinition{}}
}

// NormalizeCode turns display names (HeroBanner, "Featured Images") into the
// kebab-case path segment used by the REST API.
func NormalizeCode(code string) string {
	return strcase.ToKebab(strings.TrimSpace(code))
}

// Register stores a collection definition under its normalized code.
func (r *Registry) Register(def CollectionDefinition) error {
	def.Code = NormalizeCode(def.Code)
	if def.Code == "" {
		return fmt.Errorf("ordering: collection code is required")
	}
	if def.Name == "" {
		def.Name = def.Code
	}
	seen := map[string]struct{}{}
	for _, scope := range def.Scopes {
		if scope == "" {
			return fmt.Errorf("ordering: collection %s declares an empty scope", def.Code)
		}
		if _, dup := seen[scope]; dup {
			return fmt.Errorf("ordering: collection %s declares scope %s twice", def.Code, scope)
		}
		seen[scope] = struct{}{}
	}
	if len(def.Scopes) > 0 && def.PartitionKey == "" {
		return fmt.Errorf("ordering: collection %s declares scopes without a partition key", def.Code)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Code] = def
	return nil
}

// Definition fetches a collection definition by code.
func (r *Registry) Definition(code string) (CollectionDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[NormalizeCode(code)]
	return def, ok
}

// Definitions returns all registered definitions sorted by code.
func (r *Registry) Definitions() []CollectionDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]CollectionDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Code < defs[j].Code })
	return defs
}

// LoadManifestDocument registers every collection of a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *ManifestDocument) error {
	if doc == nil {
		return nil
	}
	for _, def := range doc.Collections {
		if err := r.Register(def); err != nil {
			return fmt.Errorf("manifest %s: %w", doc.Source, err)
		}
	}
	return nil
}

// LoadManifestFile reads a manifest from disk and registers it.
func (r *Registry) LoadManifestFile(path string) (*ManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
