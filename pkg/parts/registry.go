// Package parts holds what the reducer and emitter know about part types:
// which pins a passive relays across, whether it is resistive, and how pin
// descriptions translate to constraint names and I/O standards.
package parts

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/OpenTraceLab/ucfgen/pkg/model"
)

//go:embed families/*.yaml
var builtinFamilies embed.FS

// Handler is everything registered for one part type.
type Handler struct {
	PassThrough PassThrough // nil: relays nothing
	Resistive   bool        // pulls through this part carry a resistance
	Semantics   *Family     // nil: no pin semantics
}

// Registry maps part type names to handlers. It is safe for concurrent
// readers once loaded.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Default returns a registry with the built-in pass-through rules and the
// embedded semantics families.
func Default() (*Registry, error) {
	r := NewRegistry()
	for name, h := range builtinPassThrough() {
		r.handlers[name] = h
	}
	entries, err := fs.ReadDir(builtinFamilies, "families")
	if err != nil {
		return nil, fmt.Errorf("parts: read built-in families: %w", err)
	}
	for _, e := range entries {
		data, err := builtinFamilies.ReadFile(path.Join("families", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("parts: read %s: %w", e.Name(), err)
		}
		families, err := ParseFamiliesBytes(data)
		if err != nil {
			return nil, fmt.Errorf("parts: %s: %w", e.Name(), err)
		}
		for _, f := range families {
			r.AddFamily(f)
		}
	}
	return r, nil
}

// SetPassThrough registers or replaces the pass-through rule of a part type.
func (r *Registry) SetPassThrough(part string, rule PassThrough, resistive bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.handlers[part]
	h.PassThrough = rule
	h.Resistive = resistive
	r.handlers[part] = h
}

// AddFamily registers a semantics family under its part name and aliases,
// replacing any family already registered there.
func (r *Registry) AddFamily(f *Family) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range append([]string{f.Part}, f.Aliases...) {
		h := r.handlers[name]
		h.Semantics = f
		r.handlers[name] = h
	}
}

// Handler returns the handler registered for a part type.
func (r *Registry) Handler(part string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[part]
	return h, ok
}

// Families returns the part names that carry semantics, sorted.
func (r *Registry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for name, h := range r.handlers {
		if h.Semantics != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ConnectedPin returns the pin on the other side of a relaying part. ok is
// false for part types without a rule and for pins that relay nothing.
func (r *Registry) ConnectedPin(part string, pin model.PinID) (model.PinID, bool, error) {
	h, _ := r.Handler(part)
	if h.PassThrough == nil {
		return model.PinID{}, false, nil
	}
	return h.PassThrough(pin)
}

// IsResistive reports whether pulls through the part type carry a
// resistance value.
func (r *Registry) IsResistive(part string) bool {
	h, _ := r.Handler(part)
	return h.Resistive
}

// HasSemantics reports whether the part type has a semantics family.
func (r *Registry) HasSemantics(part string) bool {
	h, _ := r.Handler(part)
	return h.Semantics != nil
}

// Resolve translates a pin of part into its signal. A part type without a
// family, or a description no rule covers, is an
// UnresolvedPinSemanticsError.
func (r *Registry) Resolve(part *model.Part, pin model.PinID) (Signal, error) {
	def, ok := part.Pins[pin]
	if !ok {
		return Signal{}, unresolved(part, pin, "", "pin not defined by part")
	}
	h, _ := r.Handler(part.Name)
	if h.Semantics == nil {
		return Signal{}, unresolved(part, pin, def.Description, "no semantics family for part type")
	}
	sig, ok := h.Semantics.Resolve(def.Description)
	if !ok {
		return Signal{}, unresolved(part, pin, def.Description, "no rule matches description")
	}
	return sig, nil
}

// NameTemplate returns the signal name template of a pin. ok is false for
// pins that need no constraint.
func (r *Registry) NameTemplate(part *model.Part, pin model.PinID) (string, bool, error) {
	sig, err := r.Resolve(part, pin)
	if err != nil || sig.None {
		return "", false, err
	}
	return sig.Name, true, nil
}

// IOStandard returns the electrical standard of a pin. ok is false for pins
// that need no constraint.
func (r *Registry) IOStandard(part *model.Part, pin model.PinID) (string, bool, error) {
	sig, err := r.Resolve(part, pin)
	if err != nil || sig.None {
		return "", false, err
	}
	return sig.IOStandard, true, nil
}

// LoadFiles parses the given YAML files and adds every family they hold.
func (r *Registry) LoadFiles(paths ...string) error {
	for _, p := range paths {
		if err := r.loadFile(p); err != nil {
			return err
		}
	}
	return nil
}

// LoadDir recursively loads all .yaml/.yml files below root, in lexical
// path order.
func (r *Registry) LoadDir(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !isFamilyFile(p) {
			return nil
		}
		return r.loadFile(p)
	})
}

// Load accepts a mix of files and directories.
func (r *Registry) Load(paths ...string) error {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("parts: %w", err)
		}
		if info.IsDir() {
			err = r.LoadDir(p)
		} else {
			err = r.loadFile(p)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) loadFile(p string) error {
	f, err := os.Open(p)
	if err != nil {
		return fmt.Errorf("parts: open %s: %w", p, err)
	}
	defer f.Close()
	families, err := ParseFamilies(f)
	if err != nil {
		return fmt.Errorf("parts: %s: %w", p, err)
	}
	for _, fam := range families {
		r.AddFamily(fam)
	}
	return nil
}

func isFamilyFile(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
