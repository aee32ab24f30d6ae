package topology

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ekisa-team/topology/internal/xfs"
)

// Registry stores loaded topology documents in load order.
type Registry struct {
	docs             []*Document
	outputDir        string
	rejectDuplicates bool
	indent           bool
	mu               sync.RWMutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithOutputDir sets the directory Save writes to. Defaults to the working directory.
func WithOutputDir(dir string) Option {
	return func(r *Registry) {
		r.outputDir = dir
	}
}

// WithRejectDuplicates makes Load and Add fail with ErrDuplicate when the id is already loaded.
func WithRejectDuplicates(reject bool) Option {
	return func(r *Registry) {
		r.rejectDuplicates = reject
	}
}

// WithIndent makes Save write indented JSON.
func WithIndent(indent bool) Option {
	return func(r *Registry) {
		r.indent = indent
	}
}

// NewRegistry creates a new, empty topology registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		docs: []*Document{},
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Load reads and parses the JSON file at path and appends it to the registry.
func (r *Registry) Load(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	if err := r.Add(doc); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	id, _ := doc.ID()
	slog.Debug("Topology loaded", "path", path, "topology_id", id)

	return doc, nil
}

// LoadDir loads every *.json file in dir in lexical order.
// Files that fail to load are skipped; their errors are joined into the result.
func (r *Registry) LoadDir(ctx context.Context, dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("load dir %s: %w", dir, err)
	}
	slices.Sort(paths)

	var (
		loaded int
		errs   []error
	)
	for _, path := range paths {
		if xfs.IsHidden(path) {
			continue
		}
		if _, err := r.Load(ctx, path); err != nil {
			if ctx.Err() != nil {
				return loaded, ctx.Err()
			}
			errs = append(errs, err)
			continue
		}
		loaded++
	}

	return loaded, errors.Join(errs...)
}

// Add appends an already decoded document to the registry.
func (r *Registry) Add(doc *Document) error {
	if doc == nil || doc.value == nil {
		return fmt.Errorf("%w: document is null", ErrParse)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rejectDuplicates {
		if id, ok := doc.ID(); ok && r.indexOf(id) >= 0 {
			return fmt.Errorf("%w: %s", ErrDuplicate, id)
		}
	}

	r.docs = append(r.docs, doc)
	return nil
}

// Get returns the first document with the given id.
func (r *Registry) Get(id string) (*Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, false
	}

	return r.docs[idx], true
}

// Save writes the first document with the given id to <id>.json in the output directory.
// It returns the path that was written.
func (r *Registry) Save(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, ok := r.Get(id)
	if !ok {
		return "", fmt.Errorf("save %q: %w", id, ErrNotFound)
	}

	if !validFileName(id) {
		return "", fmt.Errorf("save %q: %w: id is not a valid file name", id, ErrWrite)
	}

	var (
		data []byte
		err  error
	)
	if r.indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return "", fmt.Errorf("save %q: %w: %w", id, ErrWrite, err)
	}

	path := filepath.Join(r.outputDir, id+".json")
	if err := xfs.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save %q: %w: %w", id, ErrWrite, err)
	}

	slog.Debug("Topology saved", "topology_id", id, "path", path)
	return path, nil
}

// IDs returns the id of every loaded document in registry order.
// Documents without a string id are listed as "".
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.docs))
	for _, doc := range r.docs {
		id, _ := doc.ID()
		ids = append(ids, id)
	}

	return ids
}

// Len returns the number of loaded documents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.docs)
}

// Delete removes the first document with the given id.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("delete %q: %w", id, ErrNotFound)
	}

	r.docs = slices.Delete(r.docs, idx, idx+1)
	return nil
}

// Devices returns the type/id of every component of the topology, in component order.
// Non-object entries of the components array are not devices and are left out.
// An unknown topology yields an empty slice and ErrNotFound.
func (r *Registry) Devices(id string) ([]Device, error) {
	return r.devices(id, func(Component) bool { return true })
}

// DevicesOnNetlistNode returns the type/id of every component with at least one pin on node.
// An unknown topology yields an empty slice and ErrNotFound.
func (r *Registry) DevicesOnNetlistNode(id, node string) ([]Device, error) {
	return r.devices(id, func(c Component) bool { return c.ConnectedTo(node) })
}

func (r *Registry) devices(id string, keep func(Component) bool) ([]Device, error) {
	doc, ok := r.Get(id)
	if !ok {
		return []Device{}, fmt.Errorf("devices of %q: %w", id, ErrNotFound)
	}

	devices := []Device{}
	for _, c := range doc.Components() {
		if keep(c) {
			devices = append(devices, c.Device())
		}
	}

	return devices, nil
}

// indexOf must be called with r.mu held.
func (r *Registry) indexOf(id string) int {
	return slices.IndexFunc(r.docs, func(doc *Document) bool {
		return doc.matches(id)
	})
}

func validFileName(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}

	return !strings.ContainsAny(id, `/\`) && !strings.ContainsRune(id, 0)
}
