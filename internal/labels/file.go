package labels

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/shortform/internal/debug"
	sferrors "github.com/standardbeagle/shortform/internal/errors"
	"github.com/standardbeagle/shortform/internal/types"
)

// FileSource serves the entities of a TOML or YAML label file. Reload
// re-reads the file and only re-parses it when its content changed.
type FileSource struct {
	path     string
	format   Format
	prefixes types.PrefixMap
	mem      *MemorySource

	mu       sync.Mutex // serialises reloads
	hash     uint64     // xxhash of the last parsed content
	loaded   bool
	onReload []func(entities int)
}

var _ Source = (*FileSource)(nil)

// NewFileSource opens and parses path.
func NewFileSource(path string, prefixes types.PrefixMap) (*FileSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, sferrors.NewLabelSourceError("open", path, err)
	}
	format, err := FormatFromPath(abs)
	if err != nil {
		return nil, sferrors.NewLabelSourceError("open", path, err)
	}

	fs := &FileSource{
		path:     abs,
		format:   format,
		prefixes: prefixes,
		mem:      NewMemorySource(),
	}
	if _, err := fs.Reload(); err != nil {
		return nil, err
	}
	return fs, nil
}

// Path returns the absolute file path.
func (fs *FileSource) Path() string { return fs.path }

// Hash returns the xxhash of the content currently served.
func (fs *FileSource) Hash() uint64 {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.hash
}

// OnReload registers a callback run after every reload that changed the
// served content.
func (fs *FileSource) OnReload(fn func(entities int)) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.onReload = append(fs.onReload, fn)
}

// Reload re-reads the file. It reports whether the content changed; an
// identical file is not parsed again. On error the previous content stays
// in place.
func (fs *FileSource) Reload() (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.path)
	if err != nil {
		return false, sferrors.NewLabelSourceError("load", fs.path, err)
	}

	hash := xxhash.Sum64(data)
	if fs.loaded && hash == fs.hash {
		debug.LogLabels("%s unchanged (hash %016x)\n", fs.path, hash)
		return false, nil
	}

	if err := validateLabelData(data); err != nil {
		return false, sferrors.NewLabelSourceError("load", fs.path, err)
	}
	entities, err := Decode(data, fs.format, fs.prefixes)
	if err != nil {
		return false, sferrors.NewLabelSourceError("load", fs.path, err)
	}

	fs.mem.Replace(entities)
	fs.hash = hash
	fs.loaded = true
	debug.LogLabels("loaded %d entities from %s (hash %016x)\n", len(entities), fs.path, hash)

	for _, fn := range fs.onReload {
		fn(len(entities))
	}
	return true, nil
}

// ShortForms returns the snapshot of entity.
func (fs *FileSource) ShortForms(ctx context.Context, entity types.EntityID) (types.EntityShortForms, error) {
	esf, err := fs.mem.ShortForms(ctx, entity)
	if errors.Is(err, sferrors.ErrEntityNotFound) {
		return types.EntityShortForms{}, sferrors.NewLabelSourceError("lookup", fs.path, sferrors.ErrEntityNotFound).
			WithEntity(string(entity))
	}
	return esf, err
}

// Entities lists the entities in file order.
func (fs *FileSource) Entities(ctx context.Context) ([]types.EntityID, error) {
	return fs.mem.Entities(ctx)
}

// Snapshot returns every entity's short forms in file order.
func (fs *FileSource) Snapshot() []types.EntityShortForms {
	return fs.mem.Snapshot()
}
