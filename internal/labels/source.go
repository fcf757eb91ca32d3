// Package labels supplies entity short forms to the matcher: an in-memory
// source, a TOML/YAML label file that can be watched for changes, and a
// persistent bolt store.
package labels

import (
	"context"
	"sync"

	sferrors "github.com/standardbeagle/shortform/internal/errors"
	"github.com/standardbeagle/shortform/internal/types"
)

// Source hands out immutable short-form snapshots per entity.
type Source interface {
	ShortForms(ctx context.Context, entity types.EntityID) (types.EntityShortForms, error)
	Entities(ctx context.Context) ([]types.EntityID, error)
}

// Collect fetches the short forms of ids, or of every entity of src when
// ids is empty.
func Collect(ctx context.Context, src Source, ids []types.EntityID) ([]types.EntityShortForms, error) {
	if len(ids) == 0 {
		all, err := src.Entities(ctx)
		if err != nil {
			return nil, err
		}
		ids = all
	}

	out := make([]types.EntityShortForms, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		esf, err := src.ShortForms(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, esf)
	}
	return out, nil
}

// MemorySource keeps snapshots in memory, in insertion order.
type MemorySource struct {
	mu    sync.RWMutex
	order []types.EntityID
	forms map[types.EntityID]types.EntityShortForms
}

var _ Source = (*MemorySource)(nil)

// NewMemorySource creates a source holding entities.
func NewMemorySource(entities ...types.EntityShortForms) *MemorySource {
	m := &MemorySource{forms: make(map[types.EntityID]types.EntityShortForms)}
	for _, esf := range entities {
		m.put(esf)
	}
	return m
}

// Put adds or replaces the snapshot of esf's entity.
func (m *MemorySource) Put(esf types.EntityShortForms) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(esf)
}

func (m *MemorySource) put(esf types.EntityShortForms) {
	id := esf.Entity()
	if _, ok := m.forms[id]; !ok {
		m.order = append(m.order, id)
	}
	m.forms[id] = esf
}

// Replace swaps the whole content for entities.
func (m *MemorySource) Replace(entities []types.EntityShortForms) {
	order := make([]types.EntityID, 0, len(entities))
	forms := make(map[types.EntityID]types.EntityShortForms, len(entities))
	for _, esf := range entities {
		id := esf.Entity()
		if _, ok := forms[id]; !ok {
			order = append(order, id)
		}
		forms[id] = esf
	}

	m.mu.Lock()
	m.order, m.forms = order, forms
	m.mu.Unlock()
}

// ShortForms returns the snapshot of entity.
func (m *MemorySource) ShortForms(ctx context.Context, entity types.EntityID) (types.EntityShortForms, error) {
	if err := ctx.Err(); err != nil {
		return types.EntityShortForms{}, err
	}
	m.mu.RLock()
	esf, ok := m.forms[entity]
	m.mu.RUnlock()
	if !ok {
		return types.EntityShortForms{}, sferrors.NewLabelSourceError("lookup", "", sferrors.ErrEntityNotFound).
			WithEntity(string(entity))
	}
	return esf, nil
}

// Entities lists the entities in insertion order.
func (m *MemorySource) Entities(ctx context.Context) ([]types.EntityID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.EntityID, len(m.order))
	copy(out, m.order)
	return out, nil
}

// Snapshot returns every entity's short forms in insertion order.
func (m *MemorySource) Snapshot() []types.EntityShortForms {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.EntityShortForms, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.forms[id])
	}
	return out
}

// Len returns the number of entities.
func (m *MemorySource) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}
