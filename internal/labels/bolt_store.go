package labels

import (
	"context"
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"

	"github.com/standardbeagle/shortform/internal/debug"
	sferrors "github.com/standardbeagle/shortform/internal/errors"
	"github.com/standardbeagle/shortform/internal/types"
)

var shortFormBucket = []byte("short_forms")

// storedEntity is the JSON value kept per entity key.
type storedEntity struct {
	Entity  types.EntityID         `json:"entity"`
	Entries []types.ShortFormEntry `json:"entries"`
}

// BoltStore persists short forms in a bolt database, one JSON value per
// entity IRI. Entities are listed in key order.
type BoltStore struct {
	db   *bolt.DB
	path string
}

var _ Source = (*BoltStore)(nil)

// OpenBoltStore opens or creates the database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, sferrors.NewLabelSourceError("open", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(shortFormBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, sferrors.NewLabelSourceError("open", path, err)
	}
	return &BoltStore{db: db, path: path}, nil
}

// Path returns the database file.
func (s *BoltStore) Path() string { return s.path }

// Put stores esf, replacing any earlier snapshot of the entity.
func (s *BoltStore) Put(ctx context.Context, esf types.EntityShortForms) error {
	return s.PutAll(ctx, []types.EntityShortForms{esf})
}

// PutAll stores all entities in one transaction.
func (s *BoltStore) PutAll(ctx context.Context, entities []types.EntityShortForms) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(shortFormBucket)
		for _, esf := range entities {
			value, err := json.Marshal(storedEntity{Entity: esf.Entity(), Entries: esf.Entries()})
			if err != nil {
				return err
			}
			if err := b.Put([]byte(esf.Entity()), value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return sferrors.NewLabelSourceError("store", s.path, err)
	}
	debug.LogLabels("stored %d entities in %s\n", len(entities), s.path)
	return nil
}

// Delete removes entity. Deleting an unknown entity is not an error.
func (s *BoltStore) Delete(ctx context.Context, entity types.EntityID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(shortFormBucket).Delete([]byte(entity))
	})
	if err != nil {
		return sferrors.NewLabelSourceError("delete", s.path, err).WithEntity(string(entity))
	}
	return nil
}

// ShortForms loads the snapshot of entity.
func (s *BoltStore) ShortForms(ctx context.Context, entity types.EntityID) (types.EntityShortForms, error) {
	if err := ctx.Err(); err != nil {
		return types.EntityShortForms{}, err
	}

	var stored storedEntity
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(shortFormBucket).Get([]byte(entity))
		if value == nil {
			return nil
		}
		found = true
		// value is only valid inside the transaction
		return json.Unmarshal(value, &stored)
	})
	if err != nil {
		return types.EntityShortForms{}, sferrors.NewLabelSourceError("lookup", s.path, err).WithEntity(string(entity))
	}
	if !found {
		return types.EntityShortForms{}, sferrors.NewLabelSourceError("lookup", s.path, sferrors.ErrEntityNotFound).
			WithEntity(string(entity))
	}

	esf := types.NewEntityShortForms(stored.Entity)
	for _, e := range stored.Entries {
		esf = esf.With(e.Language, e.ShortForm)
	}
	return esf, nil
}

// Entities lists the stored entities in key order.
func (s *BoltStore) Entities(ctx context.Context) ([]types.EntityID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []types.EntityID
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(shortFormBucket).ForEach(func(k, _ []byte) error {
			out = append(out, types.EntityID(k))
			return nil
		})
	})
	if err != nil {
		return nil, sferrors.NewLabelSourceError("list", s.path, err)
	}
	return out, nil
}

// Close releases the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
