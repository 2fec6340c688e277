package cache

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

const BUCKET_NAME = "pages"

type Cache interface {
	Get(key string) (string, bool)
	Put(key, value string) error
	Contains(key string) bool
	Len() int
}

type entry struct {
	StoredAt time.Time `json:"stored_at"`
	Value    string    `json:"value"`
}

// BoltCache is a persistent cache that uses BoltDB as the backend.
// Entries older than the TTL are treated as missing; a zero TTL never expires.
type BoltCache struct {
	db  *bolt.DB
	ttl time.Duration

	now func() time.Time
}

// NewBoltCache creates a new BoltCache instance with the given path.
// It is up to the caller to close the database when it is no longer needed.
func NewBoltCache(path string, ttl time.Duration) (*BoltCache, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open cache %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(BUCKET_NAME))
		return err
	})

	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create default bucket")
	}

	return &BoltCache{
		db:  db,
		ttl: ttl,
		now: time.Now,
	}, nil
}

func (c *BoltCache) Get(key string) (value string, exists bool) {
	c.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(BUCKET_NAME)).Get([]byte(key))
		if raw == nil {
			return nil
		}

		var e entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil
		}

		if c.ttl > 0 && c.now().Sub(e.StoredAt) > c.ttl {
			return nil
		}

		value, exists = e.Value, true
		return nil
	})

	return
}

func (c *BoltCache) Put(key, value string) error {
	raw, err := json.Marshal(entry{StoredAt: c.now(), Value: value})
	if err != nil {
		return err
	}

	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BUCKET_NAME)).Put([]byte(key), raw)
	})
}

func (c *BoltCache) Contains(key string) bool {
	_, exists := c.Get(key)
	return exists
}

// Len returns the number of stored entries, expired ones included.
func (c *BoltCache) Len() int {
	var count int
	c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BUCKET_NAME))
		count = b.Stats().KeyN
		return nil
	})

	return count
}

// Close closes the database.
func (c *BoltCache) Close() error {
	return c.db.Close()
}
