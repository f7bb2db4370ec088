package store

import (
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// Bucket names. Each bucket maps string keys to JSON blobs holding a whole
// collection; there is no schema version field and no migration path.
const (
	BucketCatalog  = "catalog"
	BucketCarts    = "carts"
	BucketSettings = "settings"
)

// Catalog collection keys, one per collection.
const (
	KeyProducts      = "casadobolo_products"
	KeyNeighborhoods = "casadobolo_neighborhoods"
	KeyCities        = "casadobolo_cities"
	KeyCategories    = "casadobolo_categories"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Storage is a thin key -> JSON blob layer over a bbolt datafile.
type Storage struct {
	db *bolt.DB
}

// Open opens (creating if needed) the datafile and ensures all buckets exist.
func Open(path string) (*Storage, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open storage")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{BucketCatalog, BucketCarts, BucketSettings} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init storage buckets")
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// Load reads and decodes a value. A missing key or a corrupt blob both
// report false: unreadable data is treated as absent, never surfaced.
func (s *Storage) Load(bucket, key string, out interface{}) bool {
	var raw []byte
	_ = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			raw = append(raw, v...)
		}
		return nil
	})
	if raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		zap.S().Debugf("storage: discarding unreadable blob %s/%s: %v", bucket, key, err)
		return false
	}
	return true
}

// Save serializes and writes a value under bucket/key.
func (s *Storage) Save(bucket, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s/%s", bucket, key)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Put([]byte(key), raw)
	})
	return errors.Wrapf(err, "write %s/%s", bucket, key)
}

// Delete removes a key. Missing keys are a no-op.
func (s *Storage) Delete(bucket, key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Delete([]byte(key))
	})
	return errors.Wrapf(err, "delete %s/%s", bucket, key)
}

// ForEach walks all keys of a bucket with their raw blobs.
func (s *Storage) ForEach(bucket string, fn func(key string, raw []byte) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			return fn(string(k), v)
		})
	})
}

// Backup writes a consistent snapshot of the datafile to path.
func (s *Storage) Backup(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create backup file")
	}
	defer f.Close()
	err = s.db.View(func(tx *bolt.Tx) error {
		_, werr := tx.WriteTo(f)
		return werr
	})
	return errors.Wrap(err, "write backup")
}
