// Package store persists computed digests in a bbolt database.
package store

import (
	"encoding/json"
	"time"

	"RipeDigest/util"

	"github.com/decred/dcrwallet/errors/v2"
	"github.com/decred/slog"
	bolt "go.etcd.io/bbolt"
)

var log = slog.Disabled

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger slog.Logger) {
	log = logger
}

var digestBucket = []byte("digests")

// Record is a digest together with what was digested.
type Record struct {
	Key     string    `json:"key"`
	Digest  string    `json:"digest"`
	Size    int64     `json:"size"`
	Source  string    `json:"source,omitempty"`
	Created time.Time `json:"created"`
}

// DB is a digest cache keyed by Record.Key.
type DB struct {
	db *bolt.DB
}

// Open opens or creates the database at path.
func Open(path string) (*DB, error) {
	const op errors.Op = "store.Open"
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(digestBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.E(op, errors.IO, err)
	}
	log.Debugf("Opened digest store %s", path)
	return &DB{db: db}, nil
}

// Close closes the database.
func (s *DB) Close() error {
	return s.db.Close()
}

// Put stores r, replacing any record with the same key.
func (s *DB) Put(r *Record) error {
	const op errors.Op = "store.Put"
	if r.Key == "" {
		return errors.E(op, errors.Invalid, "empty key")
	}
	if r.Created.IsZero() {
		r.Created = util.CurrentTimeUTC()
	}
	v, err := json.Marshal(r)
	if err != nil {
		return errors.E(op, errors.Encoding, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(digestBucket).Put([]byte(r.Key), v)
	})
	if err != nil {
		return errors.E(op, errors.IO, err)
	}
	return nil
}

// Get returns the record stored under key. A missing key is a NotExist error.
func (s *DB) Get(key string) (*Record, error) {
	const op errors.Op = "store.Get"
	var r *Record
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(digestBucket).Get([]byte(key))
		if v == nil {
			return errors.E(op, errors.NotExist, errors.Errorf("no record %q", key))
		}
		r = new(Record)
		if err := json.Unmarshal(v, r); err != nil {
			return errors.E(op, errors.Encoding, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ForEach calls f for every record in key order until f returns an error.
func (s *DB) ForEach(f func(*Record) error) error {
	const op errors.Op = "store.ForEach"
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(digestBucket).ForEach(func(k, v []byte) error {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return errors.E(op, errors.Encoding, err)
			}
			return f(&r)
		})
	})
}
