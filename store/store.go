// seehuhn.de/go/mask - raster mask editing
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package store persists labelling jobs in a badger database.
//
// Each job is kept under its own key prefix:
//
//	job/<name>/meta             scene and next object id
//	job/<name>/appearance       display settings
//	job/<name>/object/<id>      one record per mask object
//
// All values are JSON. Regions are stored in run-length encoded form, see
// [region.EncodeRLE].
package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"seehuhn.de/go/mask/annotation"
)

var (
	// ErrJobNotFound is returned when loading a job which was never saved.
	ErrJobNotFound = errors.New("job not found")

	// ErrCorrupt is returned when stored data cannot be decoded.
	ErrCorrupt = errors.New("corrupt job data")
)

// Config configures a Store.
type Config struct {
	// Path is the database directory. It is required unless InMemory is set.
	Path string

	// InMemory keeps all data in memory.
	InMemory bool

	// SyncWrites makes every save durable before it returns.
	SyncWrites bool

	// Logger receives the internal messages of the database.
	// If nil, these are discarded.
	Logger *slog.Logger
}

// DefaultConfig returns the configuration for an on-disk store.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		SyncWrites: true,
	}
}

// InMemoryConfig returns the configuration for a store without files.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Store keeps labelling jobs. It is safe for concurrent use.
type Store struct {
	db  *badger.DB
	log *slog.Logger
}

// Open opens or creates a store.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("store path is required")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, errors.Wrapf(err, "create store directory %s", cfg.Path)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	log := cfg.Logger
	if log != nil {
		opts = opts.WithLogger(&badgerLogger{logger: log})
	} else {
		opts = opts.WithLogger(nil)
		log = slog.New(slog.DiscardHandler)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open store")
	}
	return &Store{db: db, log: log}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

func jobPrefix(job string) string {
	return "job/" + job + "/"
}

func metaKey(job string) []byte {
	return []byte(jobPrefix(job) + "meta")
}

func appearanceKey(job string) []byte {
	return []byte(jobPrefix(job) + "appearance")
}

func objectPrefix(job string) []byte {
	return []byte(jobPrefix(job) + "object/")
}

func objectKey(job string, id int) []byte {
	return fmt.Appendf(objectPrefix(job), "%010d", id)
}

func checkJob(job string) error {
	if job == "" || strings.Contains(job, "/") {
		return errors.Errorf("invalid job name %q", job)
	}
	return nil
}

// Save replaces the stored state of a job by snap.
// Either all of snap is stored or, if an error is returned, nothing.
func (s *Store) Save(ctx context.Context, job string, snap annotation.Snapshot) error {
	if err := checkJob(job); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "save")
	}

	metaData, err := marshal(meta{Scene: snap.Scene, NextID: snap.NextID})
	if err != nil {
		return err
	}
	appData, err := marshal(snap.Appearance)
	if err != nil {
		return err
	}
	objData := make([][]byte, len(snap.Objects))
	for i, obj := range snap.Objects {
		objData[i], err = marshal(NewRecord(obj))
		if err != nil {
			return errors.Wrapf(err, "object %d", obj.ID)
		}
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := deletePrefix(txn, objectPrefix(job)); err != nil {
			return err
		}
		if err := txn.Set(metaKey(job), metaData); err != nil {
			return err
		}
		if err := txn.Set(appearanceKey(job), appData); err != nil {
			return err
		}
		for i, obj := range snap.Objects {
			if err := txn.Set(objectKey(job, obj.ID), objData[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "save job %q", job)
	}
	s.log.Debug("job saved", "job", job, "objects", len(snap.Objects))
	return nil
}

func deletePrefix(txn *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, key := range keys {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// Load returns the stored state of a job.
func (s *Store) Load(ctx context.Context, job string) (annotation.Snapshot, error) {
	if err := checkJob(job); err != nil {
		return annotation.Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return annotation.Snapshot{}, errors.Wrap(err, "load")
	}

	var snap annotation.Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		var m meta
		if err := get(txn, metaKey(job), &m); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return errors.Wrapf(ErrJobNotFound, "%q", job)
			}
			return err
		}
		snap.Scene = m.Scene
		snap.NextID = m.NextID

		snap.Appearance = annotation.DefaultAppearance
		err := get(txn, appearanceKey(job), &snap.Appearance)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		prefix := objectPrefix(job)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec Record
			err := it.Item().Value(func(val []byte) error {
				return unmarshal(val, &rec)
			})
			if err != nil {
				return errors.Wrapf(err, "key %s", it.Item().Key())
			}
			obj, err := rec.Object(snap.Scene.Bounds())
			if err != nil {
				return errors.Wrap(ErrCorrupt, err.Error())
			}
			snap.Objects = append(snap.Objects, obj)
		}
		return nil
	})
	if err != nil {
		return annotation.Snapshot{}, errors.Wrapf(err, "load job %q", job)
	}
	s.log.Debug("job loaded", "job", job, "objects", len(snap.Objects))
	return snap, nil
}

func get(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshal(val, v)
	})
}

// Jobs returns the names of all stored jobs, in sorted order.
func (s *Store) Jobs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "list jobs")
	}
	var jobs []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte("job/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			name, rest, ok := strings.Cut(string(it.Item().Key()[len(prefix):]), "/")
			if ok && rest == "meta" {
				jobs = append(jobs, name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "list jobs")
	}
	slices.Sort(jobs)
	return jobs, nil
}

// Delete removes a job from the store.
func (s *Store) Delete(ctx context.Context, job string) error {
	if err := checkJob(job); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "delete")
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return deletePrefix(txn, []byte(jobPrefix(job)))
	})
	if err != nil {
		return errors.Wrapf(err, "delete job %q", job)
	}
	return nil
}

// badgerLogger forwards the messages of the database to slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
