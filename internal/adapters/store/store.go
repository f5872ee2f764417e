// Package store persists the dependency record of every command in a single
// JSON file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DependencyStore = (*Store)(nil)

// Store implements ports.DependencyStore.
//
// The file maps each command line to a {path: tag} object, plus a
// ".format_version" key. It is read on first use and written by Flush.
type Store struct {
	path   string
	logger ports.Logger
	lock   *fileLock

	mu      sync.Mutex
	loaded  bool
	dirty   bool
	records map[string]domain.Record
}

// Open locks the store at path. The file itself is not read until needed.
func Open(path string, logger ports.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	lock, err := acquireLock(domain.LockPath(path))
	if err != nil {
		return nil, err
	}

	return &Store{path: path, logger: logger, lock: lock}, nil
}

// Path is the location of the store file.
func (s *Store) Path() string {
	return s.path
}

// Get returns a copy of the record of command.
func (s *Store) Get(command string) (domain.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, false, err
	}

	record, ok := s.records[command]
	if !ok {
		return nil, false, nil
	}
	return maps.Clone(record), true, nil
}

// Put replaces the record of command.
func (s *Store) Put(command string, record domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}

	s.records[command] = maps.Clone(record)
	s.dirty = true
	return nil
}

// Records returns a copy of every record.
func (s *Store) Records() (map[string]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}

	out := make(map[string]domain.Record, len(s.records))
	for command, record := range s.records {
		out[command] = maps.Clone(record)
	}
	return out, nil
}

// Discard forgets the in-memory state. A later access reloads from disk.
func (s *Store) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = false
	s.dirty = false
	s.records = nil
}

// Flush writes the store if it changed since it was loaded.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded || !s.dirty {
		return nil
	}
	if err := s.write(); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Close flushes the store and releases its lock.
func (s *Store) Close() error {
	flushErr := s.Flush()
	lockErr := s.lock.release()
	return errors.Join(flushErr, lockErr)
}

func (s *Store) load() error {
	if s.loaded {
		return nil
	}

	records, err := s.read()
	if err != nil {
		return err
	}

	s.records = records
	s.loaded = true
	return nil
}

func (s *Store) read() (map[string]domain.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]domain.Record), nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read dependency store"), "path", s.path)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreCorrupt, "invalid JSON"), "path", s.path)
	}

	var version int
	if v, ok := raw[domain.FormatVersionKey]; ok {
		if err := json.Unmarshal(v, &version); err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrStoreCorrupt, "format version is not a number"), "path", s.path)
		}
	}
	if version != domain.FormatVersion {
		s.logger.Warn(fmt.Sprintf(
			"dependency store has format version %d, expected %d; rebuilding",
			version, domain.FormatVersion,
		))
		s.dirty = true
		return make(map[string]domain.Record), nil
	}
	delete(raw, domain.FormatVersionKey)

	records := make(map[string]domain.Record, len(raw))
	for command, body := range raw {
		var tags map[string]string
		if err := json.Unmarshal(body, &tags); err != nil {
			return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrStoreCorrupt, "entry is not an object"), "path", s.path), "command", command)
		}

		record := make(domain.Record, len(tags))
		for path, tag := range tags {
			entry, err := domain.ParseTag(tag)
			if err != nil {
				return nil, zerr.With(zerr.With(err, "path", s.path), "command", command)
			}
			record[path] = entry
		}
		records[command] = record
	}
	return records, nil
}

func (s *Store) write() error {
	doc := make(map[string]any, len(s.records)+1)
	for command, record := range s.records {
		tags := make(map[string]string, len(record))
		for path, entry := range record {
			tags[path] = entry.Tag()
		}
		doc[command] = tags
	}
	doc[domain.FormatVersionKey] = domain.FormatVersion

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // No-op once renamed

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := tmp.Chmod(domain.FilePerm); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}
