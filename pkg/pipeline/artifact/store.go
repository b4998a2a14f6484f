// Package artifact provides the key/value store a pipeline uses to keep fitted state between runs.
package artifact

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
)

// ErrKeyNotFound is matched by every KeyNotFoundError.
var ErrKeyNotFound = errors.New("artifact not found")

// KeyNotFoundError is returned when an artifact lookup misses.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("%s: %q", ErrKeyNotFound.Error(), e.Key)
}

func (e *KeyNotFoundError) Unwrap() error { return ErrKeyNotFound }

// Store maps string keys to arbitrary values.
type Store struct {
	values map[string]any
	codec  Codec
}

// Option configures a Store.
type Option func(s *Store)

// WithCodec sets the codec used by Save and Load.
func WithCodec(codec Codec) Option {
	return func(s *Store) {
		s.codec = codec
	}
}

// NewStore creates an empty store. The default codec is GobCodec.
func NewStore(opts ...Option) *Store {
	s := &Store{
		values: make(map[string]any),
		codec:  GobCodec{},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (any, error) {
	v, ok := s.values[key]
	if !ok {
		return nil, &KeyNotFoundError{Key: key}
	}

	return v, nil
}

// Set stores value under key, overwriting any previous value.
func (s *Store) Set(key string, value any) {
	s.values[key] = value
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]

	return ok
}

// Keys returns the stored keys in lexical order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Len returns the number of artifacts.
func (s *Store) Len() int {
	return len(s.values)
}

// Save writes the whole store to wrt.
func (s *Store) Save(wrt io.Writer) error {
	err := s.codec.Encode(wrt, s.values)
	if err != nil {
		return errors.Wrap(err, "unable to encode artifacts")
	}

	return nil
}

// Load replaces the store content with the artifacts read from rdr.
// The store is left untouched if decoding fails.
func (s *Store) Load(rdr io.Reader) error {
	values, err := s.codec.Decode(rdr)
	if err != nil {
		return errors.Wrap(err, "unable to decode artifacts")
	}

	if values == nil {
		values = make(map[string]any)
	}

	s.values = values

	return nil
}

// SaveFile writes the store to the file at path, creating or truncating it.
func (s *Store) SaveFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", path)
	}

	err = s.Save(file)
	if err != nil {
		_ = file.Close()

		return err
	}

	err = file.Close()
	if err != nil {
		return errors.Wrapf(err, "unable to close file %s", path)
	}

	return nil
}

// LoadFile replaces the store content with the artifacts saved at path.
func (s *Store) LoadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "unable to open file %s", path)
	}
	defer file.Close()

	return s.Load(file)
}

// Get returns the value stored under key as a T.
func Get[T any](s *Store, key string) (T, error) {
	var zero T

	v, err := s.Get(key)
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, errors.Errorf("artifact %q is %T, not %T", key, v, zero)
	}

	return typed, nil
}
