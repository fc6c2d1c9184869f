// Package storage persists resumes, the working copy and user settings on top
// of an opaque key-value store.
package storage

import (
	"context"
	"errors"
)

// KV is the byte-level store the gateway is built on.
type KV interface {
	// Get returns the value for key. ok is false when key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lists keys starting with prefix in lexical order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Available reports whether the store can currently be written.
	Available(ctx context.Context) bool
}

var (
	// ErrUnavailable is returned by writes when the store is disabled.
	ErrUnavailable = errors.New("storage: store is not available")
	// ErrNotFound is returned when a saved resume does not exist.
	ErrNotFound = errors.New("storage: resume not found")
	// ErrCorruptIndex is returned by writes when the saved index cannot be
	// decoded. The index is left untouched.
	ErrCorruptIndex = errors.New("storage: resume index is unreadable")
)

type unavailable struct{}

// Unavailable returns a KV that models a store disabled by the host: reads
// find nothing and writes fail with ErrUnavailable.
func Unavailable() KV {
	return unavailable{}
}

func (unavailable) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (unavailable) Set(context.Context, string, []byte) error         { return ErrUnavailable }
func (unavailable) Delete(context.Context, string) error              { return ErrUnavailable }
func (unavailable) Keys(context.Context, string) ([]string, error)    { return nil, nil }
func (unavailable) Available(context.Context) bool                    { return false }
