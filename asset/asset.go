// Package asset tracks externally stored data referenced by embed shapes.
//
// Fetching is supplied by the host through a Fetcher. The Resolver runs
// fetches off the event thread but only ever applies their results on it,
// and drops any result whose request has been superseded or cancelled.
package asset

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	// ErrNoFetcher is returned when a fetch is attempted without a Fetcher.
	ErrNoFetcher = errors.New("asset: no fetcher configured")

	// ErrInvalidKey is returned for storage keys a fetcher refuses to resolve.
	ErrInvalidKey = errors.New("asset: invalid storage key")

	// ErrNotFound is returned when an asset id is not in the store.
	ErrNotFound = errors.New("asset: not found")
)

// Kind describes what an asset's data decodes to.
type Kind string

const (
	KindTable  Kind = "table"
	KindFigure Kind = "figure"
)

// Asset is a reference to externally stored data. Shapes point at assets by
// ID and never embed the data itself.
type Asset struct {
	ID         string
	StorageKey string
	Kind       Kind
}

// FetchKey returns the key used to fetch the asset's data.
// A blank storage key means there is nothing to fetch.
func (a Asset) FetchKey() (string, bool) {
	key := strings.TrimSpace(a.StorageKey)
	return key, key != ""
}

// Fetcher resolves a storage key to decoded data. Implementations may block,
// fail, or never return; they must honor ctx cancellation.
type Fetcher interface {
	Fetch(ctx context.Context, storageKey string) (any, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, storageKey string) (any, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, storageKey string) (any, error) {
	return f(ctx, storageKey)
}

// Store owns the assets of a document, keyed by asset id.
type Store struct {
	mu     sync.RWMutex
	assets map[string]Asset
}

// NewStore creates an empty asset store.
func NewStore() *Store {
	return &Store{assets: make(map[string]Asset)}
}

// Put adds or replaces an asset.
func (s *Store) Put(a Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[a.ID] = a
}

// Get returns the asset with the given id.
func (s *Store) Get(id string) (Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assets[id]
	if !ok {
		return Asset{}, ErrNotFound
	}
	return a, nil
}

// Remove deletes an asset.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assets, id)
}

// Len returns the number of stored assets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assets)
}
