package asset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DirFetcher resolves storage keys to JSON files below Root.
type DirFetcher struct {
	Root string
}

// Fetch reads and decodes Root/storageKey. Keys that would escape Root are
// rejected with ErrInvalidKey.
func (f DirFetcher) Fetch(ctx context.Context, storageKey string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !filepath.IsLocal(storageKey) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, storageKey)
	}

	raw, err := os.ReadFile(filepath.Join(f.Root, storageKey))
	if err != nil {
		return nil, fmt.Errorf("asset: read %q: %w", storageKey, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("asset: decode %q: %w", storageKey, err)
	}
	return data, nil
}
