package identity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Cache stores roster documents at <base>/<country>/<teamId>/<season>.json.
type Cache struct {
	base string
}

// NewCache creates a cache rooted at base.
func NewCache(base string) (*Cache, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("invalid cache dir: %w", err)
	}
	return &Cache{base: filepath.Clean(abs)}, nil
}

// Base returns the absolute cache root.
func (c *Cache) Base() string { return c.base }

// Path returns the cache file for a team season.
func (c *Cache) Path(t Team) string {
	return filepath.Join(c.base, t.Country, strconv.Itoa(t.TeamID), strconv.Itoa(t.Season)+".json")
}

// Exists reports whether the team season is cached.
func (c *Cache) Exists(t Team) bool {
	info, err := os.Stat(c.Path(t))
	return err == nil && info.Mode().IsRegular()
}

// Read returns the cached roster document.
func (c *Cache) Read(t Team) ([]byte, error) {
	data, err := os.ReadFile(c.Path(t))
	if err != nil {
		return nil, fmt.Errorf("failed to read cached roster for %s: %w", t, err)
	}
	return data, nil
}

// Write stores a roster document, indented.
func (c *Cache) Write(t Team, doc []byte) error {
	if !json.Valid(doc) {
		return errors.New("roster document is not valid JSON")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", "  "); err != nil {
		return err
	}
	path := c.Path(t)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
