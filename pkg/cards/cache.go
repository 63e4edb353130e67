package cards

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type cacheFile struct {
	Series    string    `json:"series"`
	FetchedAt time.Time `json:"fetched_at"`
	Cards     []Card    `json:"cards"`
}

// ReadCache loads a card cache written by WriteCache. A missing file reports
// os.ErrNotExist through the wrapped error.
func ReadCache(path string) ([]Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cards: read cache: %w", err)
	}
	var entry cacheFile
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("cards: decode cache %s: %w", path, err)
	}
	return entry.Cards, nil
}

// WriteCache stores cards at path, replacing any previous cache. The file is
// written to a temporary sibling and renamed into place.
func WriteCache(path, series string, cards []Card, now time.Time) error {
	payload, err := json.Marshal(cacheFile{Series: series, FetchedAt: now.UTC(), Cards: cards})
	if err != nil {
		return fmt.Errorf("cards: encode cache: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cards: create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("cards: create temp cache: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("cards: write temp cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cards: close temp cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("cards: install cache: %w", err)
	}
	return nil
}
