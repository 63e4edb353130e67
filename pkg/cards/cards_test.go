package cards

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var sample = []Card{
	{ID: "sv1-1", ImageURL: "https://images.example/sv1/1_hires.png"},
	{ID: "sv1-2", ImageURL: "https://images.example/sv1/2_hires.png"},
	{ID: "sv2-7", ImageURL: "https://images.example/sv2/7_hires.png"},
}

type stubFetcher struct {
	cards  []Card
	err    error
	series []string
}

func (s *stubFetcher) FetchSeries(_ context.Context, series string) ([]Card, error) {
	s.series = append(s.series, series)
	return s.cards, s.err
}

func TestCatalog_EmptyIsUnavailable(t *testing.T) {
	if _, err := NewCatalog(nil, nil).DrawRandomCard(); !errors.Is(err, ErrCardUnavailable) {
		t.Fatalf("expected ErrCardUnavailable, got %v", err)
	}
	var nilCatalog *Catalog
	if _, err := nilCatalog.DrawRandomCard(); !errors.Is(err, ErrCardUnavailable) {
		t.Fatalf("expected ErrCardUnavailable from nil catalog, got %v", err)
	}
}

func TestCatalog_DrawsFromCollection(t *testing.T) {
	catalog := NewCatalog(sample, rand.New(rand.NewPCG(1, 2)))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		card, err := catalog.DrawRandomCard()
		if err != nil {
			t.Fatalf("draw: %v", err)
		}
		seen[card.ID] = true
	}
	if len(seen) != len(sample) {
		t.Fatalf("expected every card drawn at least once, saw %v", seen)
	}
}

func TestCache_WriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cards.json")
	if err := WriteCache(path, DefaultSeries, sample, time.Unix(0, 0)); err != nil {
		t.Fatalf("write cache: %v", err)
	}
	got, err := ReadCache(path)
	if err != nil {
		t.Fatalf("read cache: %v", err)
	}
	if diff := cmp.Diff(sample, got); diff != "" {
		t.Fatalf("cache mismatch (-want +got):\n%s", diff)
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	if len(matches) != 0 {
		t.Fatalf("temporary files left behind: %v", matches)
	}
}

func TestInitialize_UsesCacheWhenPresent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	if err := WriteCache(path, DefaultSeries, sample[:1], time.Now()); err != nil {
		t.Fatalf("write cache: %v", err)
	}
	fetcher := &stubFetcher{cards: sample}

	catalog, err := Initialize(context.Background(), WithCacheFile(path), WithFetcher(fetcher))
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if catalog.Len() != 1 {
		t.Fatalf("expected cached catalog, got %d cards", catalog.Len())
	}
	if len(fetcher.series) != 0 {
		t.Fatalf("fetcher called despite warm cache")
	}
}

func TestInitialize_FetchesAndWritesColdCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	fetcher := &stubFetcher{cards: sample}

	catalog, err := Initialize(context.Background(),
		WithCacheFile(path),
		WithSeries("Sword & Shield"),
		WithFetcher(fetcher),
	)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if catalog.Len() != len(sample) {
		t.Fatalf("expected %d cards, got %d", len(sample), catalog.Len())
	}
	if diff := cmp.Diff([]string{"Sword & Shield"}, fetcher.series); diff != "" {
		t.Fatalf("series mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected cache written: %v", err)
	}
}

func TestInitialize_RefreshIgnoresCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	if err := WriteCache(path, DefaultSeries, sample[:1], time.Now()); err != nil {
		t.Fatalf("write cache: %v", err)
	}
	catalog, err := Initialize(context.Background(),
		WithCacheFile(path),
		WithRefresh(true),
		WithFetcher(&stubFetcher{cards: sample}),
	)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if catalog.Len() != len(sample) {
		t.Fatalf("expected refreshed catalog, got %d cards", catalog.Len())
	}
}

func TestInitialize_ColdCacheWithoutFetcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	if _, err := Initialize(context.Background(), WithCacheFile(path)); !errors.Is(err, ErrCardUnavailable) {
		t.Fatalf("expected ErrCardUnavailable, got %v", err)
	}
}

func TestInitialize_FetchFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	boom := errors.New("upstream down")
	_, err := Initialize(context.Background(), WithCacheFile(path), WithFetcher(&stubFetcher{err: boom}))
	if !errors.Is(err, ErrCardUnavailable) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped upstream error, got %v", err)
	}
}
