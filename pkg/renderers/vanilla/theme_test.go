package vanilla

import (
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-tagger/pkg/renderers/vanilla/components"
)

func TestManifestSelector_Select(t *testing.T) {
	selector := NewManifestSelector("", DefaultManifest())

	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select default: %v", err)
	}
	if selection.Theme != DefaultThemeName || selection.Variant != "" {
		t.Fatalf("unexpected selection %+v", selection)
	}
	if _, err := selector.Select("missing", ""); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
	if _, err := selector.Select(DefaultThemeName, "sepia"); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}

func TestRendererConfigFrom_MergesVariant(t *testing.T) {
	manifest := &theme.Manifest{
		Name:      "acme",
		Version:   "1.0.0",
		Tokens:    map[string]string{"brand": "#123456", "radius": "4px"},
		Templates: map[string]string{components.PartialSelect: "themes/acme/select.tmpl"},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files:  map[string]string{ThemeAssetStylesheet: "theme.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens:    map[string]string{"brand": "#654321"},
				Templates: map[string]string{components.PartialRadio: "themes/acme/dark/radio.tmpl"},
			},
		},
	}
	selection, err := NewManifestSelector("dark", manifest).Select("acme", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	cfg := RendererConfigFrom(selection)

	if cfg.CSSVars["--brand"] != "#654321" || cfg.CSSVars["--radius"] != "4px" {
		t.Fatalf("unexpected css vars %v", cfg.CSSVars)
	}
	if cfg.Partials[components.PartialSelect] == "" || cfg.Partials[components.PartialRadio] == "" {
		t.Fatalf("expected base and variant partials, got %v", cfg.Partials)
	}
	if got := cfg.AssetURL(ThemeAssetStylesheet); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", got)
	}
	if manifest.Tokens["brand"] != "#123456" {
		t.Fatalf("manifest tokens mutated")
	}
}

func TestRendererConfigFrom_Nil(t *testing.T) {
	if RendererConfigFrom(nil) != nil {
		t.Fatalf("expected nil config")
	}
}
