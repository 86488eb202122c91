package formatter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/hookx/internal/cart"
	"github.com/desertthunder/hookx/internal/models"
	"github.com/desertthunder/hookx/internal/shared"
	"gopkg.in/yaml.v3"
)

func testSnapshot() cart.Snapshot {
	items := []models.CartItem{
		{
			HookID:      "h1",
			HookTitle:   "Sunset | Loop",
			ArtistName:  "Artist One",
			Price:       10,
			LicenseType: models.NonExclusive,
			SellerID:    "s1",
			ImageURL:    "https://img/h1.png",
		},
		{
			HookID:      "h1",
			HookTitle:   "Sunset | Loop",
			ArtistName:  "Artist One",
			Price:       25.5,
			LicenseType: models.Exclusive,
			SellerID:    "s1",
		},
	}
	return cart.Snapshot{Items: items, ItemCount: 2, TotalPrice: 35.5}
}

func TestExporters(t *testing.T) {
	snap := testSnapshot()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(snap)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
		}
		if lines[0] != "Hook ID,Title,Artist,License,Price,Seller ID" {
			t.Errorf("unexpected header %q", lines[0])
		}
		if lines[2] != "h1,Sunset | Loop,Artist One,exclusive,25.5,s1" {
			t.Errorf("unexpected row %q", lines[2])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(snap)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Cart",
			"**Items**: 2",
			"**Total**: $35.50",
			`| 1 | ![](https://img/h1.png) Sunset \| Loop | Artist One | Non-exclusive | $10.00 |`,
			`| 2 | Sunset \| Loop | Artist One | Exclusive | $25.50 |`,
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToMarkdown Empty", func(t *testing.T) {
		data, _ := ExportToMarkdown(cart.Snapshot{Items: []models.CartItem{}})
		if !strings.Contains(string(data), "_The cart is empty._") {
			t.Errorf("expected empty notice, got:\n%s", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(snap)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Items: 2\nTotal: $35.50") {
			t.Errorf("Text missing summary, got:\n%s", output)
		}
		if !strings.Contains(output, "1. Artist One - Sunset | Loop [Non-exclusive] $10.00") {
			t.Errorf("Text missing first item, got:\n%s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(snap)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		decoded := shared.DecodeJSON[cart.Snapshot](string(data), true)
		if !decoded.OK() {
			t.Fatalf("JSON did not decode: %v", decoded.Err)
		}
		if decoded.Value.TotalPrice != 35.5 || len(decoded.Value.Items) != 2 {
			t.Errorf("unexpected decoded snapshot %+v", decoded.Value)
		}
		if !strings.Contains(string(data), `"itemCount": 2`) {
			t.Errorf("expected camelCase keys, got:\n%s", data)
		}
	})

	t.Run("ExportToYAML", func(t *testing.T) {
		data, err := ExportToYAML(snap)
		if err != nil {
			t.Fatalf("ExportToYAML failed: %v", err)
		}

		var decoded cart.Snapshot
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("YAML did not decode: %v", err)
		}
		if decoded.ItemCount != 2 || decoded.Items[1].LicenseType != models.Exclusive {
			t.Errorf("unexpected decoded snapshot %+v", decoded)
		}
		if strings.Contains(string(data), "imageUrl: \"\"") {
			t.Error("empty image url should be omitted")
		}
	})
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		in   string
		want Format
	}{
		{"csv", CSV},
		{"MD", Markdown},
		{" markdown ", Markdown},
		{"txt", Text},
		{"json", JSON},
		{"yml", YAML},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, %v", tt.in, got, err)
			}
		})
	}

	if _, err := ParseFormat("pdf"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestWriteExport(t *testing.T) {
	snap := testSnapshot()

	t.Run("Every Format", func(t *testing.T) {
		dir := t.TempDir()
		for _, f := range Formats {
			path := filepath.Join(dir, "nested", "cart"+f.Ext())
			written, err := WriteExport(snap, f, path)
			if err != nil {
				t.Fatalf("%s: WriteExport failed: %v", f, err)
			}
			info, err := os.Stat(written)
			if err != nil || info.Size() == 0 {
				t.Errorf("%s: expected non-empty file at %s", f, written)
			}
		}
	})

	t.Run("Default Path", func(t *testing.T) {
		t.Chdir(t.TempDir())

		written, err := WriteExport(snap, Markdown, "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if written != "cart.md" {
			t.Errorf("expected cart.md, got %s", written)
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		_, err := WriteExport(snap, Format("pdf"), filepath.Join(t.TempDir(), "cart.pdf"))
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Unwritable Path", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := WriteExport(snap, CSV, filepath.Join(blocker, "cart.csv")); err == nil {
			t.Error("expected error writing beneath a regular file")
		}
	})
}
