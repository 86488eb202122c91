// package formatter exports cart snapshots to CSV, Markdown, plain text, JSON and YAML
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/hookx/internal/cart"
	"github.com/desertthunder/hookx/internal/shared"
	"gopkg.in/yaml.v3"
)

// Format names an export format.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
	JSON     Format = "json"
	YAML     Format = "yaml"
)

// Formats lists the supported formats in help-text order.
var Formats = []Format{CSV, Markdown, Text, JSON, YAML}

var aliases = map[string]Format{
	"csv":      CSV,
	"md":       Markdown,
	"markdown": Markdown,
	"txt":      Text,
	"text":     Text,
	"json":     JSON,
	"yml":      YAML,
	"yaml":     YAML,
}

// ParseFormat accepts format names and their common file extensions.
func ParseFormat(s string) (Format, error) {
	if f, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
}

// Ext returns the file extension used by [WriteExport].
func (f Format) Ext() string {
	switch f {
	case Markdown:
		return ".md"
	case Text:
		return ".txt"
	default:
		return "." + string(f)
	}
}

// ExportToCSV converts a cart snapshot to CSV with columns: Hook ID, Title, Artist, License, Price, Seller ID
func ExportToCSV(snap cart.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Hook ID", "Title", "Artist", "License", "Price", "Seller ID"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range snap.Items {
		record := []string{
			item.HookID,
			item.HookTitle,
			item.ArtistName,
			string(item.LicenseType),
			strconv.FormatFloat(item.Price, 'f', -1, 64),
			item.SellerID,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a cart snapshot to a Markdown table
func ExportToMarkdown(snap cart.Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Cart\n\n")
	buf.WriteString(fmt.Sprintf("**Items**: %d\n", snap.ItemCount))
	buf.WriteString(fmt.Sprintf("**Total**: %s\n\n", shared.FormatPrice(snap.TotalPrice)))

	if len(snap.Items) == 0 {
		buf.WriteString("_The cart is empty._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("| # | Hook | Artist | License | Price |\n")
	buf.WriteString("|---|------|--------|---------|-------|\n")
	for i, item := range snap.Items {
		title := escapeCell(item.HookTitle)
		if item.ImageURL != "" {
			title = fmt.Sprintf("![](%s) %s", item.ImageURL, title)
		}
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			i+1, title, escapeCell(item.ArtistName), item.LicenseType.Label(), shared.FormatPrice(item.Price)))
	}

	return buf.Bytes(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ExportToText converts a cart snapshot to plain text
func ExportToText(snap cart.Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Items: %d\n", snap.ItemCount))
	buf.WriteString(fmt.Sprintf("Total: %s\n\n", shared.FormatPrice(snap.TotalPrice)))

	for i, item := range snap.Items {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s] %s\n",
			i+1, item.ArtistName, item.HookTitle, item.LicenseType.Label(), shared.FormatPrice(item.Price)))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a cart snapshot to indented JSON
func ExportToJSON(snap cart.Snapshot) ([]byte, error) {
	return shared.MarshalJSON(snap, true)
}

// ExportToYAML converts a cart snapshot to YAML
func ExportToYAML(snap cart.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// Export renders snap in format.
func Export(snap cart.Snapshot, format Format) ([]byte, error) {
	switch format {
	case CSV:
		return ExportToCSV(snap)
	case Markdown:
		return ExportToMarkdown(snap)
	case Text:
		return ExportToText(snap)
	case JSON:
		return ExportToJSON(snap)
	case YAML:
		return ExportToYAML(snap)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport writes snap to path in format and returns the path written.
//
// Defaults to cart{ext} in the working directory. Parent directories are created as needed.
func WriteExport(snap cart.Snapshot, format Format, path string) (string, error) {
	if path == "" {
		path = "cart" + format.Ext()
	}

	data, err := Export(snap, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}
