package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLocale is used when a request carries no usable locale.
const DefaultLocale = "nl"

// Bundle holds the flat key→string tables for every supported locale.
type Bundle struct {
	tables map[string]map[string]string
}

// Load parses all embedded locale files. A file that fails to parse is a
// packaging error and aborts startup.
func Load() (*Bundle, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	tables := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		code := strings.TrimSuffix(entry.Name(), ".yaml")

		data, err := localeFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", code, err)
		}

		table := make(map[string]string)
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", code, err)
		}
		tables[code] = table
	}

	return &Bundle{tables: tables}, nil
}

// T resolves a key for the locale. A missing key or unknown locale falls
// back to the provided default string, never to an error.
func (b *Bundle) T(locale, key, fallback string) string {
	table, ok := b.tables[locale]
	if !ok {
		table, ok = b.tables[DefaultLocale]
		if !ok {
			return fallback
		}
	}
	if value, ok := table[key]; ok {
		return value
	}
	return fallback
}

// Table returns the whole key→string map for a locale, or nil when the
// locale is not supported.
func (b *Bundle) Table(locale string) map[string]string {
	return b.tables[locale]
}

// IsSupported reports whether the locale code has a bundle.
func (b *Bundle) IsSupported(locale string) bool {
	_, ok := b.tables[locale]
	return ok
}

// Locales lists the supported locale codes in sorted order.
func (b *Bundle) Locales() []string {
	codes := make([]string, 0, len(b.tables))
	for code := range b.tables {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
