// Package cities provides an immutable table of city facts and the
// city_info tool that looks them up.
package cities

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed cities.yaml
var defaultData []byte

// City is one record of the table.
type City struct {
	Name        string `yaml:"name"`
	Country     string `yaml:"country"`
	Population  string `yaml:"population"`
	Area        string `yaml:"area"`
	Coordinates string `yaml:"coordinates"`
	Info        string `yaml:"info"`
}

// Table is an immutable, case-insensitive city lookup table.
type Table struct {
	cities map[string]City
	keys   []string
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table built from the embedded cities.yaml.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(defaultData)
		if err != nil {
			panic(fmt.Sprintf("cities: embedded table: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// Parse builds a table from a YAML document with a top-level cities list.
// Unknown fields are rejected.
func Parse(data []byte) (*Table, error) {
	var doc struct {
		Cities []City `yaml:"cities"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("cities: parse: %w", err)
	}
	return NewTable(doc.Cities...)
}

// NewTable builds a table from records. Names are normalized to lowercase;
// empty and duplicate names are errors.
func NewTable(records ...City) (*Table, error) {
	t := &Table{cities: make(map[string]City, len(records))}
	for _, c := range records {
		key := normalize(c.Name)
		if key == "" {
			return nil, errors.New("cities: record with empty name")
		}
		if _, dup := t.cities[key]; dup {
			return nil, fmt.Errorf("cities: duplicate city %q", key)
		}
		c.Name = key
		t.cities[key] = c
		t.keys = append(t.keys, key)
	}
	sort.Strings(t.keys)
	return t, nil
}

// normalize trims, composes and lowercases a city name.
func normalize(name string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(strings.TrimSpace(name)))
}

// Len returns the number of cities.
func (t *Table) Len() int {
	return len(t.cities)
}

// Names returns the lowercase city names, sorted.
func (t *Table) Names() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Lookup finds a city by name, ignoring case and surrounding whitespace.
func (t *Table) Lookup(name string) (City, bool) {
	c, ok := t.cities[normalize(name)]
	return c, ok
}

// Describe formats the record for name, or a not-found message that quotes
// the input unchanged. It is total.
func (t *Table) Describe(name string) string {
	c, ok := t.Lookup(name)
	if !ok {
		return fmt.Sprintf("Information for '%s' was not found in the database.", name)
	}

	title := cases.Title(language.Und).String(strings.TrimSpace(name))
	var b strings.Builder
	fmt.Fprintf(&b, "Information about %s:\n", title)
	fmt.Fprintf(&b, "• Country: %s\n", c.Country)
	fmt.Fprintf(&b, "• Population: %s\n", c.Population)
	fmt.Fprintf(&b, "• Area: %s\n", c.Area)
	fmt.Fprintf(&b, "• Coordinates: %s\n", c.Coordinates)
	fmt.Fprintf(&b, "• Additional info: %s", c.Info)
	return b.String()
}
