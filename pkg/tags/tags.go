// Package tags provides the HTML5 tag tables consulted by the tree builder
// and the renderer.
package tags

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
)

//go:embed data/*.txt
var builtin embed.FS

// Built-in list file names inside the embedded data directory.
const (
	standardFile            = "data/standard.txt"
	selfClosingFile         = "data/selfclosing.txt"
	optionalSelfClosingFile = "data/optional-selfclosing.txt"
)

// Table names accepted by Tables.Lookup.
const (
	TableStandard            = "standard"
	TableSelfClosing         = "self-closing"
	TableOptionalSelfClosing = "optional"
)

// ErrUnknownTable is returned by Lookup for an unrecognised table name.
var ErrUnknownTable = errors.New("unknown tag table")

// Set is an immutable set of tag names.
type Set struct {
	names map[string]struct{}
}

// NewSet builds a set from names.
func NewSet(names ...string) Set {
	set := Set{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		set.names[name] = struct{}{}
	}
	return set
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of names in the set.
func (s Set) Len() int {
	return len(s.names)
}

// Names returns the sorted names in the set.
func (s Set) Names() []string {
	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Tables groups the three tag tables. A Tables value is read-only after
// construction and safe for concurrent use.
type Tables struct {
	// Standard lists every tag the renderer accepts.
	Standard Set
	// SelfClosing lists tags that must be written as `<name/>`.
	SelfClosing Set
	// OptionalSelfClosing lists tags that may also be written as `<name/>`.
	OptionalSelfClosing Set
}

// Lookup returns the table called name.
func (t *Tables) Lookup(name string) (Set, error) {
	switch name {
	case TableStandard:
		return t.Standard, nil
	case TableSelfClosing:
		return t.SelfClosing, nil
	case TableOptionalSelfClosing:
		return t.OptionalSelfClosing, nil
	default:
		return Set{}, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
}

// Parse reads a newline-delimited list. Lines are trimmed; blank lines and
// lines starting with '#' are ignored.
func Parse(r io.Reader) (Set, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return Set{}, fmt.Errorf("read tag list: %w", err)
	}
	return NewSet(names...), nil
}

// Load builds tables from three newline-delimited lists.
func Load(standard, selfClosing, optional io.Reader) (*Tables, error) {
	std, err := Parse(standard)
	if err != nil {
		return nil, fmt.Errorf("standard tags: %w", err)
	}
	self, err := Parse(selfClosing)
	if err != nil {
		return nil, fmt.Errorf("self-closing tags: %w", err)
	}
	opt, err := Parse(optional)
	if err != nil {
		return nil, fmt.Errorf("optional self-closing tags: %w", err)
	}
	return &Tables{Standard: std, SelfClosing: self, OptionalSelfClosing: opt}, nil
}

// Paths names user-supplied list files. An empty path selects the built-in
// list for that table.
type Paths struct {
	Standard            string
	SelfClosing         string
	OptionalSelfClosing string
}

// IsZero reports whether every table uses its built-in list.
func (p Paths) IsZero() bool {
	return p == Paths{}
}

// LoadFiles builds tables from the files named in paths.
func LoadFiles(paths Paths) (*Tables, error) {
	if paths.IsZero() {
		return Default(), nil
	}

	tables := *Default()
	for _, item := range []struct {
		path string
		dst  *Set
	}{
		{paths.Standard, &tables.Standard},
		{paths.SelfClosing, &tables.SelfClosing},
		{paths.OptionalSelfClosing, &tables.OptionalSelfClosing},
	} {
		if item.path == "" {
			continue
		}
		set, err := parseFile(item.path)
		if err != nil {
			return nil, err
		}
		*item.dst = set
	}
	return &tables, nil
}

func parseFile(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return Set{}, fmt.Errorf("open tag list: %w", err)
	}
	defer f.Close()

	set, err := Parse(f)
	if err != nil {
		return Set{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

//nolint:gochecknoglobals // Built-in tables are parsed once on first use.
var defaultTables = sync.OnceValue(func() *Tables {
	tables, err := loadBuiltin()
	if err != nil {
		panic(fmt.Sprintf("tags: embedded tables: %v", err))
	}
	return tables
})

// Default returns the built-in tables.
func Default() *Tables {
	return defaultTables()
}

func loadBuiltin() (*Tables, error) {
	std, err := builtin.Open(standardFile)
	if err != nil {
		return nil, err
	}
	defer std.Close()
	self, err := builtin.Open(selfClosingFile)
	if err != nil {
		return nil, err
	}
	defer self.Close()
	opt, err := builtin.Open(optionalSelfClosingFile)
	if err != nil {
		return nil, err
	}
	defer opt.Close()

	return Load(std, self, opt)
}
