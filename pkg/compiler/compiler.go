// Package compiler runs one html7 compile: lexing, tree building, rendering
// and assembly of the final document.
package compiler

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/yaklabco/html7/pkg/assemble"
	"github.com/yaklabco/html7/pkg/config"
	"github.com/yaklabco/html7/pkg/lexer"
	"github.com/yaklabco/html7/pkg/render"
	"github.com/yaklabco/html7/pkg/syntax"
	"github.com/yaklabco/html7/pkg/tags"
	"github.com/yaklabco/html7/pkg/tree"
)

// Options is the immutable per-invocation compile configuration.
type Options struct {
	Minify                   bool
	Indent                   string
	AllowOptionalSelfClosing bool
	Credits                  bool

	// HTMLAdd is the prepared html-add snippet.
	HTMLAdd string

	// Tables selects the tag tables. Nil means tags.Default().
	Tables *tags.Tables
}

// OptionsFromConfig derives compile options from a loaded configuration.
// htmlAdd is the raw html-add file content; it is prepared for the
// configured output mode here.
func OptionsFromConfig(cfg *config.Config, tables *tags.Tables, htmlAdd string) Options {
	return Options{
		Minify:                   cfg.MinifyEnabled(),
		Indent:                   cfg.Indent,
		AllowOptionalSelfClosing: cfg.OptionalSelfClosingAllowed(),
		Credits:                  cfg.CreditsEnabled(),
		HTMLAdd:                  assemble.PrepareHTMLAdd(htmlAdd, cfg.MinifyEnabled()),
		Tables:                   tables,
	}
}

// Compiler compiles html7 sources with fixed options.
type Compiler struct {
	opts  Options
	cache *Cache[string, syntax.ParsedSyntax]
}

// Option configures a Compiler.
type Option func(*Compiler)

// ResultCache holds successful compile results keyed by source content.
type ResultCache = Cache[string, syntax.ParsedSyntax]

// NewResultCache returns an empty result cache.
func NewResultCache(expiration, cleanup time.Duration) *ResultCache {
	return NewCache[string, syntax.ParsedSyntax](expiration, cleanup)
}

// WithCache memoises successful compiles in cache. Entries depend on the
// compiler's options, so a cache shared between compilers must be flushed
// whenever the options change.
func WithCache(cache *ResultCache) Option {
	return func(c *Compiler) {
		c.cache = cache
	}
}

// New returns a compiler.
func New(opts Options, options ...Option) *Compiler {
	if opts.Tables == nil {
		opts.Tables = tags.Default()
	}
	c := &Compiler{opts: opts}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Options returns the compile options.
func (c *Compiler) Options() Options {
	return c.opts
}

// Parse tokenizes src and builds the forest.
func (c *Compiler) Parse(src string) (syntax.Syntax, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return tree.Build(tokens, c.opts.Tables, tree.Options{
		AllowOptionalSelfClosing: c.opts.AllowOptionalSelfClosing,
	})
}

// Compile runs the whole pipeline. Errors are *diag.Error values.
func (c *Compiler) Compile(src string) (*syntax.ParsedSyntax, error) {
	var key string
	if c.cache != nil {
		key = contentKey(src)
		if cached, ok := c.cache.Get(key); ok {
			return &cached, nil
		}
	}

	forest, err := c.Parse(src)
	if err != nil {
		return nil, err
	}

	parsed, err := render.Render(forest, c.opts.Tables, render.Options{
		Minify: c.opts.Minify,
		Indent: c.opts.Indent,
	})
	if err != nil {
		return nil, err
	}

	assemble.Assemble(parsed, assemble.Options{
		Minify:  c.opts.Minify,
		Credits: c.opts.Credits,
		HTMLAdd: c.opts.HTMLAdd,
	})

	if c.cache != nil {
		c.cache.Set(key, *parsed)
	}
	return parsed, nil
}

// CacheStats returns cache hits and misses. Both are zero without a cache.
func (c *Compiler) CacheStats() (hits, misses int64) {
	if c.cache == nil {
		return 0, 0
	}
	return c.cache.Stats()
}

// Compile is a convenience wrapper for a single uncached compile.
func Compile(src string, opts Options) (*syntax.ParsedSyntax, error) {
	return New(opts).Compile(src)
}

func contentKey(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}
