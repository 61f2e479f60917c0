package compiler_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/html7/pkg/assemble"
	"github.com/yaklabco/html7/pkg/compiler"
	"github.com/yaklabco/html7/pkg/config"
	"github.com/yaklabco/html7/pkg/diag"
)

const page = `<!DOCTYPE html7>
<html>
	<head>
		<title>Home</title>
		<style>h1{color:red}</style>
	</head>
	<body>// greeting
		<h1>Hello</h1>
		<script>console.log("hi")</script>
	</body>
</html>
`

func TestCompile(t *testing.T) {
	t.Parallel()

	got, err := compiler.Compile(page, compiler.Options{Credits: true})
	require.NoError(t, err)

	want := strings.Join([]string{
		"<!DOCTYPE html>",
		assemble.Credits,
		"<html>",
		"\t<head>",
		"\t\t<title>",
		"\t\t\tHome",
		"\t\t</title>",
		"\t\t<style>",
		"\t\th1{color:red}",
		"\t\t</style>",
		"\t</head>",
		"\t<body>",
		"\t\t<h1>",
		"\t\t\tHello",
		"\t\t</h1>",
		"\t\t<script>",
		"\t\tconsole.log(\"hi\")",
		"\t\t</script>",
		"\t</body>",
		"</html>",
	}, "\n")
	assert.Equal(t, want, got.OutHTML)
	assert.Equal(t, "<style>\nh1{color:red}\n</style>", got.RawCSS)
}

func TestCompile_Minified(t *testing.T) {
	t.Parallel()

	got, err := compiler.Compile(page, compiler.Options{Minify: true})
	require.NoError(t, err)

	assert.Equal(t,
		`<!DOCTYPE html><html><head><title>Home</title><style>`+"\nh1{color:red}\n"+`</style></head>`+
			`<body><h1>Hello</h1><script>`+"\nconsole.log(\"hi\")\n"+`</script></body></html>`,
		got.OutHTML)
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		kind diag.Kind
	}{
		{name: "lexical", src: "<p><!-- open</p>", kind: diag.KindLexical},
		{name: "structural from builder", src: "<p><br></p>", kind: diag.KindStructural},
		{name: "structural from renderer", src: "<blink></blink>", kind: diag.KindStructural},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := compiler.Compile(tt.src, compiler.Options{})
			assert.Nil(t, got)

			var de *diag.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.kind, de.Kind)
		})
	}
}

func TestCompile_SlashesInText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "after a space", src: "<p> // x</p>", want: "<p>// x</p>"},
		{name: "on a line of its own", src: "<p>\nsee\n  // todo\n</p>", want: "<p>see\n  // todo</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := compiler.Compile(tt.src, compiler.Options{Minify: true})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.RawHTML)
		})
	}
}

func TestCompiler_Cache(t *testing.T) {
	t.Parallel()

	c := compiler.New(compiler.Options{}, compiler.WithCache(compiler.NewResultCache(time.Minute, time.Minute)))

	first, err := c.Compile(page)
	require.NoError(t, err)
	second, err := c.Compile(page)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotSame(t, first, second, "cached results are copies")

	hits, misses := c.CacheStats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)

	_, err = c.Compile("<br>")
	require.Error(t, err)
	_, err = c.Compile("<br>")
	require.Error(t, err)
	hits, _ = c.CacheStats()
	assert.Equal(t, int64(1), hits, "failures are not cached")
}

func TestCompiler_ConcurrentCompiles(t *testing.T) {
	t.Parallel()

	c := compiler.New(compiler.Options{Minify: true}, compiler.WithCache(compiler.NewResultCache(time.Minute, time.Minute)))

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			src := page
			if i%2 == 0 {
				src = "<div><p>x</p></div>"
			}
			_, err := c.Compile(src)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Minify = config.Bool(true)
	cfg.Credits = config.Bool(false)

	opts := compiler.OptionsFromConfig(cfg, nil, "<a>\n\t%%!minify:<b></b>\n</a>\n")

	assert.True(t, opts.Minify)
	assert.False(t, opts.Credits)
	assert.Equal(t, "<a></a>", opts.HTMLAdd)
}

func TestCompiler_SharedCacheFlush(t *testing.T) {
	t.Parallel()

	cache := compiler.NewResultCache(time.Minute, time.Minute)

	pretty, err := compiler.New(compiler.Options{}, compiler.WithCache(cache)).Compile("<p>hi</p>")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	cache.Flush()
	minified, err := compiler.New(compiler.Options{Minify: true}, compiler.WithCache(cache)).Compile("<p>hi</p>")
	require.NoError(t, err)

	assert.Equal(t, "<p>\n\thi\n</p>", pretty.OutHTML)
	assert.Equal(t, "<p>hi</p>", minified.OutHTML)
}

func TestCache(t *testing.T) {
	t.Parallel()

	cache := compiler.NewCache[string, int](time.Minute, time.Minute)

	_, ok := cache.Get("a")
	assert.False(t, ok)

	cache.Set("a", 1)
	cache.Set("b", 2)
	got, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, got)
	assert.Equal(t, 2, cache.Len())

	cache.Flush()
	_, ok = cache.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}
