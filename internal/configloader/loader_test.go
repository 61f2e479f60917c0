package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/html7/pkg/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:       dir,
		IgnoreUserConfig: true,
		IgnoreEnv:        true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(t.TempDir()))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "html7.conf.json")
	writeFile(t, path, `{"root": "src", "outDir": "public-out", "minify": true}`)

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)

	assert.Equal(t, "src", result.Config.Root)
	assert.Equal(t, "public-out", result.Config.OutDir)
	assert.True(t, result.Config.MinifyEnabled())
	assert.Equal(t, "index.html7", result.Config.Entry, "unset keys keep defaults")
	assert.Equal(t, []string{path}, result.LoadedFrom)
}

func TestLoad_ProjectSearchesUpward(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeFile(t, filepath.Join(root, ".html7.yml"), "outDir: build\n")
	nested := filepath.Join(root, "pages", "blog")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	result, err := Load(context.Background(), isolated(nested))
	require.NoError(t, err)
	assert.Equal(t, "build", result.Config.OutDir)
}

func TestLoad_ExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "html7.conf.json"), `{"outDir": "a", "minify": true}`)
	explicit := filepath.Join(dir, "ci.yaml")
	writeFile(t, explicit, "outDir: b\nminify: false\n")

	opts := isolated(dir)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "b", result.Config.OutDir)
	assert.False(t, result.Config.MinifyEnabled(), "explicit false overrides project true")
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoad_CLIOverridesEverything(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "html7.conf.json"), `{"outDir": "a"}`)

	opts := isolated(dir)
	opts.CLIConfig = &config.Config{OutDir: "cli", Jobs: 3, Format: config.FormatJSON}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "cli", result.Config.OutDir)
	assert.Equal(t, 3, result.Config.Jobs)
	assert.Equal(t, config.FormatJSON, result.Config.Format)
}

func TestLoad_InvalidFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "html7.conf.json"), `{"outDir": `)

	_, err := Load(context.Background(), isolated(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load project config")
}

func TestLoad_ValidationErrorsJoined(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".html7.yml"), "entry: index.html\nindent: x\n")

	_, err := Load(context.Background(), isolated(dir))
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "entry", verr.Field)
	assert.Contains(t, err.Error(), "indent")
}

func TestLoad_MissingExplicit(t *testing.T) {
	t.Parallel()

	opts := isolated(t.TempDir())
	opts.ExplicitPath = filepath.Join(t.TempDir(), "nope.yml")

	_, err := Load(context.Background(), opts)
	require.Error(t, err)
}

//nolint:paralleltest // t.Setenv is incompatible with t.Parallel.
func TestLoad_Environment(t *testing.T) {
	t.Setenv("HTML7_OUT_DIR", "env-out")
	t.Setenv("HTML7_MINIFY", "true")
	t.Setenv("HTML7_CREDITS", "false")
	t.Setenv("HTML7_IGNORE", "drafts/**, tmp/*")
	t.Setenv("HTML7_TAGS_STANDARD", "")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "html7.conf.json"), `{"outDir": "file-out", "root": "src"}`)

	opts := isolated(dir)
	opts.IgnoreEnv = false

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "env-out", result.Config.OutDir)
	assert.Equal(t, "src", result.Config.Root)
	assert.True(t, result.Config.MinifyEnabled())
	assert.False(t, result.Config.CreditsEnabled())
	assert.Equal(t, []string{"drafts/**", "tmp/*"}, result.Config.Ignore)
}

//nolint:paralleltest // t.Setenv is incompatible with t.Parallel.
func TestLoad_UserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	writeFile(t, filepath.Join(home, "html7", "config.yaml"), "credits: false\nindent: \"  \"\n")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "html7.conf.json"), `{"indent": "\t\t"}`)

	result, err := Load(context.Background(), LoadOptions{WorkingDir: dir, IgnoreEnv: true})
	require.NoError(t, err)

	assert.False(t, result.Config.CreditsEnabled())
	assert.Equal(t, "\t\t", result.Config.Indent, "project beats user")
	assert.Len(t, result.LoadedFrom, 2)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.txt")

	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{name: "empty outDir", mutate: func(c *config.Config) { c.OutDir = "" }, field: "outDir"},
		{name: "empty entry", mutate: func(c *config.Config) { c.Entry = "" }, field: "entry"},
		{name: "entry extension", mutate: func(c *config.Config) { c.Entry = "index.html" }, field: "entry"},
		{name: "empty output", mutate: func(c *config.Config) { c.Output = "" }, field: "output"},
		{name: "bad indent", mutate: func(c *config.Config) { c.Indent = "--" }, field: "indent"},
		{name: "bad format", mutate: func(c *config.Config) { c.Format = "xml" }, field: "format"},
		{name: "negative jobs", mutate: func(c *config.Config) { c.Jobs = -1 }, field: "jobs"},
		{name: "missing tag list", mutate: func(c *config.Config) { c.Tags.SelfClosing = missing }, field: "tags.selfClosing"},
		{name: "bad glob", mutate: func(c *config.Config) { c.Ignore = []string{"["} }, field: "ignore[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.mutate(cfg)

			result := Validate(cfg)
			require.False(t, result.Valid())
			assert.Equal(t, tt.field, result.Errors[0].Field)
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.OutDir = "./"

	result := Validate(cfg)
	assert.True(t, result.Valid())
	require.True(t, result.HasWarnings())
	assert.Equal(t, "outDir", result.Warnings[0].Field)
}

func TestMerge_NilHandling(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Same(t, cfg, merge(cfg, nil))
	assert.Same(t, cfg, merge(nil, cfg))
	assert.Nil(t, MergeAll())
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	require.Len(t, vars, len(envBindings))
	assert.Equal(t, EnvVar{Name: "HTML7_ROOT", Key: "root", Description: "Directory holding the entry file"}, vars[0])
	for _, v := range vars {
		assert.Regexp(t, `^HTML7_[A-Z_]+$`, v.Name)
		assert.NotEmpty(t, v.Description)
	}
}
