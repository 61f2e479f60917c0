//go:build stave

package main

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/html7"

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":  Build,
	"t":  Test.Default,
	"fz": Test.Fuzz,
	"l":  Lint.Default,
	"c":  Check,
}

// Namespace types group related targets.
type (
	Test st.Namespace
	Lint st.Namespace
)

// Build compiles bin/html7 with version info when sources changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	fmt.Println("Building html7...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/html7")
}

// Install installs html7 to $GOBIN or $GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/html7")
}

// Clean removes build artifacts.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Check runs the formatting check, vet, tests and the smoke run.
func Check() {
	st.SerialDeps(Lint.FmtCheck, Lint.Vet, Test.Default, Smoke)
}

// Smoke scaffolds a project with the built binary, compiles a page and
// verifies that a second run in check mode reports nothing to change.
func Smoke() error {
	st.Deps(Build)

	bin, err := filepath.Abs(binary)
	if err != nil {
		return err
	}
	dir, err := os.MkdirTemp("", "html7-smoke-")
	if err != nil {
		return fmt.Errorf("create smoke dir: %w", err)
	}
	defer os.RemoveAll(dir)

	page := "<!DOCTYPE html7>\n<html>\n\t<head><title>smoke</title></head>\n\t<body><p>ok</p><br/></body>\n</html>\n"
	if err := os.WriteFile(filepath.Join(dir, "index.html7"), []byte(page), 0o644); err != nil {
		return fmt.Errorf("write smoke page: %w", err)
	}

	for _, args := range [][]string{
		{"-C", dir, "init"},
		{"-C", dir, "build"},
		{"-C", dir, "build", "--check"},
	} {
		if err := sh.RunV(bin, args...); err != nil {
			return fmt.Errorf("html7 %s: %w", strings.Join(args[2:], " "), err)
		}
	}
	fmt.Println("✓ Smoke build OK")
	return nil
}

// Default runs all tests through gotestsum with race detection and coverage.
func (Test) Default() error {
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-race",
		"-p", nCores,
		"./...",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
	)
}

// Fuzz runs the lexer fuzz target. FUZZTIME overrides the default 30s.
func (Test) Fuzz() error {
	fuzzTime := cmp.Or(os.Getenv("FUZZTIME"), "30s")
	fmt.Printf("Fuzzing the lexer for %s...\n", fuzzTime)
	return sh.RunV("go", "test", "-run=^$", "-fuzz=FuzzTokenize", "-fuzztime", fuzzTime, "./pkg/lexer")
}

// Default runs golangci-lint.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// FmtCheck fails when gofmt would change a file.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", "cmd", "internal", "pkg")
	if err != nil {
		return fmt.Errorf("gofmt check failed: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s", out)
	}
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
