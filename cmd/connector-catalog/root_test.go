package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/open-sspm/connector-catalog/internal/catalog"
	"github.com/open-sspm/connector-catalog/internal/catalogsource"
)

func TestRootCommand_RegistersCommands(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"migrate", "sync", "worker", "serve", "validate-catalog", "template"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd == nil || cmd.Name() != name {
			t.Fatalf("%s command not registered: cmd=%v err=%v", name, cmd, err)
		}
	}
}

func TestCommandUsesStructuredLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{args: []string{"serve"}, want: true},
		{args: []string{"worker"}, want: true},
		{args: []string{"sync"}, want: true},
		{args: []string{"migrate"}, want: true},
		{args: []string{"validate-catalog"}, want: false},
		{args: []string{"template"}, want: false},
	}

	for _, tc := range tests {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			t.Parallel()

			cmd, _, err := rootCmd.Find(tc.args)
			if err != nil || cmd == nil {
				t.Fatalf("Find(%v) = %v, %v", tc.args, cmd, err)
			}
			if got := commandUsesStructuredLogging(cmd); got != tc.want {
				t.Fatalf("commandUsesStructuredLogging(%q) = %v, want %v", cmd.CommandPath(), got, tc.want)
			}
		})
	}
}

func TestParseKinds(t *testing.T) {
	t.Parallel()

	kinds, err := parseKinds([]string{"sources", "Destination"})
	if err != nil {
		t.Fatalf("parseKinds() error = %v", err)
	}
	if len(kinds) != 2 || kinds[0] != catalog.KindSource || kinds[1] != catalog.KindDestination {
		t.Fatalf("parseKinds() = %v", kinds)
	}
	if _, err := parseKinds([]string{"widget"}); err == nil {
		t.Fatal("parseKinds(widget) error = nil, want error")
	}
}

func TestRunValidateCatalog(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := runValidateCatalog(&out, ""); err != nil {
		t.Fatalf("runValidateCatalog() error = %v", err)
	}
	if got := out.String(); !strings.Contains(got, catalogsource.EmbeddedOrigin) || !strings.Contains(got, "source definitions:") {
		t.Fatalf("output = %q", got)
	}

	bad := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(bad, []byte("source_definitions:\n  - name: broken\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := runValidateCatalog(&out, bad); err == nil {
		t.Fatal("runValidateCatalog(bad) error = nil, want validation error")
	}
}

func TestRunTemplate_FromCatalog(t *testing.T) {
	t.Setenv("CATALOG_PATH", "")
	dir := t.TempDir()

	var out bytes.Buffer
	err := runTemplate(t.Context(), &out, templateRequest{
		kind:         "source",
		repository:   "airbyte/source-github",
		resourceName: "github-main",
		dir:          dir,
		fromCatalog:  true,
	})
	if err != nil {
		t.Fatalf("runTemplate() error = %v", err)
	}
	want := filepath.Join(dir, "sources", "github-main", "configuration.yaml")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("template not written at %s: %v", want, err)
	}
	if !strings.Contains(out.String(), want) {
		t.Fatalf("output = %q, want path", out.String())
	}

	err = runTemplate(t.Context(), &out, templateRequest{
		kind:         "destination",
		repository:   "airbyte/destination-unknown",
		resourceName: "x",
		dir:          dir,
		fromCatalog:  true,
	})
	if !errors.Is(err, catalog.ErrDefinitionNotFound) {
		t.Fatalf("runTemplate(unknown) error = %v, want ErrDefinitionNotFound", err)
	}
}
