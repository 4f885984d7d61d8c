// Package catalogsource loads the latest known connector catalog from a YAML
// file or from the seed catalog embedded in the binary.
package catalogsource

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	_ "embed"

	"github.com/google/uuid"
	"github.com/open-sspm/connector-catalog/internal/catalog"
	"gopkg.in/yaml.v3"
)

// EmbeddedOrigin is reported as the origin of the built-in seed catalog.
const EmbeddedOrigin = "embedded:seed/catalog.yaml"

//go:embed seed/catalog.yaml
var seedCatalogYAML []byte

// SeedYAML returns the raw embedded seed catalog.
func SeedYAML() []byte {
	return bytes.Clone(seedCatalogYAML)
}

type fileDoc struct {
	Sources      []entry `yaml:"source_definitions"`
	Destinations []entry `yaml:"destination_definitions"`
}

type entry struct {
	DefinitionID     string `yaml:"definition_id"`
	Name             string `yaml:"name"`
	Repository       string `yaml:"repository"`
	Version          string `yaml:"version"`
	DocumentationURL string `yaml:"documentation_url"`
	Icon             string `yaml:"icon"`
	SourceType       string `yaml:"source_type"`
	ReleaseStage     string `yaml:"release_stage"`
}

// Catalog is a validated latest catalog, split per kind.
type Catalog struct {
	Origin string
	Hash   string

	byKind map[catalog.Kind][]catalog.Definition
}

// Definitions returns a copy of the definitions for kind, in file order.
func (c *Catalog) Definitions(kind catalog.Kind) []catalog.Definition {
	if c == nil {
		return nil
	}
	defs := c.byKind[kind]
	out := make([]catalog.Definition, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Clone())
	}
	return out
}

// Count returns the number of definitions across all kinds.
func (c *Catalog) Count() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, defs := range c.byKind {
		n += len(defs)
	}
	return n
}

// Load reads the catalog at path. An empty path selects the embedded seed catalog.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Parse(seedCatalogYAML, EmbeddedOrigin)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes and validates catalog YAML. Unknown keys are rejected.
func Parse(data []byte, origin string) (*Catalog, error) {
	var doc fileDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse catalog %s: %w", origin, err)
	}

	sum := sha256.Sum256(data)
	c := &Catalog{
		Origin: origin,
		Hash:   hex.EncodeToString(sum[:]),
		byKind: make(map[catalog.Kind][]catalog.Definition, 2),
	}

	var errs []error
	for _, group := range []struct {
		kind    catalog.Kind
		entries []entry
		key     string
	}{
		{kind: catalog.KindSource, entries: doc.Sources, key: "source_definitions"},
		{kind: catalog.KindDestination, entries: doc.Destinations, key: "destination_definitions"},
	} {
		defs, err := toDefinitions(group.kind, group.key, group.entries)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c.byKind[group.kind] = defs
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog %s: %w", origin, errors.Join(errs...))
	}

	return c, nil
}

func toDefinitions(kind catalog.Kind, key string, entries []entry) ([]catalog.Definition, error) {
	var errs []error
	defs := make([]catalog.Definition, 0, len(entries))
	seenRepo := make(map[string]int, len(entries))
	seenID := make(map[uuid.UUID]int, len(entries))

	for i, e := range entries {
		where := fmt.Sprintf("%s[%d]", key, i)
		repo := strings.TrimSpace(e.Repository)
		if repo != "" {
			where += " (" + repo + ")"
		}

		id, err := uuid.Parse(strings.TrimSpace(e.DefinitionID))
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: definition_id: %w", where, err))
		case id == uuid.Nil:
			errs = append(errs, fmt.Errorf("%s: definition_id must not be the nil UUID", where))
		default:
			if prev, dup := seenID[id]; dup {
				errs = append(errs, fmt.Errorf("%s: definition_id %s already used by %s[%d]", where, id, key, prev))
			}
			seenID[id] = i
		}

		name := strings.TrimSpace(e.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", where))
		}
		if repo == "" {
			errs = append(errs, fmt.Errorf("%s: repository is required", where))
		} else if prev, dup := seenRepo[repo]; dup {
			errs = append(errs, fmt.Errorf("%s: %w (also %s[%d])", where, catalog.ErrDuplicateRepository, key, prev))
		} else {
			seenRepo[repo] = i
		}

		version := strings.TrimSpace(e.Version)
		if _, err := catalog.ParseVersion(version); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}

		defs = append(defs, catalog.Definition{
			ID:         id,
			Kind:       kind,
			Name:       name,
			Repository: repo,
			Version:    version,
			Optional: catalog.OptionalFields{
				DocumentationURL: catalog.NullableString(e.DocumentationURL),
				Icon:             catalog.NullableString(e.Icon),
				SourceType:       catalog.NullableString(e.SourceType),
				ReleaseStage:     catalog.NullableString(e.ReleaseStage),
			},
		})
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return defs, nil
}
