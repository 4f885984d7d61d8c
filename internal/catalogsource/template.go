package catalogsource

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/open-sspm/connector-catalog/internal/catalog"
	"gopkg.in/yaml.v3"
)

// ErrTemplateExists is returned when a configuration template would overwrite a file.
var ErrTemplateExists = errors.New("configuration template already exists")

var resourceNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

type resourceTemplate struct {
	ResourceName      string         `yaml:"resource_name"`
	DefinitionType    string         `yaml:"definition_type"`
	DefinitionID      string         `yaml:"definition_id"`
	DefinitionImage   string         `yaml:"definition_image"`
	DefinitionVersion string         `yaml:"definition_version"`
	Configuration     map[string]any `yaml:"configuration"`
}

// RenderTemplate renders the YAML configuration skeleton for a resource that
// uses def.
func RenderTemplate(def catalog.Definition, resourceName string) ([]byte, error) {
	resourceName = strings.TrimSpace(resourceName)
	if !resourceNamePattern.MatchString(resourceName) {
		return nil, fmt.Errorf("invalid resource name %q", resourceName)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Configuration for %s (%s %s)\n", def.Name, def.Repository, def.Version)
	if def.Optional.DocumentationURL != nil {
		fmt.Fprintf(&buf, "# Documentation: %s\n", *def.Optional.DocumentationURL)
	}

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(resourceTemplate{
		ResourceName:      resourceName,
		DefinitionType:    string(def.Kind),
		DefinitionID:      def.ID.String(),
		DefinitionImage:   def.Repository,
		DefinitionVersion: def.Version,
		Configuration:     map[string]any{},
	}); err != nil {
		return nil, fmt.Errorf("render template for %s: %w", resourceName, err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTemplate writes the template to <projectDir>/<kind>s/<resourceName>/configuration.yaml
// and returns the path written. Existing files are never overwritten.
func WriteTemplate(projectDir string, def catalog.Definition, resourceName string) (string, error) {
	data, err := RenderTemplate(def, resourceName)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(projectDir, string(def.Kind)+"s", strings.TrimSpace(resourceName))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, "configuration.yaml")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrTemplateExists, path)
		}
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
