package ordering

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ManifestDocument models a YAML manifest describing ordered collections.
type ManifestDocument struct {
	Version     string                 `json:"version" yaml:"version"`
	Collections []CollectionDefinition `json:"collections" yaml:"collections"`
	Source      string                 `json:"-" yaml:"-"`
}

// ReadManifest loads a manifest file.
func ReadManifest(path string) (*ManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("ordering: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("ordering: manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest parses a manifest from a reader.
func DecodeManifest(r io.Reader) (*ManifestDocument, error) {
	var doc ManifestDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if doc.Version == "" {
		doc.Version = ManifestVersion
	}
	if doc.Version != ManifestVersion {
		return nil, fmt.Errorf("unsupported manifest version %q", doc.Version)
	}
	return &doc, nil
}
