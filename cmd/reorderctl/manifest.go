package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-reorder/components/ordering"
)

type collectionCmd struct {
	Code         string   `required:"" help:"Collection code (kebab-cased, e.g. hero-banners)."`
	Name         string   `required:"" help:"Display name of the collection."`
	ManifestPath string   `name:"manifest-path" required:"" type:"path" help:"Path to the collection manifest YAML/JSON file to update."`
	PartitionKey string   `help:"Field that partitions positions (e.g. device_type)."`
	Scope        []string `help:"Scopes of the partition key (use multiple --scope flags)."`
	SchemaPath   string   `type:"path" help:"Optional path to a JSON schema file for item fields."`
	Overwrite    bool     `help:"Replace an existing entry with the same code."`
}

func (cmd *collectionCmd) Run(_ context.Context) error {
	return cmd.run(os.Stdout)
}

func (cmd *collectionCmd) run(out io.Writer) error {
	def, err := cmd.definition()
	if err != nil {
		return err
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("reorderctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}

	replaced := false
	for idx := range doc.Collections {
		if ordering.NormalizeCode(doc.Collections[idx].Code) != def.Code {
			continue
		}
		if !cmd.Overwrite {
			return fmt.Errorf("reorderctl: manifest already defines collection %s (use --overwrite to replace)", def.Code)
		}
		doc.Collections[idx] = def
		replaced = true
		break
	}
	if !replaced {
		doc.Collections = append(doc.Collections, def)
	}
	sort.Slice(doc.Collections, func(i, j int) bool {
		return doc.Collections[i].Code < doc.Collections[j].Code
	})

	// Round trip through the registry so the written file is loadable.
	if err := ordering.NewEmptyRegistry().LoadManifestDocument(doc); err != nil {
		return fmt.Errorf("reorderctl: %w", err)
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Added %s to %s\n", def.Code, manifestPath)
	return nil
}

func (cmd *collectionCmd) definition() (ordering.CollectionDefinition, error) {
	if cmd.PartitionKey == "" && len(cmd.Scope) > 0 {
		return ordering.CollectionDefinition{}, errors.New("reorderctl: --scope requires --partition-key")
	}
	if cmd.PartitionKey != "" && len(cmd.Scope) == 0 {
		return ordering.CollectionDefinition{}, errors.New("reorderctl: --partition-key requires at least one --scope")
	}
	schema, err := cmd.loadSchema()
	if err != nil {
		return ordering.CollectionDefinition{}, err
	}
	return ordering.CollectionDefinition{
		Code:         ordering.NormalizeCode(cmd.Code),
		Name:         cmd.Name,
		PartitionKey: cmd.PartitionKey,
		Scopes:       cmd.Scope,
		Schema:       schema,
	}, nil
}

func (cmd *collectionCmd) loadSchema() (map[string]any, error) {
	if cmd.SchemaPath == "" {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}, nil
	}
	data, err := os.ReadFile(cmd.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("reorderctl: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("reorderctl: parse schema JSON: %w", err)
	}
	return schema, nil
}

func loadOrInitManifest(path string) (*ordering.ManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ordering.ManifestDocument{
				Version:     ordering.ManifestVersion,
				Collections: []ordering.CollectionDefinition{},
				Source:      path,
			}, nil
		}
		return nil, fmt.Errorf("reorderctl: stat manifest: %w", err)
	}
	return ordering.ReadManifest(path)
}

func writeManifest(path string, doc *ordering.ManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("reorderctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	tmpDoc := *doc
	tmpDoc.Source = ""

	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("reorderctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(tmpDoc); err != nil {
		return fmt.Errorf("reorderctl: write manifest: %w", err)
	}
	return nil
}
