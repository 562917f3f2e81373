package ordering

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDefaults(t *testing.T) {
	reg := NewRegistry()
	defs := reg.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, CollectionFeaturedImages, defs[0].Code)
	assert.Equal(t, CollectionHeroBanners, defs[1].Code)

	def, ok := reg.Definition("Hero Banners")
	require.True(t, ok)
	assert.True(t, def.Partitioned())
	assert.Equal(t, []string{"desktop", "mobile"}, def.Scopes)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "hero-banners", NormalizeCode(" HeroBanners "))
	assert.Equal(t, "featured-images", NormalizeCode("featured_images"))
	assert.Equal(t, "featured-images", NormalizeCode("featured-images"))
}

func TestRegistryRegisterValidates(t *testing.T) {
	reg := NewEmptyRegistry()
	assert.Error(t, reg.Register(CollectionDefinition{}))
	assert.Error(t, reg.Register(CollectionDefinition{Code: "a", PartitionKey: "k", Scopes: []string{"x", "x"}}))
	assert.Error(t, reg.Register(CollectionDefinition{Code: "a", PartitionKey: "k", Scopes: []string{""}}))
	assert.Error(t, reg.Register(CollectionDefinition{Code: "a", Scopes: []string{"x"}}))

	require.NoError(t, reg.Register(CollectionDefinition{Code: "Category Tiles"}))
	def, ok := reg.Definition("category-tiles")
	require.True(t, ok)
	assert.Equal(t, "category-tiles", def.Name)
}

const manifestPayload = `
version: 1
collections:
  - code: category-tiles
    name: Category Tiles
    partition_key: region
    scopes: [north, south]
    schema:
      type: object
      properties:
        link_url:
          type: string
`

func TestDecodeManifest(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader(manifestPayload))
	require.NoError(t, err)
	require.Len(t, doc.Collections, 1)
	def := doc.Collections[0]
	assert.Equal(t, "category-tiles", def.Code)
	assert.Equal(t, "region", def.PartitionKey)
	assert.Equal(t, []string{"north", "south"}, def.Scopes)
	assert.Contains(t, def.Schema, "properties")

	_, err = DecodeManifest(strings.NewReader("version: 2\n"))
	assert.Error(t, err)
}

func TestRegistryLoadManifestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collections.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifestPayload), 0o600))

	reg := NewRegistry()
	require.NoError(t, RegisterManifest(reg, path))
	def, ok := reg.Definition("category-tiles")
	require.True(t, ok)
	assert.Equal(t, "Category Tiles", def.Name)
	assert.Len(t, reg.Definitions(), 3)

	assert.NoError(t, RegisterManifest(reg, ""))
	assert.Error(t, RegisterManifest(reg, filepath.Join(t.TempDir(), "missing.yaml")))
}
