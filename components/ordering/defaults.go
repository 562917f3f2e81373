package ordering

// Collection codes served by the admin console.
const (
	CollectionHeroBanners    = "hero-banners"
	CollectionFeaturedImages = "featured-images"
)

// DefaultCollections returns the ordered collections of the storefront admin.
func DefaultCollections() []CollectionDefinition {
	return []CollectionDefinition{
		{
			Code:         CollectionHeroBanners,
			Name:         "Hero Banners",
			PartitionKey: "device_type",
			Scopes:       []string{"desktop", "mobile"},
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"link_url": map[string]any{"type": "string"},
					"alt_text": map[string]any{"type": "string"},
				},
			},
		},
		{
			Code: CollectionFeaturedImages,
			Name: "Featured Images",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"category": map[string]any{"type": "string"},
				},
			},
		},
	}
}

// DefaultSeedItems returns demo content used by the in-memory backend.
func DefaultSeedItems() []CreateItemInput {
	return []CreateItemInput{
		{Collection: CollectionHeroBanners, Scope: "desktop", Title: "Diwali Gold Collection", Image: "banners/diwali-desktop.jpg", Active: true},
		{Collection: CollectionHeroBanners, Scope: "desktop", Title: "Solitaire Week", Image: "banners/solitaire-desktop.jpg", Active: true},
		{Collection: CollectionHeroBanners, Scope: "desktop", Title: "11+1 Savings Plan", Image: "banners/plan-desktop.jpg", Active: false},
		{Collection: CollectionHeroBanners, Scope: "mobile", Title: "Diwali Gold Collection", Image: "banners/diwali-mobile.jpg", Active: true},
		{Collection: CollectionHeroBanners, Scope: "mobile", Title: "Solitaire Week", Image: "banners/solitaire-mobile.jpg", Active: true},
		{Collection: CollectionFeaturedImages, Title: "Bridal Sets", Image: "featured/bridal.jpg", Active: true, Fields: map[string]any{"category": "bridal"}},
		{Collection: CollectionFeaturedImages, Title: "Everyday Rings", Image: "featured/rings.jpg", Active: true, Fields: map[string]any{"category": "rings"}},
		{Collection: CollectionFeaturedImages, Title: "Temple Jewellery", Image: "featured/temple.jpg", Active: true, Fields: map[string]any{"category": "temple"}},
	}
}
