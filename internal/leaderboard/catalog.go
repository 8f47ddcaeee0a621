package leaderboard

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Category is one quiz competition players can be ranked in.
// Only ID is used for matching; the rest is display data.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// Catalog is the ordered list of known categories.
type Catalog []Category

// DefaultCatalog returns the categories the leaderboard ships with.
func DefaultCatalog() Catalog {
	return Catalog{
		{ID: "150", Name: "Quiz Tournament", Description: "Competitive quiz tournament", Color: "from-purple-500 to-purple-700", Icon: "🏆"},
		{ID: "149", Name: "BCS Quiz", Description: "Bangladesh Civil Service preparation", Color: "from-green-500 to-green-700", Icon: "📚"},
		{ID: "75", Name: "Sports Quiz", Description: "Sports knowledge challenge", Color: "from-blue-500 to-blue-700", Icon: "⚽"},
		{ID: "34", Name: "Quiz Protidin", Description: "Daily quiz challenge", Color: "from-orange-500 to-orange-700", Icon: "📅"},
	}
}

// Contains reports whether id is a known category.
func (c Catalog) Contains(id string) bool {
	_, ok := c.Find(id)
	return ok
}

// Find returns the category with the given id.
func (c Catalog) Find(id string) (Category, bool) {
	for _, cat := range c {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// IDs returns the category ids in catalog order.
func (c Catalog) IDs() []string {
	ids := make([]string, 0, len(c))
	for _, cat := range c {
		ids = append(ids, cat.ID)
	}
	return ids
}

// LoadCatalog reads a JSON array of categories.
// Every category needs a non-empty id and ids must be unique.
func LoadCatalog(r io.Reader) (Catalog, error) {
	var catalog Catalog
	if err := json.NewDecoder(r).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("LoadCatalog: decode: %w", err)
	}

	seen := make(map[string]bool, len(catalog))
	for i, cat := range catalog {
		id := strings.TrimSpace(cat.ID)
		if id == "" {
			return nil, fmt.Errorf("LoadCatalog: category %d has no id", i)
		}
		if seen[id] {
			return nil, fmt.Errorf("LoadCatalog: duplicate category id %q", id)
		}
		seen[id] = true
		catalog[i].ID = id
	}

	return catalog, nil
}
