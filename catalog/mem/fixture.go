package mem

import (
	"encoding/json"
	"fmt"
	"os"
)

// Fixture is the JSON shape accepted by LoadFixture.
type Fixture struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
}

// LoadFixture reads a catalog fixture file and returns a provider seeded
// with its contents.
func LoadFixture(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var fixture Fixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	provider := NewProvider()
	for _, product := range fixture.Products {
		provider.AddProduct(product)
	}
	for _, category := range fixture.Categories {
		provider.AddCategory(category)
	}
	return provider, nil
}
