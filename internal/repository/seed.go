package repository

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// seedFile is the on-disk shape of a menu seed:
//
//	items:
//	  - name: Dosa
//	    price: "80"
type seedFile struct {
	Items []seedItem `yaml:"items"`
}

type seedItem struct {
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
}

// LoadSeed reads a YAML menu file and adds every item through add, which is
// expected to apply the catalog's validation rules
func LoadSeed(ctx context.Context, path string, add func(ctx context.Context, name string, price decimal.Decimal) error) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read menu seed: %w", err)
	}
	return parseSeed(ctx, data, add)
}

func parseSeed(ctx context.Context, data []byte, add func(ctx context.Context, name string, price decimal.Decimal) error) (int, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return 0, fmt.Errorf("parse menu seed: %w", err)
	}

	for i, item := range seed.Items {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return i, fmt.Errorf("menu seed item %d (%s): invalid price %q: %w", i+1, item.Name, item.Price, err)
		}
		if err := add(ctx, item.Name, price); err != nil {
			return i, fmt.Errorf("menu seed item %d (%s): %w", i+1, item.Name, err)
		}
	}
	return len(seed.Items), nil
}
