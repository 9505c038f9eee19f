package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sharedErrors "github.com/khanhnv2901/hdrscan/internal/shared/errors"
)

// fileFormat is the on-disk YAML layout of a custom catalog.
type fileFormat struct {
	Security        []Rule `yaml:"security"`
	Performance     []Rule `yaml:"performance"`
	Maintainability []Rule `yaml:"maintainability"`
	Cloudflare      []Rule `yaml:"cloudflare"`
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog. Categories absent from the document keep
// their built-in rules; an explicitly empty list clears the category.
func Parse(data []byte) (Catalog, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Catalog{}, fmt.Errorf("%w: %v", sharedErrors.ErrInvalidCatalog, err)
	}
	for name := range raw {
		if _, err := ParseCategory(name); err != nil {
			return Catalog{}, err
		}
	}

	var ff fileFormat
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return Catalog{}, fmt.Errorf("%w: %v", sharedErrors.ErrInvalidCatalog, err)
	}

	tables := DefaultTables()
	overrides := map[Category][]Rule{
		CategorySecurity:        ff.Security,
		CategoryPerformance:     ff.Performance,
		CategoryMaintainability: ff.Maintainability,
		CategoryCloudflare:      ff.Cloudflare,
	}
	for category, rules := range overrides {
		if _, present := raw[string(category)]; present {
			tables[category] = rules
		}
	}
	return New(tables)
}
