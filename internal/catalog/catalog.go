package catalog

import (
	"fmt"
	"strings"

	sharedErrors "github.com/khanhnv2901/hdrscan/internal/shared/errors"
)

// Category groups header rules. Security, performance and maintainability
// are scored; cloudflare is informational.
type Category string

const (
	CategorySecurity        Category = "security"
	CategoryPerformance     Category = "performance"
	CategoryMaintainability Category = "maintainability"
	CategoryCloudflare      Category = "cloudflare"
)

// ScoredCategories lists the categories that contribute to the overall score,
// in report order.
var ScoredCategories = []Category{
	CategorySecurity,
	CategoryPerformance,
	CategoryMaintainability,
}

// AllCategories includes the informational cloudflare category.
var AllCategories = []Category{
	CategorySecurity,
	CategoryPerformance,
	CategoryMaintainability,
	CategoryCloudflare,
}

// Title returns the display label for the category.
func (c Category) Title() string {
	switch c {
	case CategorySecurity:
		return "Security"
	case CategoryPerformance:
		return "Performance"
	case CategoryMaintainability:
		return "Maintainability"
	case CategoryCloudflare:
		return "Cloudflare"
	}
	return string(c)
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory converts a case-insensitive name into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", sharedErrors.ErrUnknownCategory, s)
	}
	return c, nil
}

// Importance ranks how much a header matters within its category.
type Importance string

const (
	ImportanceCritical    Importance = "critical"
	ImportanceImportant   Importance = "important"
	ImportanceRecommended Importance = "recommended"
	ImportanceOptional    Importance = "optional"
)

// Valid reports whether i is a known importance level.
func (i Importance) Valid() bool {
	switch i {
	case ImportanceCritical, ImportanceImportant, ImportanceRecommended, ImportanceOptional:
		return true
	}
	return false
}

// Rule describes one response header the analyzer looks for.
type Rule struct {
	Name           string     `json:"name" yaml:"name"`
	Key            string     `json:"key" yaml:"key"`
	Importance     Importance `json:"importance" yaml:"importance"`
	Description    string     `json:"description" yaml:"description"`
	Recommendation string     `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
	Link           string     `json:"link" yaml:"link"`
	Category       Category   `json:"category" yaml:"-"`
}

// Catalog is an immutable, ordered set of rules per category.
// The zero value is an empty catalog.
type Catalog struct {
	rules map[Category][]Rule
}

// New builds a catalog from the given tables. Input slices are copied,
// keys are lowercased and each rule is stamped with its category.
func New(tables map[Category][]Rule) (Catalog, error) {
	rules := make(map[Category][]Rule, len(tables))
	for category, list := range tables {
		if !category.Valid() {
			return Catalog{}, fmt.Errorf("%w: %q", sharedErrors.ErrUnknownCategory, category)
		}
		seen := make(map[string]struct{}, len(list))
		copied := make([]Rule, 0, len(list))
		for i, r := range list {
			r.Key = strings.ToLower(strings.TrimSpace(r.Key))
			r.Category = category
			if r.Key == "" {
				r.Key = strings.ToLower(strings.TrimSpace(r.Name))
			}
			if err := validateRule(r); err != nil {
				return Catalog{}, fmt.Errorf("%s rule #%d: %w", category, i+1, err)
			}
			if _, dup := seen[r.Key]; dup {
				return Catalog{}, fmt.Errorf("%w: duplicate key %q in %s", sharedErrors.ErrInvalidCatalog, r.Key, category)
			}
			seen[r.Key] = struct{}{}
			copied = append(copied, r)
		}
		rules[category] = copied
	}
	return Catalog{rules: rules}, nil
}

// MustNew is like New but panics on error. Intended for static tables.
func MustNew(tables map[Category][]Rule) Catalog {
	c, err := New(tables)
	if err != nil {
		panic(err)
	}
	return c
}

func validateRule(r Rule) error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: rule name is empty", sharedErrors.ErrInvalidCatalog)
	}
	if !r.Importance.Valid() {
		return fmt.Errorf("%w: rule %q has unknown importance %q", sharedErrors.ErrInvalidCatalog, r.Name, r.Importance)
	}
	return nil
}

// Rules returns a copy of the rules for category, in catalog order.
func (c Catalog) Rules(category Category) []Rule {
	list := c.rules[category]
	out := make([]Rule, len(list))
	copy(out, list)
	return out
}

// Len returns the number of rules in category.
func (c Catalog) Len(category Category) int {
	return len(c.rules[category])
}

// Has reports whether the catalog defines any rules for category.
func (c Catalog) Has(category Category) bool {
	_, ok := c.rules[category]
	return ok
}

// Lookup finds a rule by key within a category.
func (c Catalog) Lookup(category Category, key string) (Rule, bool) {
	key = strings.ToLower(key)
	for _, r := range c.rules[category] {
		if r.Key == key {
			return r, true
		}
	}
	return Rule{}, false
}

// With returns a new catalog where category is replaced by rules.
func (c Catalog) With(category Category, rules []Rule) (Catalog, error) {
	tables := make(map[Category][]Rule, len(c.rules)+1)
	for k, v := range c.rules {
		tables[k] = v
	}
	tables[category] = rules
	return New(tables)
}
