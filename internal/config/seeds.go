package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/saldoboek/saldoboek/internal/model"
)

// CategorySeed is one entry of categories.yaml.
type CategorySeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// categoryFile mirrors categories.yaml.
type categoryFile struct {
	Expense []CategorySeed `yaml:"expense"`
	Income  []CategorySeed `yaml:"income"`
}

// RuleSeed is one term -> category pair of categorization_rules.yaml.
type RuleSeed struct {
	Term     string
	Category string
}

// Rule converts the seed to a global rule.
func (r RuleSeed) Rule() model.Rule {
	return model.Rule{SearchTerm: r.Term, Category: r.Category, Active: true}
}

// LoadCategorySeeds reads categories.yaml. A missing file yields no seeds.
// Expense categories come first, in file order.
func LoadCategorySeeds(path string) ([]model.Category, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading category seeds: %w", err)
	}

	var f categoryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing category seeds %s: %w", path, err)
	}

	cats := make([]model.Category, 0, len(f.Expense)+len(f.Income))
	for _, c := range f.Expense {
		cats = append(cats, model.Category{Name: c.Name, Type: model.CategoryExpense, Description: c.Description})
	}
	for _, c := range f.Income {
		cats = append(cats, model.Category{Name: c.Name, Type: model.CategoryIncome, Description: c.Description})
	}
	return cats, nil
}

// LoadRuleSeeds reads categorization_rules.yaml, a flat mapping of search term
// to category. Mapping order is preserved because rule order decides which
// rule wins. A missing file yields no seeds.
func LoadRuleSeeds(path string) ([]RuleSeed, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading rule seeds: %w", err)
	}
	return parseRuleSeeds(data)
}

func parseRuleSeeds(data []byte) ([]RuleSeed, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing rule seeds: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing rule seeds: expected a mapping, got line %d", root.Line)
	}

	rules := make([]RuleSeed, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("parsing rule seeds: line %d: term and category must be plain values", k.Line)
		}
		term := strings.ToLower(strings.TrimSpace(k.Value))
		if term == "" {
			continue
		}
		rules = append(rules, RuleSeed{Term: term, Category: v.Value})
	}
	return rules, nil
}

// SaveCategorySeeds writes categories to a categories.yaml file.
func SaveCategorySeeds(path string, cats []model.Category) error {
	var f categoryFile
	for _, c := range cats {
		seed := CategorySeed{Name: c.Name, Description: c.Description}
		if c.Type == model.CategoryIncome {
			f.Income = append(f.Income, seed)
		} else {
			f.Expense = append(f.Expense, seed)
		}
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling category seeds: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing category seeds: %w", err)
	}
	return nil
}

// SaveRuleSeeds writes rules as an ordered mapping.
func SaveRuleSeeds(path string, rules []RuleSeed) error {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, r := range rules {
		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: r.Term},
			&yaml.Node{Kind: yaml.ScalarNode, Value: r.Category},
		)
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling rule seeds: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rule seeds: %w", err)
	}
	return nil
}
