package classify

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed rules/*.yaml
var ruleFiles embed.FS

// FormRule describes one recognized bankruptcy form.
type FormRule struct {
	TitleKeywords []string `yaml:"title_keywords"`
}

// SubfolderRule names the subfolder a document category files into.
type SubfolderRule struct {
	Name string `yaml:"name"`
}

// Rules holds the classification keyword tables.
type Rules struct {
	Forms                  map[string]FormRule      `yaml:"forms"`
	FinancialTitleKeywords []string                 `yaml:"financial_title_keywords"`
	Subfolders             map[string]SubfolderRule `yaml:"subfolders"`
}

// LoadRules parses the embedded classification rules file.
func LoadRules() (*Rules, error) {
	data, err := ruleFiles.ReadFile("rules/classification.yaml")
	if err != nil {
		return nil, fmt.Errorf("read classification rules: %w", err)
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("unmarshal classification rules: %w", err)
	}

	if err := rules.validate(); err != nil {
		return nil, fmt.Errorf("invalid classification rules: %w", err)
	}

	return &rules, nil
}

func (r *Rules) validate() error {
	for _, key := range []string{"form-47", "form-76"} {
		if _, ok := r.Forms[key]; !ok {
			return fmt.Errorf("missing form rule %q", key)
		}
	}
	for _, key := range []string{"form", "financial", "general"} {
		rule, ok := r.Subfolders[key]
		if !ok || rule.Name == "" {
			return fmt.Errorf("missing subfolder rule %q", key)
		}
	}
	if len(r.FinancialTitleKeywords) == 0 {
		return fmt.Errorf("no financial title keywords")
	}
	return nil
}
