package sites

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/j-veylop/ai-footprint-tui/internal/models"
)

// rulesFile is the on-disk layout of extra site rules:
//
//	[[site]]
//	host = "chat.mistral.ai"
//	name = "Mistral Le Chat"
type rulesFile struct {
	Site []models.SiteRule `toml:"site"`
}

// LoadRules returns DefaultRules extended with the rules in path.
// A missing or empty path yields the defaults.
func LoadRules(path string) ([]models.SiteRule, error) {
	rules := append([]models.SiteRule(nil), DefaultRules...)
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return rules, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read site rules: %w", err)
	}

	var file rulesFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse site rules %s: %w", path, err)
	}

	return append(rules, file.Site...), nil
}

// Load builds a classifier from the defaults plus the rules file at path.
func Load(path string) (*Classifier, error) {
	rules, err := LoadRules(path)
	if err != nil {
		return nil, err
	}
	return NewClassifier(rules), nil
}
