package wordfilter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads rules from a YAML file:
//
//	words: [редиска, негодяй]
//	match: substring
//	case_sensitive: false
func LoadFile(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read word list: %w", err)
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse word list %s: %w", path, err)
	}
	if rules.Match == "" {
		rules.Match = MatchSubstring
	}
	return rules, nil
}
