package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"trip-planner-service/internal/domain"

	"gopkg.in/yaml.v3"
)

// LoadRules returns the default HOS rule set overlaid with the YAML file at
// path. Keys missing from the file keep their defaults; unknown keys are an
// error. An empty path yields the defaults.
func LoadRules(path string) (domain.HOSRuleSet, error) {
	rules := domain.DefaultRules()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return domain.HOSRuleSet{}, fmt.Errorf("load rules: read %q: %w", path, err)
		}

		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
			return domain.HOSRuleSet{}, fmt.Errorf("load rules: parse %q: %w", path, err)
		}
	}

	if err := rules.Validate(); err != nil {
		return domain.HOSRuleSet{}, fmt.Errorf("load rules: %w", err)
	}

	return rules, nil
}
