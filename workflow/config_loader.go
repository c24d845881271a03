package workflow

import (
	"os"

	"github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"
)

// ParseScenario parses a YAML or JSON scenario definition and validates it.
func ParseScenario(data []byte) (ScenarioConfig, error) {
	var cfg ScenarioConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		// yaml can handle JSON too, so a single attempt is fine
		return cfg, errors.Wrap(err, errors.CategoryBadInput, "failed to parse scenario config").
			WithTextCode("SCENARIO_PARSE_FAILED")
	}
	return cfg, cfg.Validate()
}

// LoadScenario reads and parses a scenario file.
func LoadScenario(path string) (ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ScenarioConfig{}, errors.Wrap(err, errors.CategoryBadInput, "failed to read scenario file").
			WithTextCode("SCENARIO_READ_FAILED").
			WithMetadata(map[string]any{"path": path})
	}
	return ParseScenario(data)
}

// BuildCoordinator compiles a scenario into a ready coordinator and the
// order it declares.
func BuildCoordinator(cfg ScenarioConfig, extra ...Option) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := append(cfg.Options(), extra...)
	return NewCoordinator(opts...), nil
}
