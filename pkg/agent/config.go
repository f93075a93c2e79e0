package agent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no path is given.
const DefaultConfigFile = "schat.yaml"

// ConfigFile represents the structure of schat.yaml.
//
//	providers:
//	  - name: claude
//	    command: claude
//	    args: ["-p"]
//	    continue_args: ["--continue"]
//	    timeout: 5m
type ConfigFile struct {
	Providers []Provider `mapstructure:"providers"`
}

// LoadProviders reads a configuration file (YAML or JSON) and returns its providers.
// A missing file yields no providers and no error.
func LoadProviders(path string) ([]Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read provider config: %w", err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	var cfg ConfigFile
	if err := decode(raw, &cfg); err != nil {
		return nil, fmt.Errorf("invalid provider config %s: %w", filepath.Base(path), err)
	}

	for _, p := range cfg.Providers {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg.Providers, nil
}

// LoadCatalog returns the built-in providers overlaid with the ones in path.
func LoadCatalog(path string) (*Catalog, error) {
	catalog := DefaultCatalog()
	if path == "" {
		return catalog, nil
	}
	providers, err := LoadProviders(path)
	if err != nil {
		return nil, err
	}
	for _, p := range providers {
		catalog.Add(p)
	}
	return catalog, nil
}

// decode maps loosely typed YAML/JSON into typed structs:
// "5m" becomes a time.Duration and "run --json" a []string.
func decode(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(" "),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
