package domain

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a ModemConfig from a YAML file; fields absent from the
// file keep their DefaultModemConfig values, while fields the file sets
// explicitly (including to zero) take the file's value. File layout and the
// menu that edits it are
// out of scope here; this just gives the CLI and tests a concrete shape.
func LoadConfig(path string) (ModemConfig, error) {
	cfg := DefaultModemConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return ModemConfig{}, Wrap(KindConfig, "reading config file "+path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ModemConfig{}, Wrap(KindConfig, "parsing config file "+path, err)
	}

	return cfg, nil
}

// SaveConfig writes cfg as YAML to path.
func SaveConfig(path string, cfg ModemConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return Wrap(KindConfig, "marshaling config", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Wrap(KindConfig, "writing config file "+path, err)
	}
	return nil
}
