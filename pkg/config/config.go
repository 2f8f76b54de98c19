package config

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/railup/pkg/errors"
)

// Config holds the tool settings loadable from .railup.toml. Protected
// paths are deliberately absent: they are a hard exclusion, not
// configuration.
type Config struct {
	// Verbosity is the default log verbosity (0 warn, 1 info, 2 debug)
	Verbosity int `koanf:"verbosity" toml:"verbosity"`

	// SafeMode is the default for the safe-mode option
	SafeMode bool `koanf:"safe_mode" toml:"safe_mode"`

	// TargetVersion, when set, overrides manifest detection
	TargetVersion string `koanf:"target_version" toml:"target_version"`

	// RulePacks lists YAML rule-pack paths loaded as extensions at startup
	RulePacks []string `koanf:"rule_packs" toml:"rule_packs"`
}

//go:embed defaults.toml
var defaultConfig []byte

// configFileNames are tried in order at the project root
var configFileNames = []string{".railup.toml", "railup.toml"}

// Load builds the configuration: embedded defaults first, then the
// project config file if one exists at root.
func Load(root string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultConfig), toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default config")
	}

	for _, name := range configFileNames {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path)
		}
		break
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal config")
	}

	return &cfg, nil
}

// Defaults returns the built-in configuration values
func Defaults() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultConfig), toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default config")
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal default config")
	}
	return &cfg, nil
}
