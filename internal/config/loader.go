package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/cargograph/pkg/errors"
)

// EnvPrefix is the prefix for environment overrides, e.g. CARGOGRAPH_LOCAL=true.
const EnvPrefix = "CARGOGRAPH_"

// listKeys are split on commas when read from the environment.
var listKeys = map[string]bool{"ignore": true, "ignore_paths": true}

// skipFlags are flags that never map to config keys.
var skipFlags = map[string]bool{"config": true, "help": true, "version": true}

// FindFile returns the config file to use. An explicit path always wins;
// otherwise the first of FileNames present in root is used. It returns ""
// when there is no config file.
func FindFile(explicit, root string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range FileNames {
		candidate := filepath.Join(root, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// Load resolves the configuration for root.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// Only flags that were explicitly set override lower layers; flags may be nil.
func Load(root, cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if root == "" {
		root = DefaultRoot
	}
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"root":         root,
		"monolithic":   false,
		"local":        false,
		"ignore":       []string{},
		"ignore_paths": []string{},
		"dev":          false,
		"build":        false,
		"format":       DefaultFormat,
		"output":       "",
		"watch":        false,
		"verbose":      false,
		"from_json":    "",
	}, "."), nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load defaults")
	}

	// 2. Config file
	used := FindFile(cfgFile, root)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file %s", used)
		}
	}

	// 3. Environment: CARGOGRAPH_IGNORE_PATHS=target,vendor -> ignore_paths
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if key == "root" || key == "config" {
			return "", nil
		}
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load environment")
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || skipFlags[f.Name] {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	cfg.Root = root
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
