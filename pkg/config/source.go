package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultEnvPrefix is the prefix of environment variables read by EnvSource.
const DefaultEnvPrefix = "READINESS_"

// Source loads configuration values into koanf.
// Sources are applied in order; later sources override earlier ones.
type Source interface {
	// Name identifies the source in error messages.
	Name() string

	// Load merges the source's values into k.
	Load(k *koanf.Koanf) error
}

// DefaultSource loads DefaultConfig.
type DefaultSource struct{}

func (s *DefaultSource) Name() string { return "defaults" }

func (s *DefaultSource) Load(k *koanf.Koanf) error {
	if err := k.Load(confmap.Provider(DefaultConfigAsMap(), "."), nil); err != nil {
		return fmt.Errorf("error loading defaults: %w", err)
	}
	return nil
}

// FileSource loads a YAML file. A missing or empty path is skipped.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return "file:" + s.Path }

func (s *FileSource) Load(k *koanf.Koanf) error {
	if s.Path == "" {
		return nil
	}

	if _, err := os.Stat(s.Path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("error checking config file %s: %w", s.Path, err)
	}

	if err := k.Load(file.Provider(s.Path), yaml.Parser()); err != nil {
		return fmt.Errorf("error loading config file %s: %w", s.Path, err)
	}
	return nil
}

// EnvSource loads prefixed environment variables. The first underscore after
// the prefix separates the section from the field:
//
//	READINESS_SERVER_ADDRESS     -> server.address
//	READINESS_HEALTH_RETURN_BODY -> health.return_body
type EnvSource struct {
	Prefix string
}

func (s *EnvSource) Name() string { return "env" }

func (s *EnvSource) Load(k *koanf.Koanf) error {
	prefix := s.Prefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	if err := k.Load(env.Provider(prefix, ".", func(key string) string {
		return envKey(prefix, key)
	}), nil); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}
	return nil
}

func envKey(prefix, key string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(key, prefix)), "_", ".", 1)
}

// FlagSource loads command-line flags defined by BindFlags.
// Only flags set explicitly override earlier sources.
type FlagSource struct {
	Flags *pflag.FlagSet
}

func (s *FlagSource) Name() string { return "flags" }

func (s *FlagSource) Load(k *koanf.Koanf) error {
	if s.Flags == nil {
		return nil
	}
	if err := k.Load(posflag.Provider(s.Flags, ".", k), nil); err != nil {
		return fmt.Errorf("error loading command-line flags: %w", err)
	}
	return nil
}

// DefaultSources returns defaults, file, env and flags, in that order.
func DefaultSources(configPath string, flags *pflag.FlagSet) []Source {
	return []Source{
		&DefaultSource{},
		&FileSource{Path: configPath},
		&EnvSource{Prefix: DefaultEnvPrefix},
		&FlagSource{Flags: flags},
	}
}
