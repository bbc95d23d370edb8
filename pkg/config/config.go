/*
Package config manages the TOML config of ringserve.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/bastiangx/ringserve/internal/utils"
	"github.com/bastiangx/ringserve/pkg/vocab"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Solver  SolverConfig  `toml:"solver"`
	Dict    DictConfig    `toml:"dict"`
	Lemma   LemmaConfig   `toml:"lemma"`
	Cache   CacheConfig   `toml:"cache"`
	Metrics MetricsConfig `toml:"metrics"`
	Server  ServerConfig  `toml:"server"`
}

// SolverConfig has solving options.
type SolverConfig struct {
	NBest      int `toml:"nbest"`
	MinWordLen int `toml:"min_word_len"`
	Workers    int `toml:"workers"`
}

// DictConfig holds word file options.
type DictConfig struct {
	File        string `toml:"file"`
	Format      string `toml:"format"`
	Encoding    string `toml:"encoding"`
	Cutoff      int    `toml:"cutoff"`
	WordPattern string `toml:"word_pattern"`
	ChunkSize   int    `toml:"chunk_size"`
}

// LemmaConfig points to an optional lemma table.
type LemmaConfig struct {
	File string `toml:"file"`
}

// CacheConfig holds solution cache options.
type CacheConfig struct {
	Enabled    bool   `toml:"enabled"`
	MaxEntries int    `toml:"max_entries"`
	RedisAddr  string `toml:"redis_addr"`
	TTL        int    `toml:"ttl"`
}

// MetricsConfig holds the scrape endpoint address. Empty disables it.
type MetricsConfig struct {
	Addr string `toml:"addr"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxLimit int `toml:"max_limit"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "ringserve")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "ringserve")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/ringserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Solver: SolverConfig{
			NBest:      10,
			MinWordLen: 4,
			Workers:    4,
		},
		Dict: DictConfig{
			Format:      vocab.FormatAuto.String(),
			Encoding:    string(vocab.UTF8),
			Cutoff:      vocab.DefaultCutoff,
			WordPattern: vocab.DefaultWordPattern,
			ChunkSize:   10000,
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 1024,
		},
		Server: ServerConfig{
			MaxLimit: 100,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Keys missing from the file keep their
// defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	unknown, err := utils.LoadTOMLFile(configPath, config)
	if err != nil {
		return tryPartialParse(configPath)
	}
	for _, key := range unknown {
		log.Warnf("Unknown config key %q in %s", key, configPath)
	}
	return config, nil
}

// tryPartialParse takes every value of the expected type from a file that
// does not decode into Config, e.g. because one key has the wrong type.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.DecodeTOMLMap(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "solver"); ok {
		extractSolverConfig(section, &config.Solver)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "lemma"); ok {
		if val, ok := utils.Extract[string](section, "file"); ok {
			config.Lemma.File = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "cache"); ok {
		extractCacheConfig(section, &config.Cache)
	}
	if section, ok := utils.ExtractSection(tempConfig, "metrics"); ok {
		if val, ok := utils.Extract[string](section, "addr"); ok {
			config.Metrics.Addr = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		if val, ok := utils.ExtractInt(section, "max_limit"); ok {
			config.Server.MaxLimit = val
		}
	}
	return config, nil
}

func extractSolverConfig(data map[string]any, solver *SolverConfig) {
	if val, ok := utils.ExtractInt(data, "nbest"); ok {
		solver.NBest = val
	}
	if val, ok := utils.ExtractInt(data, "min_word_len"); ok {
		solver.MinWordLen = val
	}
	if val, ok := utils.ExtractInt(data, "workers"); ok {
		solver.Workers = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.Extract[string](data, "file"); ok {
		dict.File = val
	}
	if val, ok := utils.Extract[string](data, "format"); ok {
		dict.Format = val
	}
	if val, ok := utils.Extract[string](data, "encoding"); ok {
		dict.Encoding = val
	}
	if val, ok := utils.ExtractInt(data, "cutoff"); ok {
		dict.Cutoff = val
	}
	if val, ok := utils.Extract[string](data, "word_pattern"); ok {
		dict.WordPattern = val
	}
	if val, ok := utils.ExtractInt(data, "chunk_size"); ok {
		dict.ChunkSize = val
	}
}

func extractCacheConfig(data map[string]any, cache *CacheConfig) {
	if val, ok := utils.Extract[bool](data, "enabled"); ok {
		cache.Enabled = val
	}
	if val, ok := utils.ExtractInt(data, "max_entries"); ok {
		cache.MaxEntries = val
	}
	if val, ok := utils.Extract[string](data, "redis_addr"); ok {
		cache.RedisAddr = val
	}
	if val, ok := utils.ExtractInt(data, "ttl"); ok {
		cache.TTL = val
	}
}

// VocabOptions converts the [dict] section into loader options. An empty
// word pattern accepts every word.
func (d DictConfig) VocabOptions() (vocab.Options, error) {
	format, err := vocab.ParseFormat(d.Format)
	if err != nil {
		return vocab.Options{}, err
	}
	enc, err := vocab.ParseEncoding(d.Encoding)
	if err != nil {
		return vocab.Options{}, err
	}
	opts := vocab.Options{
		Format:   format,
		Encoding: enc,
		Cutoff:   d.Cutoff,
	}
	if d.WordPattern != "" {
		opts.Pattern, err = regexp.Compile(d.WordPattern)
		if err != nil {
			return vocab.Options{}, fmt.Errorf("invalid word_pattern: %w", err)
		}
	}
	return opts, nil
}

// TTLDuration returns the cache TTL. Zero means entries do not expire.
func (c CacheConfig) TTLDuration() time.Duration {
	if c.TTL <= 0 {
		return 0
	}
	return time.Duration(c.TTL) * time.Second
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
