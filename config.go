package ctxdump

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/hayeah/ctxdump/ignore"
)

// ConfigFileName is looked up in the scan root when no config path is given.
const ConfigFileName = ".ctxdump.toml"

// DefaultOutput is where the dump goes unless configured otherwise.
const DefaultOutput = "file_listing.txt"

// Config holds everything a session needs besides the selection itself.
type Config struct {
	// Root is the directory being scanned. It is never read from the file.
	Root string `toml:"-"`

	Output string `toml:"output"`

	// ExcludeDirs and ExcludeFiles replace the built-in pattern sets;
	// the Extra lists are appended to whatever sets are in effect.
	ExcludeDirs       []string `toml:"exclude_dirs"`
	ExcludeFiles      []string `toml:"exclude_files"`
	ExtraExcludeDirs  []string `toml:"extra_exclude_dirs"`
	ExtraExcludeFiles []string `toml:"extra_exclude_files"`

	// ExcludePaths are doublestar patterns over '/'-separated relative paths.
	ExcludePaths []string `toml:"exclude_paths"`

	Gitignore bool `toml:"gitignore"`

	Addr        string `toml:"addr"`
	OpenBrowser bool   `toml:"open_browser"`

	TokenEstimator string `toml:"token_estimator"`

	Verbose bool `toml:"-"`
}

// DefaultConfig returns the built-in configuration for root.
func DefaultConfig(root string) *Config {
	return &Config{
		Root:           root,
		Output:         DefaultOutput,
		ExcludeDirs:    append([]string(nil), ignore.DefaultDirPatterns...),
		ExcludeFiles:   append([]string(nil), ignore.DefaultFilePatterns...),
		Addr:           "127.0.0.1:5000",
		OpenBrowser:    true,
		TokenEstimator: "simple",
	}
}

// LoadConfig reads the TOML config at path over the defaults. With an empty
// path, root/.ctxdump.toml is used if it exists.
func LoadConfig(root, path string) (*Config, error) {
	cfg := DefaultConfig(root)

	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, ConfigFileName)
	}

	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config %s: %w", path, err)
	}
	defer f.Close()

	md, err := toml.NewDecoder(f).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.Root = root
	return cfg, nil
}

// Filter builds the exclusion filter the config describes.
func (c *Config) Filter() (*ignore.Filter, error) {
	dirs := append(append([]string(nil), c.ExcludeDirs...), c.ExtraExcludeDirs...)
	files := append(append([]string(nil), c.ExcludeFiles...), c.ExtraExcludeFiles...)

	filter, err := ignore.NewFilter(dirs, files, c.ExcludePaths)
	if err != nil {
		return nil, err
	}

	if c.Gitignore {
		if err := filter.WithGitignore(c.Root); err != nil {
			return nil, err
		}
	}
	return filter, nil
}
