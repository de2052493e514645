package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"psl-tools/cmd/pslc/psl"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// appName names the binary; env vars and config paths derive from it.
const appName = "pslc"

var (
	envConfigDir  = strings.ToUpper(appName) + "_CONFIG_DIR"
	envProperties = strings.ToUpper(appName) + "_PROPERTIES"
)

var errSMVInput = errors.New("conv smv2psl only applies to SMV input")

// Config is the content of <config>/config.yml. Flags override it.
type Config struct {
	Conv         string `yaml:"conv,omitempty"`
	RangedNext   string `yaml:"ranged_next,omitempty"`
	PruneLetters bool   `yaml:"prune_letters,omitempty"`
	MaxDepth     int    `yaml:"max_depth,omitempty"`
	Color        *bool  `yaml:"color,omitempty"`
}

func defaultConfig() Config {
	return Config{Conv: psl.PSL2SMV.String(), RangedNext: psl.RangedFlat.String()}
}

// Options turns the config into session options.
func (c Config) Options() (psl.Options, error) {
	var opts psl.Options
	var err error
	if c.Conv != "" {
		if opts.Conv, err = psl.ParseConvType(c.Conv); err != nil {
			return opts, err
		}
		if opts.Conv == psl.SMV2PSL {
			return opts, errSMVInput
		}
	}
	if opts.RangedNext, err = psl.ParseRangedNext(c.RangedNext); err != nil {
		return opts, err
	}
	opts.MaxDepth = c.MaxDepth
	return opts, nil
}

// UseColor reports whether output should be styled. Unset means styled on a
// terminal.
func (c Config) UseColor() bool {
	if c.Color != nil {
		return *c.Color
	}
	fi, err := os.Stdout.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// resolveConfigDir picks $PSLC_CONFIG_DIR, then $XDG_CONFIG_HOME/pslc, then
// ~/.config/pslc.
func resolveConfigDir() (string, error) {
	if dir := os.Getenv(envConfigDir); dir != "" {
		return dir, nil
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "locating the config directory")
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appName), nil
}

// loadConfig reads <configDir>/config.yml. A missing file yields the defaults.
func loadConfig(configDir string) (Config, error) {
	cfg := defaultConfig()
	path := filepath.Join(configDir, "config.yml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// resolvePropertyFiles lists the property files in load order: the config
// directory's properties/, then $PSLC_PROPERTIES, then --file.
func resolvePropertyFiles(configDir string, flagFiles []string) ([]string, error) {
	propsDir := filepath.Join(configDir, "properties")
	files, err := yamlFiles(propsDir)
	if err != nil {
		return nil, err
	}
	files = append(files, pathList(os.Getenv(envProperties))...)
	files = append(files, flagFiles...)
	if len(files) == 0 {
		return nil, fmt.Errorf("no property files found: add *.yml files to %s, set $%s, or use --file",
			propsDir, envProperties)
	}
	return files, nil
}

// yamlFiles lists the *.yml and *.yaml files of dir in name order. A missing
// dir has none.
func yamlFiles(dir string) ([]string, error) {
	var out []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, errors.Wrapf(err, "listing %s", dir)
		}
		out = append(out, matches...)
	}
	sort.Strings(out)
	return out, nil
}

// pathList splits an os-separated path list, skipping empty entries.
func pathList(s string) []string {
	var out []string
	for _, p := range filepath.SplitList(s) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
