package depm

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode"

	"pyrite/omp"

	"github.com/pelletier/go-toml"
)

// ConfigFileName is the name of the unit manifest file.
const ConfigFileName = "pyrite.toml"

// Enumeration of the rendering targets a manifest may name.
const (
	TargetPython = "python"
	TargetC      = "c"
	TargetLLVM   = "llvm"
)

// outputExts maps targets to the file extension of their rendered output.
var outputExts = map[string]string{
	TargetPython: ".py",
	TargetC:      ".c",
	TargetLLVM:   ".ll",
}

// tomlConfig represents a unit manifest as it is encoded in TOML.
type tomlConfig struct {
	Name       string `toml:"name"`
	Target     string `toml:"target"`
	OmpVersion string `toml:"omp-version"`
	Output     string `toml:"output"`
}

// Config is the validated manifest configuration of a unit.
type Config struct {
	// The name of the unit.  Must be a valid identifier.
	Name string

	// The rendering target.  Must be one of the enumerated targets.
	Target string

	// The directive standard revision directives are checked against.
	OmpVersion omp.Version

	// The path rendered output is written to.
	OutputPath string
}

// LoadConfig loads and validates the unit manifest in the given directory.
// Manifest errors happen before any unit reporter exists, so they surface as
// plain errors for the driver to display.
func LoadConfig(abspath string) (*Config, error) {
	buff, err := os.ReadFile(filepath.Join(abspath, ConfigFileName))
	if err != nil {
		return nil, fmt.Errorf("unable to open unit manifest at `%s`: %w", abspath, err)
	}

	tomlCfg := &tomlConfig{}
	if err := toml.Unmarshal(buff, tomlCfg); err != nil {
		return nil, fmt.Errorf("error parsing unit manifest at `%s`: %w", abspath, err)
	}

	return validateConfig(abspath, tomlCfg)
}

// validateConfig checks the manifest contents and fills in defaults.
func validateConfig(abspath string, tomlCfg *tomlConfig) (*Config, error) {
	if tomlCfg.Name == "" {
		return nil, fmt.Errorf("manifest at `%s` is missing a unit name", abspath)
	}

	if !IsValidIdentifier(tomlCfg.Name) {
		return nil, fmt.Errorf("unit name `%s` must be a valid identifier", tomlCfg.Name)
	}

	cfg := &Config{Name: tomlCfg.Name}

	cfg.Target = tomlCfg.Target
	if cfg.Target == "" {
		cfg.Target = TargetPython
	}
	if _, ok := outputExts[cfg.Target]; !ok {
		return nil, fmt.Errorf("unknown target `%s` for unit `%s`", cfg.Target, cfg.Name)
	}

	ompVersion := tomlCfg.OmpVersion
	if ompVersion == "" {
		ompVersion = string(omp.V45)
	}
	version, ok := omp.ParseVersion(ompVersion)
	if !ok {
		return nil, fmt.Errorf("unknown directive standard revision `%s` for unit `%s`; supported: %v",
			ompVersion, cfg.Name, omp.SupportedVersions)
	}
	cfg.OmpVersion = version

	cfg.OutputPath = tomlCfg.Output
	if cfg.OutputPath == "" {
		cfg.OutputPath = filepath.Join(abspath, cfg.Name+outputExts[cfg.Target])
	} else if !filepath.IsAbs(cfg.OutputPath) {
		cfg.OutputPath = filepath.Join(abspath, cfg.OutputPath)
	}

	return cfg, nil
}

// IsValidIdentifier returns whether name is usable as a unit or symbol name.
func IsValidIdentifier(name string) bool {
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}

		if i > 0 && unicode.IsDigit(r) {
			continue
		}

		return false
	}

	return name != ""
}
