package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/dupscan/dupscan/domain"
)

// Loader implements domain.CloneConfigurationLoader backed by viper for
// reading and go-toml for writing.
type Loader struct{}

// NewLoader creates a configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadCloneConfig loads configuration from the given file, or from the
// first config file found in the working directory when configPath is
// empty. A missing implicit config file is not an error; the defaults
// are returned.
func (l *Loader) LoadCloneConfig(configPath string) (*domain.CloneRequest, error) {
	req := domain.DefaultCloneRequest()

	v := viper.New()
	v.SetConfigType("toml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		found := findConfigFile(".")
		if found == "" {
			return req, nil
		}
		v.SetConfigFile(found)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, domain.NewInvalidConfigError(fmt.Sprintf("cannot read config file: %v", err))
	}

	var fc FileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, domain.NewInvalidConfigError(fmt.Sprintf("cannot parse config file: %v", err))
	}

	fc.ApplyTo(req)
	return req, nil
}

// SaveCloneConfig writes the request's settings as a TOML config file.
func (l *Loader) SaveCloneConfig(req *domain.CloneRequest, configPath string) error {
	fc := DefaultFileConfig()
	if req != nil {
		recursive := req.Recursive
		showDetails := req.ShowDetails
		fc.Detection.Threshold = req.Config.Threshold
		fc.Detection.Sensitivity = req.Config.Sensitivity
		fc.Detection.MinFragmentTokens = req.Config.MinFragmentTokens
		fc.Detection.MinFragmentLines = req.Config.MinFragmentLines
		fc.Detection.WindowStatements = req.Config.WindowStatements
		fc.Detection.ShingleSize = req.Config.ShingleSize
		fc.Detection.MaxWorkers = req.Config.MaxWorkers
		fc.Detection.IncludeContent = req.Config.IncludeContent
		fc.Input.Paths = req.Paths
		fc.Input.Recursive = &recursive
		fc.Input.IncludePatterns = req.IncludePatterns
		fc.Input.ExcludePatterns = req.ExcludePatterns
		fc.Output.Format = string(req.OutputFormat)
		fc.Output.ShowDetails = &showDetails
	}

	data, err := toml.Marshal(fc)
	if err != nil {
		return domain.NewOutputError("cannot marshal config", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return domain.NewOutputError(fmt.Sprintf("cannot write config file %s", configPath), err)
	}
	return nil
}

// GetDefaultCloneConfig returns the default configuration.
func (l *Loader) GetDefaultCloneConfig() *domain.CloneRequest {
	return domain.DefaultCloneRequest()
}

// findConfigFile returns the first config file present in dir, or "".
func findConfigFile(dir string) string {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
