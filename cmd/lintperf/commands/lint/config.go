package lint

import (
	"errors"
	"io/fs"

	"github.com/speakeasy-api/lintperf/linter"
	"github.com/speakeasy-api/lintperf/system"
)

// DefaultConfigFile is read from the working directory when --config is not given.
const DefaultConfigFile = ".lintperf.yaml"

// loadConfig loads path, or the default config file when path is empty. A missing default
// file yields the default configuration.
func loadConfig(fsys system.VirtualFS, path string) (*linter.Config, error) {
	if path != "" {
		return linter.LoadConfigFromFile(fsys, path)
	}

	if _, err := fs.Stat(fsys, DefaultConfigFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return linter.NewConfig(), nil
		}
		return nil, err
	}
	return linter.LoadConfigFromFile(fsys, DefaultConfigFile)
}
