package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inkstream/inkstream/internal/bridge"
	"github.com/inkstream/inkstream/pkg/resync"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/slices"
)

// Default config.toml content
const DefaultConfig = `
[core]
editor = ""

[bridge]
directive = "DUMP"
assistant_url = ""

[remote]
type = "fs"
dir = ""
`

var (
	// Lazy-load configuration and ensure a single read
	configOnce      resync.Once
	configSingleton *Config
)

// Note: Fields must be public for the toml package to unmarshal
type Config struct {
	// HomeDirectory is resolved at load time, not persisted.
	HomeDirectory string `toml:"-"`

	Core   ConfigCore
	Bridge ConfigBridge
	Remote ConfigRemote
}

type ConfigCore struct {
	// Editor to use for new entries. Empty means $EDITOR.
	Editor string
}

type ConfigBridge struct {
	// Directive used by export when none is passed explicitly.
	Directive string

	// AssistantURL is the chat page to open after an export.
	AssistantURL string `toml:"assistant_url"`
}

type ConfigRemote struct {
	Type string // "fs" or "s3"

	// fs-specific
	Dir string

	// s3-specific
	Endpoint   string
	BucketName string
	AccessKey  string
	SecretKey  string
	Secure     bool
}

var supportedRemoteTypes = []string{"", "fs", "s3"}

// HomeDirectory returns the application home, overridable through
// the environment for tests and unusual setups.
func HomeDirectory() string {
	if home := os.Getenv("INKSTREAM_HOME"); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		// A process without a home directory cannot run the application
		CurrentLogger().Fatalf("Unable to determine home directory: %v", err)
	}
	return filepath.Join(userHome, ".inkstream")
}

func CurrentConfig() *Config {
	configOnce.Do(func() {
		var err error
		configSingleton, err = ReadConfigFromDirectory(HomeDirectory())
		if err != nil {
			CurrentLogger().Fatalf("Unable to read configuration: %v", err)
		}
	})
	return configSingleton
}

// ReadConfigFromDirectory loads config.toml under the given home directory.
// A missing file yields the default configuration.
func ReadConfigFromDirectory(home string) (*Config, error) {
	config := &Config{HomeDirectory: home}
	if err := toml.Unmarshal([]byte(DefaultConfig), config); err != nil {
		// The default configuration is a constant
		panic(err)
	}

	path := filepath.Join(home, "config.toml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if !slices.Contains(supportedRemoteTypes, config.Remote.Type) {
		return nil, fmt.Errorf("unsupported remote type %q in %s", config.Remote.Type, path)
	}
	return config, nil
}

// DatabasePath returns the path of the SQLite database file.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.HomeDirectory, "database.db")
}

// DirectivesDirectory returns the directory holding user template overrides.
func (c *Config) DirectivesDirectory() string {
	return filepath.Join(c.HomeDirectory, "directives")
}

// DefaultDirective returns the directive export uses when none is passed.
func (c *Config) DefaultDirective() bridge.Directive {
	directive, err := bridge.ParseDirective(c.Bridge.Directive)
	if err != nil {
		return bridge.DirectiveDump
	}
	return directive
}

// ConfiguredRemote instantiates the remote declared in [remote].
func (c *Config) ConfiguredRemote() (Remote, error) {
	switch c.Remote.Type {
	case "s3":
		return NewS3RemoteWithCredentials(
			c.Remote.Endpoint,
			c.Remote.BucketName,
			c.Remote.AccessKey,
			c.Remote.SecretKey,
			c.Remote.Secure)
	case "", "fs":
		dir := c.Remote.Dir
		if dir == "" {
			dir = filepath.Join(c.HomeDirectory, "backups")
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		return NewFSRemote(dir)
	}
	return nil, fmt.Errorf("unsupported remote type %q", c.Remote.Type)
}

// LoadDirectiveOverrides installs the user templates found under the
// directives directory. A file named dump.tmpl overrides the DUMP template.
func (c *Config) LoadDirectiveOverrides() error {
	files, err := os.ReadDir(c.DirectivesDirectory())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".tmpl") {
			continue
		}
		name := strings.TrimSuffix(file.Name(), ".tmpl")
		directive, err := bridge.ParseDirective(name)
		if err != nil {
			CurrentLogger().Warnf("Ignoring directive template %q: %v", file.Name(), err)
			continue
		}
		data, err := os.ReadFile(filepath.Join(c.DirectivesDirectory(), file.Name()))
		if err != nil {
			return err
		}
		if err := bridge.OverrideTemplate(directive, string(data)); err != nil {
			return fmt.Errorf("directive template %q: %w", file.Name(), err)
		}
		CurrentLogger().Debugf("Loaded directive template override %q", file.Name())
	}
	return nil
}

// InitHomeDirectory creates the home directory with its default files.
// Calling it on an initialized home is an error.
func InitHomeDirectory() (string, error) {
	home := HomeDirectory()
	configPath := filepath.Join(home, "config.toml")
	if _, err := os.Stat(configPath); err == nil {
		return home, fmt.Errorf("%s already exists", configPath)
	}
	if err := os.MkdirAll(home, 0755); err != nil {
		return home, err
	}
	if err := os.MkdirAll(filepath.Join(home, "directives"), 0755); err != nil {
		return home, err
	}
	if err := os.WriteFile(configPath, []byte(strings.TrimLeft(DefaultConfig, "\n")), 0644); err != nil {
		return home, err
	}
	return home, nil
}
