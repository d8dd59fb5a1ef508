package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/inkstream/inkstream/pkg/clock"
	"github.com/inkstream/inkstream/pkg/key"
)

// Reset forces singletons to be recreated. Useful between unit tests.
func Reset() {
	configOnce.Reset()
	dbClientOnce.Reset()
	dbOnce.Reset()
	loggerOnce.Reset()
	repositoryOnce.Reset()
}

/* Fixtures */

// SetUpRepositoryFromTempDir initializes an empty application home in a
// temp directory so that CurrentConfig() and CurrentDB() work.
func SetUpRepositoryFromTempDir(t *testing.T) string {
	dirname := t.TempDir()
	configureHome(t, dirname)
	return dirname
}

func configureHome(t *testing.T, dirname string) {
	configPath := filepath.Join(dirname, "config.toml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Create a default configuration if not exists for CurrentConfig() to work
		if err := os.WriteFile(configPath, []byte(strings.TrimLeft(DefaultConfig, "\n")), 0644); err != nil {
			t.Fatal(err)
		}
	}
	// Force the application to consider the temporary directory as the home
	os.Setenv("INKSTREAM_HOME", dirname)
	t.Cleanup(func() {
		CurrentDB().Close()
		os.Unsetenv("INKSTREAM_HOME")
		Reset()
	})

	// Force debug level in tests to diagnose more easily
	CurrentLogger().SetVerboseLevel(VerboseDebug)
	CurrentLogger().Debugf("✨ Set up home %q", dirname)
}

/* Reproducible Tests */

// FreezeNow wraps the clock API to register the cleanup function at the end of the test.
// The frozen time is stripped of its monotonic reading so it survives a
// database round trip unchanged.
func FreezeNow(t *testing.T) time.Time {
	return FreezeAt(t, time.Now().UTC().Round(0))
}

// FreezeAt wraps the clock API to register the cleanup function at the end of the test.
func FreezeAt(t *testing.T, point time.Time) time.Time {
	clock.FreezeAt(point)
	t.Cleanup(clock.Unfreeze)
	return point
}

// SetNextKeys configures a predefined list of exchange keys.
func SetNextKeys(t *testing.T, keys ...string) {
	key.UseNext(t, keys...)
}
