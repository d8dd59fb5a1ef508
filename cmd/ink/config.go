package main

import (
	"fmt"
	"os"

	"github.com/inkstream/inkstream/internal/core"
)

// LoadConfig reads the configuration and installs the user directive
// overrides before any command runs.
func LoadConfig() {
	config := core.CurrentConfig()
	if err := config.LoadDirectiveOverrides(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
