package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/inkstream/inkstream/internal/core"
)

// editText opens the configured editor on a temp file seeded with the
// given text and returns what the user saved.
func editText(initial string) (string, error) {
	editor := core.CurrentConfig().Core.Editor
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		return "", fmt.Errorf("no editor configured; set $EDITOR or [core] editor in config.toml")
	}

	file, err := os.CreateTemp("", "ink-*.md")
	if err != nil {
		return "", err
	}
	defer os.Remove(file.Name())
	if _, err := file.WriteString(initial); err != nil {
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}

	// Support editors invoked with arguments, like "code --wait"
	parts := strings.Fields(editor)
	parts = append(parts, file.Name())
	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor exited with an error: %w", err)
	}

	data, err := os.ReadFile(file.Name())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
