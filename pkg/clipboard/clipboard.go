// Package clipboard abstracts the system clipboard carrying prompts and replies.
package clipboard

import (
	"github.com/atotto/clipboard"
)

var current Clipboard = &SystemClipboard{}

// Clipboard is the read/write capability injected into the exchange workflow.
type Clipboard interface {
	WriteText(text string) error
	ReadText() (string, error)
}

// WriteText copies a text using the current clipboard.
func WriteText(text string) error {
	return current.WriteText(text)
}

// ReadText pastes the current clipboard content.
func ReadText() (string, error) {
	return current.ReadText()
}

// Use overrides the current clipboard.
func Use(c Clipboard) {
	current = c
}

// Reset restores the system clipboard.
// Useful in tests with a defer after overriding the default clipboard.
func Reset() {
	current = &SystemClipboard{}
}

/*
 * SystemClipboard
 */

// SystemClipboard reads and writes the OS clipboard.
type SystemClipboard struct{}

func (c *SystemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

func (c *SystemClipboard) ReadText() (string, error) {
	return clipboard.ReadAll()
}

/*
 * MemoryClipboard
 */

// MemoryClipboard stores the copied text in memory.
// This clipboard is useful for tests and headless environments.
type MemoryClipboard struct {
	content string
}

func NewMemoryClipboard() *MemoryClipboard {
	return &MemoryClipboard{}
}

func (c *MemoryClipboard) WriteText(text string) error {
	c.content = text
	return nil
}

func (c *MemoryClipboard) ReadText() (string, error) {
	return c.content, nil
}

/*
 * FailingClipboard
 */

// FailingClipboard rejects every operation with a fixed error.
// This clipboard simulates an environment without clipboard access.
type FailingClipboard struct {
	Err error
}

func (c *FailingClipboard) WriteText(text string) error {
	return c.Err
}

func (c *FailingClipboard) ReadText() (string, error) {
	return "", c.Err
}
