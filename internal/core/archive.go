package core

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/inkstream/inkstream/internal/doctree"
	"gopkg.in/yaml.v3"
)

// archiveFrontMatter is the YAML header of one archived stream file.
type archiveFrontMatter struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Color       string   `yaml:"color,omitempty"`
	Pinned      bool     `yaml:"pinned,omitempty"`
	CreatedAt   string   `yaml:"created_at"`
}

var reArchiveEntry = regexp.MustCompile(`(?m)^<!-- entry role="(user|ai)" time="([^"]*)" -->$`)

// BackupStreams archives every stream to the remote as a markdown file
// with a YAML front matter. Entry content round-trips through the
// document renderer and parser; versions and staging state are not
// archived.
func (r *Repository) BackupStreams(remote Remote) (int, error) {
	streams, err := r.ListStreams()
	if err != nil {
		return 0, err
	}
	for _, stream := range streams {
		entries, err := r.Entries(stream.ID)
		if err != nil {
			return 0, err
		}
		data, err := marshalArchive(stream, entries)
		if err != nil {
			return 0, err
		}
		key := archiveKey(stream)
		if err := remote.PutObject(key, data); err != nil {
			return 0, fmt.Errorf("uploading %s: %w", key, err)
		}
		CurrentLogger().Infof("Archived stream %q to %s", stream.Title, key)
	}
	return len(streams), nil
}

// RestoreStreams recreates the archived streams found on the remote.
// Streams whose ID already exists locally are skipped.
func (r *Repository) RestoreStreams(remote Remote) (int, error) {
	restored := 0
	err := remote.WalkObjects("streams/", func(key string) error {
		if !strings.HasSuffix(key, ".md") {
			return nil
		}
		data, err := remote.GetObject(key)
		if err != nil {
			return fmt.Errorf("downloading %s: %w", key, err)
		}
		ok, err := r.restoreArchive(data)
		if err != nil {
			return fmt.Errorf("restoring %s: %w", key, err)
		}
		if ok {
			restored++
		}
		return nil
	})
	return restored, err
}

func archiveKey(stream *Stream) string {
	short := stream.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("streams/%s-%s.md", slug.Make(stream.Title), short)
}

func marshalArchive(stream *Stream, entries []*Entry) ([]byte, error) {
	frontMatter, err := yaml.Marshal(archiveFrontMatter{
		ID:          stream.ID,
		Title:       stream.Title,
		Description: stream.Description,
		Tags:        stream.Tags,
		Color:       stream.Color,
		Pinned:      stream.Pinned,
		CreatedAt:   stream.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(frontMatter)
	buf.WriteString("---\n")
	for _, entry := range entries {
		buf.WriteString(fmt.Sprintf("\n<!-- entry role=%q time=%q -->\n\n",
			entry.Role, entry.CreatedAt.UTC().Format(time.RFC3339)))
		buf.WriteString(doctree.Render(entry.Content))
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// restoreArchive rebuilds one stream from its archive file.
// Returns false when the stream already exists.
func (r *Repository) restoreArchive(data []byte) (bool, error) {
	frontMatter, body, err := splitFrontMatter(data)
	if err != nil {
		return false, err
	}

	existing, err := QueryStream(CurrentDB().Client(), "WHERE id = ?", frontMatter.ID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		CurrentLogger().Debugf("Stream %s already exists, skipping", frontMatter.ID)
		return false, nil
	}

	stream := NewStream(frontMatter.Title)
	stream.ID = frontMatter.ID
	stream.Description = frontMatter.Description
	stream.Tags = frontMatter.Tags
	stream.Color = frontMatter.Color
	stream.Pinned = frontMatter.Pinned
	if createdAt, err := time.Parse(time.RFC3339, frontMatter.CreatedAt); err == nil {
		stream.CreatedAt = createdAt
	}
	if err := stream.Save(); err != nil {
		return false, err
	}

	for _, section := range splitArchiveEntries(body) {
		entry, err := r.AddEntry(stream.ID, section.role, doctree.Parse(section.content))
		if err != nil {
			return false, err
		}
		if createdAt, err := time.Parse(time.RFC3339, section.time); err == nil {
			// Preserve the archived timestamp over the restore time
			query := `UPDATE entries SET created_at = ? WHERE id = ?;`
			if _, err := CurrentDB().Client().Exec(query, timeToSQL(createdAt), entry.ID); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}

func splitFrontMatter(data []byte) (*archiveFrontMatter, string, error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !strings.HasPrefix(content, "---\n") {
		return nil, "", fmt.Errorf("missing front matter")
	}
	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---\n")
	if end < 0 {
		return nil, "", fmt.Errorf("unterminated front matter")
	}

	var frontMatter archiveFrontMatter
	if err := yaml.Unmarshal([]byte(rest[:end]), &frontMatter); err != nil {
		return nil, "", fmt.Errorf("invalid front matter: %w", err)
	}
	return &frontMatter, rest[end+len("\n---\n"):], nil
}

type archiveEntry struct {
	role    string
	time    string
	content string
}

func splitArchiveEntries(body string) []archiveEntry {
	markers := reArchiveEntry.FindAllStringSubmatchIndex(body, -1)
	var sections []archiveEntry
	for i, marker := range markers {
		contentStart := marker[1]
		contentEnd := len(body)
		if i+1 < len(markers) {
			contentEnd = markers[i+1][0]
		}
		sections = append(sections, archiveEntry{
			role:    body[marker[2]:marker[3]],
			time:    body[marker[4]:marker[5]],
			content: strings.TrimSpace(body[contentStart:contentEnd]),
		})
	}
	return sections
}
