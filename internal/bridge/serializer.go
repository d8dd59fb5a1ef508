package bridge

import (
	"fmt"
	"strings"
	"time"

	"github.com/inkstream/inkstream/internal/doctree"
	"github.com/inkstream/inkstream/pkg/clock"
	"github.com/inkstream/inkstream/pkg/key"
)

// StagedRef identifies the exact version of an entry captured at export time.
type StagedRef struct {
	EntryID string `json:"id"`
	Version int    `json:"version"`
}

// StagedEntry is one entry handed to the serializer.
type StagedEntry struct {
	ID        string
	Role      string
	Sequence  int
	Version   int
	CreatedAt time.Time
	Doc       *doctree.Node
}

// Prompt is the result of one export.
type Prompt struct {
	ExchangeKey  string
	Text         string
	StagedRefs   []StagedRef
	Directive    Directive
	Timestamp    time.Time
	ApproxTokens int
}

// BuildPrompt renders the staged entries into the directive template and
// stamps the result with a freshly generated exchange key.
//
// An empty entry sequence yields the template's static text only; callers
// are expected to reject empty staging beforehand.
func BuildPrompt(entries []StagedEntry, directive Directive) (*Prompt, error) {
	exchangeKey := key.New()

	var blocks []string
	var refs []StagedRef
	for _, entry := range entries {
		blocks = append(blocks, renderEntryBlock(entry))
		refs = append(refs, StagedRef{EntryID: entry.ID, Version: entry.Version})
	}

	text, err := EvaluateTemplate(directive.Template(), TemplateData{
		Entries: strings.Join(blocks, "\n\n"),
		Key:     exchangeKey,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering directive %s: %w", directive, err)
	}

	return &Prompt{
		ExchangeKey:  exchangeKey,
		Text:         text,
		StagedRefs:   refs,
		Directive:    directive,
		Timestamp:    clock.Now(),
		ApproxTokens: approximateTokens(text),
	}, nil
}

// renderEntryBlock wraps one rendered entry in a tagged block carrying
// its identity, sequence number, and creation timestamp.
func renderEntryBlock(entry StagedEntry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<entry id=%q seq=%q time=%q>\n",
		entry.ID,
		fmt.Sprint(entry.Sequence),
		entry.CreatedAt.UTC().Format(time.RFC3339)))
	sb.WriteString(doctree.Render(entry.Doc))
	sb.WriteString("\n</entry>")
	return sb.String()
}

// approximateTokens estimates the token count of a prompt.
// Four characters per token is close enough for a usage gauge.
func approximateTokens(text string) int {
	return (len(text) + 3) / 4
}
