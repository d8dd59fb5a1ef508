// Package bridge implements the exchange protocol between streams and an
// external AI assistant: prompt serialization, the response envelope parser,
// and the guards of the pending exchange.
//
// The protocol is asymmetric by design. Prompts are generated by this code
// and are always well-formed; replies are pasted back by a human from an
// assistant that follows instructions loosely, so everything on the way in
// is treated as hostile until validated.
package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/gosimple/slug"
	"github.com/inkstream/inkstream/pkg/text"
	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"
)

// Directive tells the assistant what to do with the staged entries.
type Directive string

const (
	// DirectiveDump asks for a faithful reorganization of the staged text.
	DirectiveDump Directive = "DUMP"
	// DirectiveCritique asks for a critical review of the staged text.
	DirectiveCritique Directive = "CRITIQUE"
	// DirectiveGenerate asks for a continuation of the staged text.
	DirectiveGenerate Directive = "GENERATE"
)

// List of supported directives
var Directives = []Directive{
	DirectiveDump,
	DirectiveCritique,
	DirectiveGenerate,
}

// ParseDirective reads a directive name case-insensitively.
func ParseDirective(name string) (Directive, error) {
	for _, directive := range Directives {
		if strings.EqualFold(name, string(directive)) {
			return directive, nil
		}
	}
	return "", fmt.Errorf("unknown directive %q", name)
}

// TemplateData exposes the two substitution slots of a directive template.
type TemplateData struct {
	// Entries is the serialized staged-entry block.
	Entries string
	// Key is the exchange key the reply must echo back.
	Key string
}

const responseFormat = `Reply using exactly this envelope and nothing outside it:

<bridge-response bridge="{{.Key}}" directive="%s">
<model>your model name</model>
<summary>one-sentence summary of your reply</summary>
<content>
your reply in markdown
</content>
<connections>
- optional: links you see between the entries
</connections>
<gaps>
- optional: what the entries leave unanswered
</gaps>
<next-steps>
- optional: suggested follow-ups
</next-steps>
</bridge-response>

The bridge attribute must contain the literal key {{.Key}} unchanged.`

const dumpTemplate = `The text below contains entries from a personal stream of notes.
Reorganize them into a single coherent document. Keep every idea, merge
duplicates, and order the result logically. Do not add ideas of your own.

{{.Entries}}

` + "%s"

const critiqueTemplate = `The text below contains entries from a personal stream of notes.
Review them critically: point out weak arguments, contradictions between
entries, and claims needing evidence. Be direct and specific.

{{.Entries}}

` + "%s"

const generateTemplate = `The text below contains entries from a personal stream of notes.
Continue the train of thought: develop the ideas further, propose directions
the author has not considered, and draft the next entry in the same voice.

{{.Entries}}

` + "%s"

var directiveTemplates map[Directive]*template.Template

func init() {
	directiveTemplates = make(map[Directive]*template.Template)
	sources := map[Directive]string{
		DirectiveDump:     dumpTemplate,
		DirectiveCritique: critiqueTemplate,
		DirectiveGenerate: generateTemplate,
	}
	for directive, source := range sources {
		text := fmt.Sprintf(source, fmt.Sprintf(responseFormat, directive))
		tmpl, err := ParseTemplate(string(directive), text)
		if err != nil {
			// Built-in templates are constants
			panic(err)
		}
		directiveTemplates[directive] = tmpl
	}
}

// Template returns the prompt template bound to a directive.
func (d Directive) Template() *template.Template {
	return directiveTemplates[d]
}

// OverrideTemplate replaces the template of a directive, for example from a
// user-provided file. The template must keep both substitution slots.
func OverrideTemplate(directive Directive, text string) error {
	if !strings.Contains(text, ".Entries") {
		return errors.New("template must reference .Entries")
	}
	if !strings.Contains(text, ".Key") {
		return errors.New("template must reference .Key")
	}
	tmpl, err := ParseTemplate(string(directive), text)
	if err != nil {
		return err
	}
	directiveTemplates[directive] = tmpl
	return nil
}

// ParseTemplate parses a directive template, supporting additional custom functions.
func ParseTemplate(name, templateText string) (*template.Template, error) {
	// Add additional functions in complement to standard functions
	// See https://pkg.go.dev/text/template#hdr-Functions
	functions := template.FuncMap{
		"json": func(data any) (string, error) {
			jsonData, err := json.Marshal(data)
			if err != nil {
				return "", err
			}
			return string(jsonData), nil
		},
		"jsonPretty": func(data any) (string, error) {
			jsonData, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return "", err
			}
			return string(jsonData), nil
		},
		"yaml": func(data any) (string, error) {
			yamlData, err := yaml.Marshal(data)
			if err != nil {
				return "", err
			}
			return string(yamlData), nil
		},
		"slug": func(data any) string {
			return slug.Make(fmt.Sprintf("%s", data))
		},
		"title": func(data any) string {
			return text.ToBookTitle(fmt.Sprintf("%s", data))
		},
		"jq": func(expr string, data any) (any, error) {
			query, err := gojq.Parse(expr)
			if err != nil {
				return nil, err
			}
			iter := query.Run(data)
			var values []any
			for {
				v, ok := iter.Next()
				if !ok {
					break
				}
				if err, ok := v.(error); ok {
					return nil, err
				}
				values = append(values, v)
			}
			if len(values) == 1 {
				return values[0], nil
			}
			return values, nil
		},
		// join is a templating version of strings.Join
		"join": func(sep string, data any) (string, error) {
			if v, ok := data.(string); ok {
				return v, nil
			}
			if v, ok := data.([]string); ok {
				return strings.Join(v, sep), nil
			}
			if rawValues, ok := data.([]interface{}); ok {
				var v []string
				for _, rawValue := range rawValues {
					if typedValue, ok := rawValue.(string); ok {
						v = append(v, typedValue)
					}
				}
				return strings.Join(v, sep), nil
			}
			return "", errors.New("unsupported type for join")
		},
	}
	tmpl, err := template.New(name).Funcs(functions).Parse(templateText)
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}

// EvaluateTemplate renders a directive template with both slots filled.
func EvaluateTemplate(tmpl *template.Template, data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
