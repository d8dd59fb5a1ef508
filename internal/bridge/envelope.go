package bridge

import (
	"fmt"
	"regexp"
	"strings"
)

// Strategy names the parsing strategy that matched a reply.
type Strategy string

const (
	// StrategyStrict matched the full envelope with attributes in canonical order.
	StrategyStrict Strategy = "strict"
	// StrategyReversed matched the full envelope with attributes reversed.
	StrategyReversed Strategy = "reversed"
	// StrategyLoose matched the envelope tags only and scavenged the rest.
	StrategyLoose Strategy = "loose"
	// StrategyLegacy matched a bare key marker without any envelope.
	StrategyLegacy Strategy = "legacy"
	// StrategyNone matched nothing; the reply is plain text.
	StrategyNone Strategy = "none"
)

// Envelope is the result of parsing a pasted reply.
// IsStructured is only true after strict validation succeeded; otherwise the
// structured fields are cleared and Content falls back to a cleaned copy of
// the raw input.
type Envelope struct {
	Content      string
	ExchangeKey  string
	ModelName    string
	Summary      string
	Directive    *Directive
	Metadata     map[string][]string
	Strategy     Strategy
	IsStructured bool
	Warnings     []string
}

// metadataSections lists the optional named sections an envelope may carry.
var metadataSections = []string{"connections", "gaps", "next-steps"}

var (
	reEnvelopeStrict = regexp.MustCompile(
		`(?is)<bridge-response\s+bridge\s*=\s*"([^"]*)"\s+directive\s*=\s*"([^"]*)"\s*>(.*?)</bridge-response>`)
	reEnvelopeReversed = regexp.MustCompile(
		`(?is)<bridge-response\s+directive\s*=\s*"([^"]*)"\s+bridge\s*=\s*"([^"]*)"\s*>(.*?)</bridge-response>`)
	reEnvelopeOpen  = regexp.MustCompile(`(?i)<bridge-response\b[^>]*>`)
	reEnvelopeClose = regexp.MustCompile(`(?i)</bridge-response>`)
	reAttrBridge    = regexp.MustCompile(`(?i)bridge\s*=\s*"([^"]*)"`)
	reAttrDirective = regexp.MustCompile(`(?i)directive\s*=\s*"([^"]*)"`)

	// Legacy marker embedding the bare key, tolerant of HTML-entity-escaped
	// angle brackets pasted from rendered views.
	reLegacyKey = regexp.MustCompile(`(?i)(?:<|&lt;)!--\s*bridge\s*:\s*([a-zA-Z0-9]+)\s*--(?:>|&gt;)`)

	reKeyAlnum    = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	rePreamble    = regexp.MustCompile(`(?i)^(here('|’)?s?\s|here is\s|sure[,!:]?\s|certainly[,!.:]?\s|of course[,!:]?\s|absolutely[,!:]?\s)`)
	reAnyTag      = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9-]*(?:\s[^<>]*?)?/?>`)
	reLineBreak   = regexp.MustCompile(`(?i)^<br\s*/?>$`)
	reBlankRuns   = regexp.MustCompile(`\n{3,}`)
	rePlaceholder = regexp.MustCompile(`[\[\]{}<>]`)
)

// envelopeFields is the raw output of one matching strategy, before validation.
type envelopeFields struct {
	key       string
	directive string
	model     string
	summary   string
	content   string
	metadata  map[string][]string
	warnings  []string
	// contentFallback records that content extraction fell back past the
	// primary sub-element lookup. Strict validation rejects on it; keeping
	// it an explicit flag avoids inferring the condition from warning text.
	contentFallback bool
}

type strategyMatcher struct {
	name  Strategy
	match func(raw string) (*envelopeFields, bool)
}

// strategies are tried in order; each one is strictly more lenient than
// the previous one.
var strategies = []strategyMatcher{
	{StrategyStrict, matchStrict},
	{StrategyReversed, matchReversed},
	{StrategyLoose, matchLoose},
	{StrategyLegacy, matchLegacy},
}

// ParseResponse locates and validates the response envelope inside a raw
// pasted reply. It never fails: when nothing matches or validation rejects
// the envelope, the result degrades to the cleaned raw text as content.
func ParseResponse(raw string) *Envelope {
	env := &Envelope{
		Strategy: StrategyNone,
		Metadata: map[string][]string{},
	}

	var fields *envelopeFields
	for _, strategy := range strategies {
		if f, ok := strategy.match(raw); ok {
			env.Strategy = strategy.name
			fields = f
			break
		}
	}

	if fields == nil {
		env.Content = normalizeWhitespace(stripMarkup(raw))
		env.Warnings = append(env.Warnings, "no response envelope found")
		return env
	}

	env.Warnings = append(env.Warnings, fields.warnings...)
	env.Content = normalizeWhitespace(stripMarkup(fields.content))
	env.ExchangeKey = fields.key
	env.ModelName = strings.TrimSpace(fields.model)
	env.Summary = strings.TrimSpace(fields.summary)
	for name, items := range fields.metadata {
		env.Metadata[name] = items
	}
	if fields.directive != "" {
		if directive, err := ParseDirective(fields.directive); err == nil {
			env.Directive = &directive
		} else {
			env.Warnings = append(env.Warnings, err.Error())
		}
	}

	if env.Strategy == StrategyLegacy {
		// A bare key marker is never enough to treat the reply as structured.
		env.Warnings = append(env.Warnings, "legacy key marker without envelope")
		return env
	}

	env.IsStructured = true
	validate(raw, fields, env)
	return env
}

// validate applies the strict validation pass on a provisionally structured
// envelope. Rejection clears the structured fields and reconstructs content
// from the raw text, so the reply is never thrown away.
func validate(raw string, fields *envelopeFields, env *Envelope) {
	var rejections []string
	switch {
	case fields.key == "":
		rejections = append(rejections, "bridge key is missing")
	case rePlaceholder.MatchString(fields.key):
		rejections = append(rejections, fmt.Sprintf("bridge key %q still contains a placeholder", fields.key))
	case !reKeyAlnum.MatchString(fields.key):
		rejections = append(rejections, fmt.Sprintf("bridge key %q is not alphanumeric", fields.key))
	}
	if fields.model == "" {
		rejections = append(rejections, "model element is missing")
	}
	if fields.summary == "" {
		rejections = append(rejections, "summary element is missing")
	}
	if fields.contentFallback {
		rejections = append(rejections, "content element is missing")
	}
	if len(rejections) == 0 {
		return
	}

	env.Warnings = append(env.Warnings, rejections...)
	env.IsStructured = false
	env.ExchangeKey = ""
	env.ModelName = ""
	env.Summary = ""
	env.Directive = nil
	env.Metadata = map[string][]string{}
	env.Content = normalizeWhitespace(stripMarkup(stripEnvelopeTags(raw)))
}

/* Strategies */

func matchStrict(raw string) (*envelopeFields, bool) {
	m := reEnvelopeStrict.FindStringSubmatch(raw)
	if m == nil {
		return nil, false
	}
	return matchBody(m[1], m[2], m[3])
}

func matchReversed(raw string) (*envelopeFields, bool) {
	m := reEnvelopeReversed.FindStringSubmatch(raw)
	if m == nil {
		return nil, false
	}
	return matchBody(m[2], m[1], m[3])
}

// matchBody extracts the required sub-elements of a strictly matched body.
// A missing required element fails the whole strategy so a more lenient
// one can take over.
func matchBody(key, directive, body string) (*envelopeFields, bool) {
	model, ok := extractClosedElement(body, "model")
	if !ok {
		return nil, false
	}
	summary, ok := extractClosedElement(body, "summary")
	if !ok {
		return nil, false
	}
	content, ok := extractClosedElement(body, "content")
	if !ok {
		return nil, false
	}
	return &envelopeFields{
		key:       key,
		directive: directive,
		model:     model,
		summary:   summary,
		content:   content,
		metadata:  extractMetadata(body),
	}, true
}

// matchLoose only requires the envelope tags; everything else is extracted
// independently and tolerates missing closing tags.
func matchLoose(raw string) (*envelopeFields, bool) {
	open := reEnvelopeOpen.FindStringIndex(raw)
	if open == nil {
		return nil, false
	}
	openTag := raw[open[0]:open[1]]
	body := raw[open[1]:]
	var warnings []string
	if closing := reEnvelopeClose.FindStringIndex(body); closing != nil {
		body = body[:closing[0]]
	} else {
		warnings = append(warnings, "envelope closing tag is missing")
	}

	fields := &envelopeFields{
		metadata: extractMetadata(body),
		warnings: warnings,
	}
	if m := reAttrBridge.FindStringSubmatch(openTag); m != nil {
		fields.key = m[1]
	}
	if m := reAttrDirective.FindStringSubmatch(openTag); m != nil {
		fields.directive = m[1]
	}
	fields.model, _ = extractLenientElement(body, "model")
	fields.summary, _ = extractLenientElement(body, "summary")

	if content, ok := extractClosedElement(body, "content"); ok {
		fields.content = content
	} else if content, ok := extractLenientElement(body, "content"); ok {
		fields.content = content
		fields.warnings = append(fields.warnings, "content closing tag is missing")
	} else {
		// Last resort: the body minus the recognized sub-elements
		fields.content = stripKnownElements(body)
		fields.contentFallback = true
		fields.warnings = append(fields.warnings, "content element not found in envelope")
	}
	return fields, true
}

// matchLegacy searches for the bare key marker used before the envelope
// format existed.
func matchLegacy(raw string) (*envelopeFields, bool) {
	m := reLegacyKey.FindStringSubmatch(raw)
	if m == nil {
		return nil, false
	}
	content := reLegacyKey.ReplaceAllString(raw, "")
	return &envelopeFields{
		key:     strings.ToLower(m[1]),
		content: stripPreamble(content),
	}, true
}

/* Element extraction */

func extractClosedElement(body, name string) (string, bool) {
	re := regexp.MustCompile(`(?is)<` + name + `>(.*?)</` + name + `>`)
	m := re.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// extractLenientElement accepts an unclosed element, reading up to the next
// recognized tag or the end of the body.
func extractLenientElement(body, name string) (string, bool) {
	if value, ok := extractClosedElement(body, name); ok {
		return value, true
	}
	re := regexp.MustCompile(`(?is)<` + name + `>(.*)`)
	m := re.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	value := m[1]
	if next := reKnownTag.FindStringIndex(value); next != nil {
		value = value[:next[0]]
	}
	return strings.TrimSpace(value), true
}

var reKnownTag = regexp.MustCompile(`(?i)</?(model|summary|content|connections|gaps|next-steps|bridge-response)\b[^>]*>`)

// extractMetadata reads the optional named sections as dash-prefixed lists.
func extractMetadata(body string) map[string][]string {
	metadata := make(map[string][]string)
	for _, section := range metadataSections {
		value, ok := extractClosedElement(body, section)
		if !ok {
			continue
		}
		var items []string
		for _, line := range strings.Split(value, "\n") {
			line = strings.TrimSpace(line)
			line = strings.TrimPrefix(line, "- ")
			line = strings.TrimPrefix(line, "* ")
			if line != "" {
				items = append(items, line)
			}
		}
		if len(items) > 0 {
			metadata[section] = items
		}
	}
	return metadata
}

func stripKnownElements(body string) string {
	for _, name := range []string{"model", "summary", "connections", "gaps", "next-steps"} {
		re := regexp.MustCompile(`(?is)<` + name + `>.*?</` + name + `>`)
		body = re.ReplaceAllString(body, "")
	}
	return body
}

// stripEnvelopeTags removes the envelope and named sub-element tags while
// keeping their inner text.
func stripEnvelopeTags(raw string) string {
	raw = reEnvelopeOpen.ReplaceAllString(raw, "")
	raw = reEnvelopeClose.ReplaceAllString(raw, "")
	raw = reKnownTag.ReplaceAllString(raw, "")
	raw = reLegacyKey.ReplaceAllString(raw, "")
	return raw
}

/* Cleanup passes, applied whatever the strategy */

// stripMarkup removes generic tag noise without destroying the line-break
// markers embedded in pipe-table cells.
func stripMarkup(text string) string {
	return reAnyTag.ReplaceAllStringFunc(text, func(tag string) string {
		if reLineBreak.MatchString(tag) {
			return tag
		}
		return ""
	})
}

// normalizeWhitespace collapses runs of 3+ newlines to 2 and trims the ends.
func normalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = reBlankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// stripPreamble drops the generic AI openings preceding legacy replies.
func stripPreamble(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for len(lines) > 0 && rePreamble.MatchString(strings.TrimSpace(lines[0])) {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}
