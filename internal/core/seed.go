package core

import "github.com/inkstream/inkstream/internal/doctree"

var tutorialEntries = []string{
	"# Welcome to Inkstream\n" +
		"\n" +
		"Inkstream keeps your notes in **streams** of entries. This stream walks you through the basics.\n" +
		"\n" +
		"- `ink stream new \"My ideas\"` creates a stream\n" +
		"- `ink add` appends an entry (opens your editor)\n" +
		"- `ink status` shows where you stand",

	"# Talking to an AI\n" +
		"\n" +
		"Inkstream has no API keys. You carry the conversation yourself:\n" +
		"\n" +
		"1. `ink stage <entry>` to pick the entries to send\n" +
		"2. `ink export` copies a prompt to your clipboard\n" +
		"3. Paste it into any chat assistant\n" +
		"4. Copy the reply and run `ink import`\n" +
		"\n" +
		"The exported prompt embeds a short key. The import only succeeds when the reply echoes it back, so replies cannot land in the wrong stream.",

	"# Keeping history\n" +
		"\n" +
		"Entries are editable. `ink commit -m \"msg\"` snapshots an entry, `ink history` lists its versions, and `ink revert` restores an old one.\n" +
		"\n" +
		"When you are done here, `ink stream rm` deletes this tutorial.",
}

// SeedTutorialStream creates the onboarding stream on first init.
func (r *Repository) SeedTutorialStream() (*Stream, error) {
	stream, err := r.CreateStream("Tutorial", "How Inkstream works")
	if err != nil {
		return nil, err
	}
	stream.SetPinned(true)
	stream.SetTags([]string{"tutorial"})
	if err := stream.Save(); err != nil {
		return nil, err
	}
	for _, text := range tutorialEntries {
		if _, err := r.AddEntry(stream.ID, RoleUser, doctree.Parse(text)); err != nil {
			return nil, err
		}
	}
	return stream, nil
}
