package llm

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"video-digest/domain/model"
)

const truncationMarker = "\n\n[transcript truncated]"

type promptData struct {
	Language  string
	MaxLength int
}

var systemPrompts = map[model.SummaryStyle]*template.Template{
	model.StyleBrief: template.Must(template.New("brief").Parse(
		`You summarize YouTube video transcripts. Write a concise summary in {{.Language}} of at most {{.MaxLength}} words. ` +
			`Capture the main point and the most important supporting ideas. Do not mention that you are reading a transcript.`)),
	model.StyleDetailed: template.Must(template.New("detailed").Parse(
		`You summarize YouTube video transcripts. Write a detailed summary in {{.Language}} of at most {{.MaxLength}} words. ` +
			`Cover every major topic in the order it appears, including key arguments, examples and conclusions. Use short paragraphs.`)),
	model.StyleBullets: template.Must(template.New("bullets").Parse(
		`You summarize YouTube video transcripts. Answer in {{.Language}} with a bulleted list of the key takeaways, ` +
			`at most {{.MaxLength}} words in total. Start each bullet with "- " and keep each one to a single idea.`)),
	model.StyleChapters: template.Must(template.New("chapters").Parse(
		`You summarize YouTube video transcripts. Split the video into chapters and answer in {{.Language}}. ` +
			`For each chapter give a short title line followed by one or two sentences. Stay under {{.MaxLength}} words in total.`)),
}

// SystemPrompt renders the instructions for a style. Unknown styles fall back to brief.
func SystemPrompt(opts model.SummaryOptions) (string, error) {
	tmpl, ok := systemPrompts[opts.Style]
	if !ok {
		tmpl = systemPrompts[model.StyleBrief]
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{Language: opts.Language, MaxLength: opts.MaxLength}); err != nil {
		return "", fmt.Errorf("executing prompt template: %w", err)
	}
	return buf.String(), nil
}

// Truncate keeps at most limit runes, cutting back to the last word
// boundary and appending a marker when anything was dropped.
func Truncate(text string, limit int) string {
	runes := []rune(strings.TrimSpace(text))
	if limit <= 0 || len(runes) <= limit {
		return string(runes)
	}

	cut := limit
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		cut = limit
	}
	return strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace) + truncationMarker
}
