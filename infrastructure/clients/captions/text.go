// Package captions turns caption files into plain transcript text.
package captions

import (
	"encoding/xml"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var (
	tagPattern = regexp.MustCompile(`<[^>]+>`)
	// Sound cues such as [Music] or (applause) carry no speech.
	cuePattern = regexp.MustCompile(`^(\[[^\]]*\]|\([^)]*\)|♪+)$`)
)

// ParseSubtitles reads SRT or WebVTT and returns cleaned text.
func ParseSubtitles(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "-->") || isIndexLine(line) || isVTTHeader(line) {
			continue
		}
		lines = append(lines, line)
	}
	return Clean(lines)
}

// ParseTimedText reads the XML served by the timedtext endpoint, either the
// <text> form or the format-3 <p> form.
func ParseTimedText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	var (
		lines   []string
		current strings.Builder
		inCue   bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "text" || t.Name.Local == "p" {
				inCue = true
				current.Reset()
			}
		case xml.CharData:
			if inCue {
				current.Write(t)
			}
		case xml.EndElement:
			if inCue && (t.Name.Local == "text" || t.Name.Local == "p") {
				inCue = false
				lines = append(lines, current.String())
			}
		}
	}
	return Clean(lines), nil
}

// Clean unescapes, drops cue-only lines, removes the repetition produced by
// rolling auto-captions and joins everything with single spaces.
func Clean(lines []string) string {
	var out []string
	for _, raw := range lines {
		line := html.UnescapeString(tagPattern.ReplaceAllString(raw, ""))
		line = strings.Join(strings.Fields(line), " ")
		if line == "" || cuePattern.MatchString(line) {
			continue
		}
		if n := len(out); n > 0 {
			prev := out[n-1]
			if line == prev || (strings.Contains(line, " ") && strings.Contains(prev, line)) {
				continue
			}
			if strings.HasPrefix(line, prev) {
				out[n-1] = line
				continue
			}
			if k := wordOverlap(prev, line); k > 0 {
				line = strings.Join(strings.Fields(line)[k:], " ")
				if line == "" {
					continue
				}
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, " ")
}

// wordOverlap returns how many leading words of next repeat the tail of prev.
// Single-word overlaps are ignored since they are usually coincidence.
func wordOverlap(prev, next string) int {
	p, n := strings.Fields(prev), strings.Fields(next)
	max := len(p)
	if len(n) < max {
		max = len(n)
	}
	for k := max; k >= 2; k-- {
		if strings.Join(p[len(p)-k:], " ") == strings.Join(n[:k], " ") {
			return k
		}
	}
	return 0
}

func isIndexLine(line string) bool {
	_, err := strconv.Atoi(line)
	return err == nil
}

func isVTTHeader(line string) bool {
	return strings.HasPrefix(line, "WEBVTT") ||
		strings.HasPrefix(line, "Kind:") ||
		strings.HasPrefix(line, "Language:") ||
		strings.HasPrefix(line, "NOTE")
}
