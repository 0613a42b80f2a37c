package captions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubtitles_SRT(t *testing.T) {
	srt := "1\r\n00:00:01,000 --> 00:00:03,000\r\n[Music]\r\n\r\n" +
		"2\n00:00:03,000 --> 00:00:05,000\nWe're no strangers to love\n\n" +
		"3\n00:00:05,000 --> 00:00:07,000\nYou know the rules\nand so do I\n"

	assert.Equal(t, "We're no strangers to love You know the rules and so do I", ParseSubtitles(srt))
}

func TestParseSubtitles_VTT(t *testing.T) {
	vtt := "WEBVTT\nKind: captions\nLanguage: en\n\n00:00:01.000 --> 00:00:02.000\n<c>Never</c> gonna\n"
	assert.Equal(t, "Never gonna", ParseSubtitles(vtt))
}

func TestParseTimedText(t *testing.T) {
	xmlBody := `<?xml version="1.0" encoding="utf-8" ?><transcript>` +
		`<text start="0.5" dur="2.1">Never gonna give you up</text>` +
		`<text start="2.6" dur="1.9">never gonna let you &amp;#39;down&amp;#39;</text>` +
		`</transcript>`

	got, err := ParseTimedText(strings.NewReader(xmlBody))
	require.NoError(t, err)
	assert.Equal(t, "Never gonna give you up never gonna let you 'down'", got)
}

func TestParseTimedText_Format3(t *testing.T) {
	xmlBody := `<timedtext format="3"><body><p t="0" d="1000"><s>Hello</s><s> world</s></p><p t="1000" d="500">again</p></body></timedtext>`

	got, err := ParseTimedText(strings.NewReader(xmlBody))
	require.NoError(t, err)
	assert.Equal(t, "Hello world again", got)
}

func TestClean_RollingCaptions(t *testing.T) {
	lines := []string{
		"never gonna give",
		"never gonna give you up",
		"give you up never gonna let",
		"never gonna let you down",
		"you down",
	}
	assert.Equal(t, "never gonna give you up never gonna let you down", Clean(lines))
}
