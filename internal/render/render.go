package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/foxseedlab/kikitori/internal/transcript"
)

const (
	ExtJSON     = ".json"
	ExtMarkdown = ".md"
	ExtText     = ".txt"
)

type Outputs struct {
	JSON     []byte
	Markdown []byte
	Text     []byte
}

func Render(result transcript.Result) (Outputs, error) {
	j, err := JSON(result)
	if err != nil {
		return Outputs{}, err
	}
	return Outputs{
		JSON:     j,
		Markdown: Markdown(result),
		Text:     Text(result),
	}, nil
}

func JSON(result transcript.Result) ([]byte, error) {
	if result.Segments == nil {
		result.Segments = []transcript.Segment{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return buf.Bytes(), nil
}

func ParseJSON(data []byte) (transcript.Result, error) {
	var result transcript.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return transcript.Result{}, fmt.Errorf("decode json: %w", err)
	}
	return result, nil
}

func Markdown(result transcript.Result) []byte {
	var b strings.Builder
	b.WriteString("# Interview Transcript\n\n")
	fmt.Fprintf(&b, "*Processed: %s*\n\n", transcript.ProcessedDate(result.Metadata))

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Unique speakers: %d\n", transcript.UniqueSpeakerCount(result.Segments))
	fmt.Fprintf(&b, "- Number of segments: %d\n\n", len(result.Segments))

	b.WriteString("## Transcript\n\n")
	for _, seg := range result.Segments {
		fmt.Fprintf(&b, "### %s (%s - %s)\n\n", seg.Speaker, seg.StartTime, seg.EndTime)
		fmt.Fprintf(&b, "%s\n\n", seg.Text)
	}
	return []byte(b.String())
}

var (
	headerRule  = strings.Repeat("=", 50)
	sectionRule = strings.Repeat("-", 20)
	segmentRule = strings.Repeat("-", 40)
)

func Text(result transcript.Result) []byte {
	var b strings.Builder
	b.WriteString("INTERVIEW TRANSCRIPT\n")
	b.WriteString(headerRule + "\n\n")
	fmt.Fprintf(&b, "Processed: %s\n\n", transcript.ProcessedDate(result.Metadata))

	b.WriteString("SUMMARY:\n")
	b.WriteString(sectionRule + "\n")
	fmt.Fprintf(&b, "Unique speakers: %d\n", transcript.UniqueSpeakerCount(result.Segments))
	fmt.Fprintf(&b, "Number of segments: %d\n\n", len(result.Segments))

	b.WriteString("TRANSCRIPT:\n")
	b.WriteString(sectionRule + "\n\n")
	for _, seg := range result.Segments {
		fmt.Fprintf(&b, "%s (%s - %s)\n", seg.Speaker, seg.StartTime, seg.EndTime)
		b.WriteString(segmentRule + "\n")
		fmt.Fprintf(&b, "%s\n\n", seg.Text)
	}
	return []byte(b.String())
}
