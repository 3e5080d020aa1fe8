package render

import (
	"fmt"
	"os"
)

const outputFileMode = 0o644

type Paths struct {
	JSON     string
	Markdown string
	Text     string
}

func PathsFor(base string) Paths {
	return Paths{
		JSON:     base + ExtJSON,
		Markdown: base + ExtMarkdown,
		Text:     base + ExtText,
	}
}

func WriteFiles(base string, out Outputs) (Paths, error) {
	paths := PathsFor(base)
	files := []struct {
		path string
		body []byte
	}{
		{paths.JSON, out.JSON},
		{paths.Markdown, out.Markdown},
		{paths.Text, out.Text},
	}
	for _, f := range files {
		if err := os.WriteFile(f.path, f.body, outputFileMode); err != nil {
			return paths, fmt.Errorf("write %s: %w", f.path, err)
		}
	}
	return paths, nil
}
