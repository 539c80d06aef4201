// Package chunker splits markdown text into ordered description blocks.
// Outline preambles and note descriptions are stored as block sequences;
// anything arriving as raw text (stencil content, stdin) goes through here.
package chunker

import (
	"strings"
)

// Blocks splits text into description blocks on heading lines and blank
// lines. Code fences are kept together. Empty input yields nil.
func Blocks(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	var blocks []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		t := strings.TrimSpace(strings.Join(current, "\n"))
		if t != "" {
			blocks = append(blocks, t)
		}
		current = nil
	}

	inFence := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if !inFence {
				flush()
			}
			inFence = !inFence
			current = append(current, line)
			if !inFence {
				flush()
			}
			continue
		}
		if inFence {
			current = append(current, line)
			continue
		}

		// Headings start a new block
		if strings.HasPrefix(trimmed, "#") {
			flush()
			current = append(current, line)
			flush()
			continue
		}

		// Blank lines separate blocks
		if trimmed == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return blocks
}

// Join renders a block sequence back into markdown.
func Join(blocks []string) string {
	return strings.Join(blocks, "\n\n")
}
