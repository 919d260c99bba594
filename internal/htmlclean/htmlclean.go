// Package htmlclean extracts the visible text of a post's HTML body.
package htmlclean

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Text returns the text nodes of content joined by single spaces.
// Script and style bodies are skipped. Character references are decoded by
// the tokenizer, so the result is plain text.
func Text(content string) (string, error) {
	return Read(strings.NewReader(content))
}

// Read is Text for a stream.
func Read(r io.Reader) (string, error) {
	tokenizer := html.NewTokenizer(r)
	var b strings.Builder
	skip := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if tokenizer.Err() == io.EOF {
				return strings.TrimSpace(b.String()), nil
			}
			return "", fmt.Errorf("tokenize html: %w", tokenizer.Err())

		case html.StartTagToken:
			if isRawText(tokenizer) {
				skip++
			}

		case html.EndTagToken:
			if isRawText(tokenizer) && skip > 0 {
				skip--
			}

		case html.TextToken:
			if skip > 0 {
				continue
			}
			text := strings.TrimSpace(string(tokenizer.Text()))
			if text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(text)
		}
	}
}

func isRawText(t *html.Tokenizer) bool {
	name, _ := t.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}
