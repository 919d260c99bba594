package lang

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
)

// Lexicon is an in-memory form → lemma dictionary.
//
// The source format is one entry per line:
//
//	form<TAB>lemma[<TAB>grammemes]
//
// Blank lines and lines starting with '#' are skipped. A form may appear on
// several lines; candidates keep file order. The map is never written after
// loading, so concurrent Parse calls need no locking.
type Lexicon struct {
	forms map[string][]Parse
}

// LoadLexicon reads a lexicon from r.
func LoadLexicon(r io.Reader) (*Lexicon, error) {
	fold := cases.Fold()
	lex := &Lexicon{forms: make(map[string][]Parse)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
			return nil, fmt.Errorf("lexicon line %d: expected form<TAB>lemma", lineNo)
		}

		form := fold.String(strings.TrimSpace(fields[0]))
		p := Parse{
			Word:       form,
			NormalForm: fold.String(strings.TrimSpace(fields[1])),
		}
		if len(fields) > 2 {
			p.Grammemes = strings.TrimSpace(fields[2])
		}
		lex.add(p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}

	return lex, nil
}

// LoadLexiconFile reads a lexicon from the file at path.
func LoadLexiconFile(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()

	return LoadLexicon(f)
}

// EmptyLexicon returns a lexicon that knows no words.
func EmptyLexicon() *Lexicon {
	return &Lexicon{forms: map[string][]Parse{}}
}

func (l *Lexicon) add(p Parse) {
	for _, existing := range l.forms[p.Word] {
		if existing.NormalForm == p.NormalForm && existing.Grammemes == p.Grammemes {
			return
		}
	}
	l.forms[p.Word] = append(l.forms[p.Word], p)
}

// Len returns the number of distinct surface forms.
func (l *Lexicon) Len() int { return len(l.forms) }

// Parse returns a copy of the dictionary candidates for word.
func (l *Lexicon) Parse(word string) ([]Parse, error) {
	found := l.forms[word]
	if len(found) == 0 {
		return nil, nil
	}
	out := make([]Parse, len(found))
	copy(out, found)
	return out, nil
}
