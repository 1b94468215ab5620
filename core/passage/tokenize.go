package passage

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/versekit/core/errors"
)

// Delimiter classes. They share no characters.
const (
	VerseDelimiters = " :."
	RangeDelimiters = "-"
	ListDelimiters  = ",;\n\r\t"
)

// partLexer splits a single reference such as "1 Cor 13:4" into words and numbers.
var partLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "EndMark", Pattern: `\$|[fF][fF]\b`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Word", Pattern: `\pL+`},
	{Name: "Delim", Pattern: `[ :.]+`},
	{Name: "Other", Pattern: `.`},
})

// rangeLexer splits "start-end".
var rangeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Delim", Pattern: `-+`},
	{Name: "Text", Pattern: `[^-]+`},
})

// listLexer splits a list of references.
var listLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Delim", Pattern: `[,;\n\r\t]+`},
	{Name: "Text", Pattern: `[^,;\n\r\t]+`},
})

var (
	partSymbols  = partLexer.Symbols()
	rangeSymbols = rangeLexer.Symbols()
	listSymbols  = listLexer.Symbols()
)

var romanNumerals = map[string]string{"i": "1", "ii": "2", "iii": "3"}

func lexAll(def *lexer.StatefulDefinition, s string) ([]lexer.Token, error) {
	lex, err := def.LexString("", s)
	if err != nil {
		return nil, err
	}
	return lexer.ConsumeAll(lex)
}

// tokenize breaks one reference into its parts: an optional book name
// followed by chapter and verse numbers or end markers. Numbered books are
// joined ("2 Ki" and "II Ki" both give "2Ki"), multi-word names are kept
// together ("Song of Solomon") and a name glued to a number is split
// ("Gen1" gives "Gen", "1").
func tokenize(s string) ([]string, error) {
	toks, err := lexAll(partLexer, s)
	if err != nil {
		return nil, errors.NewNoSuchVerse(s, err.Error())
	}

	var items []lexer.Token
	for _, tok := range toks {
		switch tok.Type {
		case lexer.EOF, partSymbols["Delim"]:
		case partSymbols["Other"]:
			return nil, errors.NewNoSuchVersef(s, "unexpected %q", tok.Value)
		default:
			items = append(items, tok)
		}
	}

	var parts []string
	wordOpen := false
	for i := 0; i < len(items); i++ {
		tok := items[i]
		switch tok.Type {
		case partSymbols["Number"], partSymbols["Word"]:
			if i == 0 && i+1 < len(items) && items[1].Type == partSymbols["Word"] {
				if n, ok := bookPrefix(tok); ok {
					parts = append(parts, n+items[1].Value)
					wordOpen = true
					i++
					continue
				}
			}
			if tok.Type == partSymbols["Word"] {
				if wordOpen {
					parts[len(parts)-1] += " " + tok.Value
				} else {
					parts = append(parts, tok.Value)
					wordOpen = true
				}
				continue
			}
			parts = append(parts, tok.Value)
			wordOpen = false
		default:
			parts = append(parts, tok.Value)
			wordOpen = false
		}
	}
	return parts, nil
}

// bookPrefix returns the arabic form of a leading book number.
func bookPrefix(tok lexer.Token) (string, bool) {
	if tok.Type == partSymbols["Number"] {
		return tok.Value, true
	}
	n, ok := romanNumerals[strings.ToLower(tok.Value)]
	return n, ok
}

// splitRange returns the start and optional end text of a range. More than
// one range delimiter is an error.
func splitRange(s string) (start, end string, err error) {
	toks, err := lexAll(rangeLexer, s)
	if err != nil {
		return "", "", errors.NewNoSuchVerse(s, err.Error())
	}
	delims := 0
	for _, tok := range toks {
		switch tok.Type {
		case rangeSymbols["Delim"]:
			delims++
			if delims > 1 || len(tok.Value) > 1 {
				return "", "", errors.NewNoSuchVerse(s, "too many range delimiters")
			}
		case rangeSymbols["Text"]:
			if delims == 0 {
				start = tok.Value
			} else {
				end = tok.Value
			}
		}
	}
	return strings.TrimSpace(start), strings.TrimSpace(end), nil
}

// splitList returns the non-blank items of a reference list.
func splitList(s string) ([]string, error) {
	toks, err := lexAll(listLexer, s)
	if err != nil {
		return nil, errors.NewNoSuchVerse(s, err.Error())
	}
	var items []string
	for _, tok := range toks {
		if tok.Type != listSymbols["Text"] {
			continue
		}
		if item := strings.TrimSpace(tok.Value); item != "" {
			items = append(items, item)
		}
	}
	return items, nil
}

func isEndMarker(s string) bool {
	return s == "$" || strings.EqualFold(s, "ff")
}
