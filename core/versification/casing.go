package versification

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/FocuswithJustin/versekit/core/errors"
)

// Case selects how names are capitalised.
type Case int

// Case modes. CaseMixed only describes input such as "LORD's"; it cannot be
// used for rendering.
const (
	CaseLower Case = iota
	CaseSentence
	CaseUpper
	CaseMixed
)

var caseNames = map[Case]string{
	CaseLower:    "lower",
	CaseSentence: "sentence",
	CaseUpper:    "upper",
	CaseMixed:    "mixed",
}

func (c Case) String() string {
	if name, ok := caseNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCase converts a case name as used in config files and flags.
func ParseCase(s string) (Case, error) {
	for c, name := range caseNames {
		if strings.EqualFold(s, name) {
			return c, nil
		}
	}
	return 0, errors.NewArgument("case", s, "expected lower, sentence, upper or mixed")
}

// CheckRenderable rejects CaseMixed and values outside the known modes.
func (c Case) CheckRenderable() error {
	switch c {
	case CaseLower, CaseSentence, CaseUpper:
		return nil
	case CaseMixed:
		return errors.NewArgument("case", c, "mixed case cannot be rendered")
	default:
		return errors.NewArgument("case", int(c), "unknown case mode")
	}
}

// DetectCase classifies the capitalisation of a word.
func DetectCase(word string) Case {
	if word == "" {
		return CaseLower
	}
	if word == strings.ToLower(word) {
		return CaseLower
	}
	if word == strings.ToUpper(word) && utf8.RuneCountInString(word) != 1 {
		return CaseUpper
	}

	first, size := utf8.DecodeRuneInString(word)
	if unicode.IsLower(first) {
		return CaseMixed
	}
	rest := word[size:]
	if rest == strings.ToLower(rest) {
		return CaseSentence
	}
	return CaseMixed
}

// ApplyCase renders a word in the given case.
func ApplyCase(word string, c Case) (string, error) {
	switch c {
	case CaseLower:
		return strings.ToLower(word), nil
	case CaseUpper:
		return strings.ToUpper(word), nil
	case CaseSentence:
		return sentenceCaseWord(word), nil
	case CaseMixed:
		if strings.EqualFold(word, "lord's") {
			return "LORD's", nil
		}
		return sentenceCaseWord(word), nil
	default:
		return "", errors.NewArgument("case", int(c), "unknown case mode")
	}
}

// sentenceCaseWord handles the hyphenated forms that plain sentence case gets wrong.
func sentenceCaseWord(word string) string {
	idx := strings.IndexByte(word, '-')
	if idx == -1 {
		return ToSentenceCase(word)
	}

	lower := strings.ToLower(word)
	switch {
	case lower == "maher-shalal-hash-baz":
		return "Maher-Shalal-Hash-Baz"
	case lower == "no-one":
		return "No-one"
	case strings.HasPrefix(lower, "god-"):
		return ToSentenceCase(word)
	}
	return ToSentenceCase(word[:idx]) + "-" + ToSentenceCase(word[idx+1:])
}

// ToSentenceCase upper-cases the first rune and lower-cases the rest.
func ToSentenceCase(word string) string {
	if word == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(first)) + strings.ToLower(word[size:])
}
