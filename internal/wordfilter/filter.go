// Package wordfilter rejects text that contains banned words.
package wordfilter

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"unicode"
	"unicode/utf8"
)

// Mode selects how banned words are matched against text.
type Mode string

const (
	// MatchSubstring matches a banned word anywhere in the text.
	MatchSubstring Mode = "substring"
	// MatchWord matches a banned word only between non-alphanumeric boundaries.
	MatchWord Mode = "word"
)

// Warning is shown to users whose comment was rejected.
const Warning = "Не ругайтесь!"

// DefaultWords is the built-in banned list.
var DefaultWords = []string{"редиска", "негодяй"}

var (
	// ErrBanned is matched by every *BannedError.
	ErrBanned = errors.New("text contains a banned word")
	// ErrInvalidMode is returned for unknown match modes.
	ErrInvalidMode = errors.New("invalid match mode")
)

// BannedError names the banned word found in the text.
type BannedError struct {
	Word string
}

func (e *BannedError) Error() string {
	return fmt.Sprintf("text contains banned word %q", e.Word)
}

// Is lets errors.Is match ErrBanned.
func (e *BannedError) Is(target error) bool {
	return target == ErrBanned
}

// Rules configures a Filter.
type Rules struct {
	Words         []string `yaml:"words"`
	Match         Mode     `yaml:"match"`
	CaseSensitive bool     `yaml:"case_sensitive"`
}

// compiled is an immutable, normalized copy of Rules.
type compiled struct {
	rules Rules
	words []string
}

// Filter checks text against a word list that can be replaced at runtime.
// It is safe for concurrent use.
type Filter struct {
	current atomic.Pointer[compiled]
}

// New creates a Filter from rules.
func New(rules Rules) (*Filter, error) {
	f := &Filter{}
	if err := f.Replace(rules); err != nil {
		return nil, err
	}
	return f, nil
}

// MustNew is New for static rules in tests and defaults.
func MustNew(rules Rules) *Filter {
	f, err := New(rules)
	if err != nil {
		panic(err)
	}
	return f
}

// Replace swaps the active rules. On error the previous rules stay active.
func (f *Filter) Replace(rules Rules) error {
	c, err := compile(rules)
	if err != nil {
		return err
	}
	f.current.Store(c)
	return nil
}

// Rules returns a copy of the active rules.
func (f *Filter) Rules() Rules {
	c := f.current.Load()
	r := c.rules
	r.Words = append([]string(nil), c.rules.Words...)
	return r
}

// Check returns a *BannedError if text contains a banned word.
func (f *Filter) Check(text string) error {
	c := f.current.Load()
	if c == nil || len(c.words) == 0 {
		return nil
	}

	if !c.rules.CaseSensitive {
		text = strings.ToLower(text)
	}

	for i, word := range c.words {
		var found bool
		if c.rules.Match == MatchWord {
			found = containsWord(text, word)
		} else {
			found = strings.Contains(text, word)
		}
		if found {
			return &BannedError{Word: c.rules.Words[i]}
		}
	}
	return nil
}

func compile(rules Rules) (*compiled, error) {
	if rules.Match == "" {
		rules.Match = MatchSubstring
	}
	if rules.Match != MatchSubstring && rules.Match != MatchWord {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, rules.Match)
	}

	kept := make([]string, 0, len(rules.Words))
	words := make([]string, 0, len(rules.Words))
	for _, w := range rules.Words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		kept = append(kept, w)
		if !rules.CaseSensitive {
			w = strings.ToLower(w)
		}
		words = append(words, w)
	}
	rules.Words = kept

	return &compiled{rules: rules, words: words}, nil
}

// containsWord reports whether word occurs in text bounded by
// non-alphanumeric runes or the ends of text.
func containsWord(text, word string) bool {
	for offset := 0; offset <= len(text); {
		idx := strings.Index(text[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)

		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(text) || !isWordRune(after)) {
			return true
		}

		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
