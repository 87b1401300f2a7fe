package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yapress/yapress/internal/model"
)

// cyrillic maps lower-case Russian letters to Latin.
var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "j", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch", 'ъ': "",
	'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// Slugify turns a title into a URL slug: lower-case ASCII letters and digits
// separated by single hyphens, at most model.NoteSlugMaxLen long.
func Slugify(title string) string {
	var b strings.Builder
	pendingDash := false

	for _, r := range strings.ToLower(title) {
		var chunk string
		switch {
		case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			chunk = string(r)
		default:
			if latin, ok := cyrillic[r]; ok {
				chunk = latin
			}
		}

		if chunk == "" {
			// Soft/hard signs vanish without splitting the word.
			if r == 'ъ' || r == 'ь' {
				continue
			}
			pendingDash = b.Len() > 0
			continue
		}

		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteString(chunk)
	}

	slug := b.String()
	if len(slug) > model.NoteSlugMaxLen {
		slug = strings.TrimRight(slug[:model.NoteSlugMaxLen], "-")
	}
	return slug
}
