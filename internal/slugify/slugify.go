// Package slugify derives URL/path-safe identifiers from Vietnamese display
// names. Slugs are used both for identity (unique topic lookup) and as object
// store path segments, so the output must be stable byte for byte.
package slugify

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// vietnameseMap covers every accented vowel/consonant variant. It runs before
// the generic NFKD pass because some fonts encode these as single codepoints
// that NFKD alone would not fold onto plain ASCII.
var vietnameseMap = map[rune]rune{
	'à': 'a', 'á': 'a', 'ả': 'a', 'ã': 'a', 'ạ': 'a',
	'ă': 'a', 'ằ': 'a', 'ắ': 'a', 'ẳ': 'a', 'ẵ': 'a', 'ặ': 'a',
	'â': 'a', 'ầ': 'a', 'ấ': 'a', 'ẩ': 'a', 'ẫ': 'a', 'ậ': 'a',
	'đ': 'd',
	'è': 'e', 'é': 'e', 'ẻ': 'e', 'ẽ': 'e', 'ẹ': 'e',
	'ê': 'e', 'ề': 'e', 'ế': 'e', 'ể': 'e', 'ễ': 'e', 'ệ': 'e',
	'ì': 'i', 'í': 'i', 'ỉ': 'i', 'ĩ': 'i', 'ị': 'i',
	'ò': 'o', 'ó': 'o', 'ỏ': 'o', 'õ': 'o', 'ọ': 'o',
	'ô': 'o', 'ồ': 'o', 'ố': 'o', 'ổ': 'o', 'ỗ': 'o', 'ộ': 'o',
	'ơ': 'o', 'ờ': 'o', 'ớ': 'o', 'ở': 'o', 'ỡ': 'o', 'ợ': 'o',
	'ù': 'u', 'ú': 'u', 'ủ': 'u', 'ũ': 'u', 'ụ': 'u',
	'ư': 'u', 'ừ': 'u', 'ứ': 'u', 'ử': 'u', 'ữ': 'u', 'ự': 'u',
	'ỳ': 'y', 'ý': 'y', 'ỷ': 'y', 'ỹ': 'y', 'ỵ': 'y',
}

var (
	invalidChars = regexp.MustCompile(`[^\w\s.-]`)
	spaceRuns    = regexp.MustCompile(`[\s_]+`)
	hyphenRuns   = regexp.MustCompile(`-+`)

	// strips combining marks left over after NFKD decomposition
	stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slugify converts a display name into a lowercase ASCII hyphenated slug.
//
//	"Kinh Tế Vi Mô" -> "kinh-te-vi-mo"
//	"Toán Cao Cấp"  -> "toan-cao-cap"
//
// The function is pure and idempotent: Slugify(Slugify(x)) == Slugify(x).
func Slugify(text string) string {
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if mapped, ok := vietnameseMap[r]; ok {
			b.WriteRune(mapped)
		} else {
			b.WriteRune(r)
		}
	}
	text = b.String()

	if decomposed, _, err := transform.String(stripMarks, text); err == nil {
		text = decomposed
	}
	// drop anything still outside ASCII
	text = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, text)

	text = invalidChars.ReplaceAllString(text, "")
	text = spaceRuns.ReplaceAllString(text, "-")
	text = hyphenRuns.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}

// SanitizeFilename slugifies the stem and lowercases the extension.
//
//	"Bài Giảng 1.pdf" -> "bai-giang-1.pdf"
func SanitizeFilename(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		name, ext := filename[:idx], filename[idx+1:]
		return Slugify(name) + "." + strings.ToLower(ext)
	}
	return Slugify(filename)
}
