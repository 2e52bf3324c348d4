// Package filename derives filesystem-safe names from untrusted, user-supplied
// file names.
//
// All functions are pure: the same input always yields the same output, and
// Sanitize(Sanitize(x)) == Sanitize(x).
package filename

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is the base name used when nothing usable survives sanitizing.
const Fallback = "file"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	underscoreRun = regexp.MustCompile(`_+`)
	dotRun        = regexp.MustCompile(`[._]*\.[._]*`)
)

// forbidden lists the characters replaced with an underscore.
const forbidden = `/\|#&%!?<>`

// Split separates name into base and extension at the last dot of its final
// path element, like filepath.Ext. Both / and \ count as separators, so
// "a.d/b" has no extension. The extension keeps its leading dot and original
// case; it is empty when the final element has no dot.
func Split(name string) (base, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || strings.ContainsAny(name[i:], `/\`) {
		return name, ""
	}
	return name[:i], name[i:]
}

// Base sanitizes a base name (without extension).
//
// The result is never empty, always starts with an ASCII letter or digit, and
// never contains whitespace, control characters, any of / \ | # & % ! ? < >,
// or two consecutive underscores. Dots are kept but never repeat, never touch
// an underscore and never end the name.
func Base(base string) string {
	name := strings.TrimSpace(whitespaceRun.ReplaceAllString(base, " "))
	name = strings.ReplaceAll(name, " ", "_")

	name = strings.Map(replaceUnsafe, name)

	name = underscoreRun.ReplaceAllString(name, "_")
	name = dotRun.ReplaceAllString(name, ".")
	name = strings.Trim(name, "_")
	name = strings.TrimRight(name, ".")

	switch {
	case name == "":
		return Fallback
	case name[0] == '.':
		return Fallback + name
	case !isASCIIAlnum(name[0]):
		return Fallback + "_" + name
	}
	return name
}

// Sanitize returns the sanitized base of name followed by its extension.
// Unsafe characters inside the extension are replaced like in Base and its
// case is kept. An extension with nothing usable left is dropped.
func Sanitize(name string) string {
	base, ext := Split(name)
	return Base(base) + extension(ext)
}

func extension(ext string) string {
	if ext == "" {
		return ""
	}
	rest := strings.Map(replaceUnsafe, ext[1:])
	rest = strings.Trim(underscoreRun.ReplaceAllString(rest, "_"), "_")
	if rest == "" {
		return ""
	}
	return "." + rest
}

// Transliterate folds diacritics to their base letters ("Crème" -> "Creme").
// Characters without a decomposition are left untouched.
func Transliterate(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Suffixed returns base_n+ext, or base+ext when n is zero.
func Suffixed(base, ext string, n int) string {
	if n <= 0 {
		return base + ext
	}
	return base + "_" + strconv.Itoa(n) + ext
}

// HistoryTimeLayout is the timestamp layout embedded in history file names.
const HistoryTimeLayout = "2006_01_02_15_04_05"

// History returns the archive name base_<timestamp>_<suffix>+ext.
func History(base, ext string, at time.Time, suffix string) string {
	return base + "_" + at.Format(HistoryTimeLayout) + "_" + suffix + ext
}

func replaceUnsafe(r rune) rune {
	if unicode.IsControl(r) || unicode.IsSpace(r) || strings.ContainsRune(forbidden, r) {
		return '_'
	}
	return r
}

func isASCIIAlnum(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
