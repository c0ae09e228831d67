package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalid  = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashes   = regexp.MustCompile(`-{2,}`)
	tokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

var asciiFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases the input, folds accented characters to ASCII and
// collapses anything else into single dashes. The result is safe for URLs
// and object names.
func Slugify(s string) string {
	folded, _, err := transform.String(asciiFolder, s)
	if err != nil {
		folded = s
	}
	slug := strings.ToLower(folded)
	slug = slugInvalid.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// ValidToken reports whether s contains only letters, digits, dashes and
// underscores. Used for slugs and style labels supplied by clients.
func ValidToken(s string) bool {
	return s != "" && tokenPattern.MatchString(s)
}

var spaceRuns = regexp.MustCompile(`\s+`)

// NormalizeStyleName collapses whitespace runs into dashes while preserving
// case, e.g. "Oak Finish" becomes "Oak-Finish". The second return is false
// when the result still contains characters outside the token alphabet.
func NormalizeStyleName(s string) (string, bool) {
	name := spaceRuns.ReplaceAllString(strings.TrimSpace(s), "-")
	return name, ValidToken(name)
}
