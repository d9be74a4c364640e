package providers

import (
	"html"
	"regexp"
	"strings"
)

var (
	tagPattern       = regexp.MustCompile(`<[^>]*>`)
	breakPattern     = regexp.MustCompile(`(?i)<br\s*/?>`)
	blankLinePattern = regexp.MustCompile(`\n\s*\n`)
)

// cleanLyricsHTML turns an HTML fragment into plain text lyrics.
func cleanLyricsHTML(fragment string) string {
	clean := breakPattern.ReplaceAllString(fragment, "\n")
	clean = tagPattern.ReplaceAllString(clean, "")
	clean = html.UnescapeString(clean)
	clean = strings.TrimSpace(clean)
	return blankLinePattern.ReplaceAllString(clean, "\n\n")
}

// firstMatch returns the first submatch of the first pattern that matches.
func firstMatch(page string, patterns ...*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(page); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

// containsFold reports whether s contains substr, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// dashed joins the words of s with dashes, the way several sites build song URLs.
func dashed(s string) string {
	return strings.Join(strings.Fields(s), "-")
}
