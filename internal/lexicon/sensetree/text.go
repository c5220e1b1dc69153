package sensetree

import (
	"regexp"
	"strings"
)

type tokenRule struct {
	re   *regexp.Regexp
	repl string
}

// Rules run in order; the catch-all drop of unknown tokens must stay last.
var tokenRules = []tokenRule{
	{regexp.MustCompile(`\{bc\}`), ": "},
	{regexp.MustCompile(`\{p_br\}`), "\n"},
	{regexp.MustCompile(`\{ldquo\}`), "“"},
	{regexp.MustCompile(`\{rdquo\}`), "”"},
	{regexp.MustCompile(`\{/?(it|b|sc|sup|inf|bit|itsc|rom)\}`), ""},
	{regexp.MustCompile(`\{/?(dx|dx_def|dx_ety|ma)\}`), ""},
	{regexp.MustCompile(`\{/?(wi|phrase|qword|parahw|gloss)\}`), ""},
	{regexp.MustCompile(`\{(a_link|d_link|i_link|et_link|mat)\|([^|}]*)[^}]*\}`), "$2"},
	{regexp.MustCompile(`\{(sx|dxt)\|([^|}]*)[^}]*\}`), "$2"},
	{regexp.MustCompile(`\{[^}]+\}`), ""},
}

var (
	trailingBlanks = regexp.MustCompile(`[ \t]+\n`)
	blankLines     = regexp.MustCompile(`\n{3,}`)
	innerBlanks    = regexp.MustCompile(`[ \t]{2,}`)
)

// TextToPlain renders dictionary running text as plain text. Style wrappers
// are dropped with their content kept, cross-reference tokens are reduced to
// their visible text and any other token is removed.
func TextToPlain(s string) string {
	for _, r := range tokenRules {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	s = trailingBlanks.ReplaceAllString(s, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	s = innerBlanks.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
