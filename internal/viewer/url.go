package viewer

import (
	"regexp"
	"strings"

	bf "github.com/russross/blackfriday/v2"
)

// urlExtensions mirrors internal/mdconv's inline-tokenizer extension set:
// this pass only needs Autolink recognition on top of the core parser.
const urlExtensions = bf.Autolink | bf.NoEmptyLineBeforeBlock

// URLMatch is one URL found in a Markdown substring, with its link text
// when available (bare URLs use the URL itself as text).
type URLMatch struct {
	URL  string
	Text string
}

// bareURLRe finds bare http(s) URLs not already wrapped in Markdown link
// syntax. Trailing punctuation commonly following a URL in prose is
// trimmed by the caller, not by the pattern itself.
var bareURLRe = regexp.MustCompile(`https?://[^\s<>\[\]()]+`)

// ExtractURLs performs SPEC_FULL §4.K's two-pass URL extraction over a
// Markdown substring: first every Markdown link event, then every bare
// URL in the remaining plain text, deduplicated by URL string in that
// order (parsed links win over a bare-URL rediscovery of the same
// address).
func ExtractURLs(mdSubstring string) []URLMatch {
	var matches []URLMatch
	seen := make(map[string]bool)

	root := bf.New(bf.WithExtensions(urlExtensions)).Parse([]byte(mdSubstring))
	root.Walk(func(n *bf.Node, entering bool) bf.WalkStatus {
		if !entering || n.Type != bf.Link {
			return bf.GoToNext
		}
		dest := string(n.LinkData.Destination)
		if dest == "" || seen[dest] {
			return bf.GoToNext
		}
		seen[dest] = true
		matches = append(matches, URLMatch{URL: dest, Text: linkText(n)})
		return bf.GoToNext
	})

	for _, tok := range bareURLRe.FindAllString(mdSubstring, -1) {
		url := strings.TrimRight(tok, ".,;:!?)")
		if seen[url] {
			continue
		}
		seen[url] = true
		matches = append(matches, URLMatch{URL: url, Text: url})
	}
	return matches
}

func linkText(n *bf.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.Next {
		if c.Type == bf.Text {
			sb.Write(c.Literal)
		}
	}
	return sb.String()
}
