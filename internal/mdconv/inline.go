package mdconv

import (
	"strings"

	bf "github.com/russross/blackfriday/v2"
)

// inlineExtensions mirrors the subset of CommonMark extensions fbc's own
// blackfriday-indirect dependency pulls in for inline spans: strikethrough,
// autolinking of bare URLs, and NoEmptyLineBeforeBlock (harmless here since
// block-level structure is already peeled off by the scanner before this
// ever runs).
const inlineExtensions = bf.Strikethrough | bf.Autolink | bf.NoEmptyLineBeforeBlock

// emitInline renders one block's raw inline text (a paragraph, heading,
// list-item lead line, or table cell) into typeset markup. blackfriday is
// used purely as an inline tokenizer here: mlux's own scanner has already
// done all of the block-structure work that the spec depends on byte-exact
// source ranges for, so only blackfriday's Strong/Emph/Del/Link/Code nodes
// are consulted, and its Document/Paragraph wrapper nodes are unwrapped.
func emitInline(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	md := bf.New(bf.WithExtensions(inlineExtensions))
	root := md.Parse([]byte(text))

	var sb strings.Builder
	root.Walk(func(n *bf.Node, entering bool) bf.WalkStatus {
		switch n.Type {
		case bf.Document, bf.Paragraph:
			return bf.GoToNext

		case bf.Text:
			if entering {
				sb.WriteString(escapeText(string(n.Literal)))
			}

		case bf.Strong:
			if entering {
				sb.WriteString("#strong[")
			} else {
				sb.WriteString("]")
			}

		case bf.Emph:
			if entering {
				sb.WriteString("#emph[")
			} else {
				sb.WriteString("]")
			}

		case bf.Del:
			if entering {
				sb.WriteString("#strike[")
			} else {
				sb.WriteString("]")
			}

		case bf.Link:
			dest := string(n.LinkData.Destination)
			if entering {
				if dest != "" {
					sb.WriteString("#link(\"" + escapeStringLiteral(dest) + "\")[")
				}
			} else if dest != "" {
				sb.WriteString("]")
			}

		case bf.Code:
			if entering {
				lit := string(n.Literal)
				if strings.ContainsRune(lit, '`') {
					sb.WriteString("#raw(\"" + escapeStringLiteral(lit) + "\")")
				} else {
					sb.WriteString("`" + lit + "`")
				}
			}

		case bf.Softbreak:
			sb.WriteString("\n")

		case bf.Hardbreak:
			sb.WriteString("\\\n")

		case bf.Image, bf.HTMLSpan:
			// images and raw inline HTML have no typeset counterpart; degrade
			// to their literal text rather than dropping the content silently.
			if entering && len(n.Literal) > 0 {
				sb.WriteString(escapeText(string(n.Literal)))
			}
		}
		return bf.GoToNext
	})
	return sb.String()
}
