package msgparse

import (
	"fmt"
	"net/url"
	"strings"
)

// RenderOptions controls HTML/text rendering: export mode and an optional
// wrap callback. The output format is chosen by calling RenderHTML or
// RenderText; there is no merge option.
type RenderOptions struct {
	Export bool             // render for a static export (resolve hrefs, inline emoticon spans)
	Wrap   func(text string) string // optional 79-column wrap callback
}

var greySpanTags = map[string]bool{"msgstatus": true, "bodystatus": true}

// RenderHTML walks root depth-first and renders it to an HTML fragment.
func RenderHTML(root *Node, opts RenderOptions) string {
	var b strings.Builder
	renderHTMLNode(&b, root, opts)
	return b.String()
}

func renderHTMLNode(b *strings.Builder, n *Node, opts RenderOptions) {
	text := n.Text
	if opts.Wrap != nil {
		text = opts.Wrap(text)
	}
	b.WriteString(htmlEscape(text))

	switch n.Tag {
	case "quote":
		b.WriteString(`<table class="quote"><tr><td>`)
		for _, c := range n.Children {
			renderHTMLNode(b, c, opts)
		}
		b.WriteString(`</td></tr></table>`)
	case "ss":
		name := n.Attr("type")
		if opts.Export {
			fmt.Fprintf(b, `<span class="emoticon %s" title="%s">%s</span>`, name, name, htmlEscape(n.Text))
		} else {
			b.WriteString(htmlEscape(n.Text))
		}
	case "msgstatus", "bodystatus":
		b.WriteString(`<span class="grey">`)
		for _, c := range n.Children {
			renderHTMLNode(b, c, opts)
		}
		b.WriteString(`</span>`)
	case "a":
		href := n.Attr("href")
		if href == "" {
			href = n.Text
		}
		if opts.Export {
			href = url.QueryEscape(href)
		}
		fmt.Fprintf(b, `<a href="%s" target="_blank">`, htmlEscape(href))
		for _, c := range n.Children {
			renderHTMLNode(b, c, opts)
		}
		b.WriteString(`</a>`)
	case "b":
		b.WriteString("<b>")
		for _, c := range n.Children {
			renderHTMLNode(b, c, opts)
		}
		b.WriteString("</b>")
	case "", "xml":
		for _, c := range n.Children {
			renderHTMLNode(b, c, opts)
		}
	default:
		if len(n.Children) == 0 && n.Text == "" {
			break // unknown empty tag: drop
		}
		b.WriteString("<span>")
		for _, c := range n.Children {
			renderHTMLNode(b, c, opts)
		}
		b.WriteString("</span>")
	}

	tail := n.Tail
	if opts.Wrap != nil {
		tail = opts.Wrap(tail)
	}
	b.WriteString(htmlEscape(tail))
}

func htmlEscape(s string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return replacer.Replace(s)
}

// RenderText walks root depth-first and renders it to plain text, wrapping
// at 79 columns without hyphen-breaking words when opts.Wrap is set (the
// caller is expected to pass the wrap79 helper, see Wrap79 below).
func RenderText(root *Node, opts RenderOptions) string {
	var b strings.Builder
	renderTextNode(&b, root, opts)
	out := b.String()
	if opts.Wrap != nil {
		out = opts.Wrap(out)
	}
	return out
}

func renderTextNode(b *strings.Builder, n *Node, opts RenderOptions) {
	switch n.Tag {
	case "quote":
		b.WriteString(`"`)
		for _, c := range n.Children {
			renderTextNode(b, c, opts)
		}
		b.WriteString(`"`)
	case "b":
		b.WriteString("*")
		b.WriteString(n.Text)
		for _, c := range n.Children {
			renderTextNode(b, c, opts)
		}
		b.WriteString("*")
	case "i":
		b.WriteString("_")
		b.WriteString(n.Text)
		b.WriteString("_")
	case "s":
		b.WriteString("~")
		b.WriteString(n.Text)
		b.WriteString("~")
	case "at":
		b.WriteString("@")
		b.WriteString(n.Text)
	case "msgstatus":
		b.WriteString("[")
		b.WriteString(n.Text)
		for _, c := range n.Children {
			renderTextNode(b, c, opts)
		}
		b.WriteString("]")
	default:
		b.WriteString(n.Text)
		for _, c := range n.Children {
			renderTextNode(b, c, opts)
		}
	}
	b.WriteString(n.Tail)
}

// Wrap79 wraps text at 79 columns, never breaking inside a word (no
// hyphenation), the wrapper spec.md §4.2's text renderer calls for.
func Wrap79(text string) string {
	const width = 79
	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		if len(current)+1+len(w) > width {
			lines = append(lines, current)
			current = w
			continue
		}
		current += " " + w
	}
	lines = append(lines, current)
	return lines
}
