// Package msgparse turns a Skype message's raw body_xml into a synthesized
// element tree, renders that tree to HTML or plain text, and collects the
// statistics and word-cloud data the viewer and exporter need. Grounded on
// the original engine's MessageParser method set (parse, parse_message_dom,
// make_xml, dom_to_html, dom_to_text, sanitize, collect_message_stats).
package msgparse

import (
	"encoding/xml"
	"io"
	"regexp"
	"strings"
)

// Node is a minimal, mutable element tree: enough to express the synthetic
// DOM this package builds and rewrites, without pulling in a full HTML/XML
// DOM library (no example repo in the retrieved pack carries one; every
// repo that touches markup-like text does so with strings/regexp).
type Node struct {
	Tag      string
	Attrs    map[string]string
	Text     string
	Children []*Node
	Tail     string // text immediately following this node, before the next sibling
}

func newNode(tag string) *Node {
	return &Node{Tag: tag, Attrs: map[string]string{}}
}

// Attr returns an attribute value, or "" if unset.
func (n *Node) Attr(key string) string { return n.Attrs[key] }

// SetAttr sets an attribute, creating the map if necessary.
func (n *Node) SetAttr(key, value string) {
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	n.Attrs[key] = value
}

// ClearAttrs removes every attribute (used by quote rewriting, whose DOM
// contract is "minimal").
func (n *Node) ClearAttrs() { n.Attrs = map[string]string{} }

// AllText concatenates every text and tail fragment under n, depth-first —
// the "cloud text" the statistics pass accumulates from.
func (n *Node) AllText() string {
	var b strings.Builder
	var walk func(*Node)
	walk = func(node *Node) {
		b.WriteString(node.Text)
		for _, c := range node.Children {
			walk(c)
		}
		b.WriteString(node.Tail)
	}
	walk(n)
	return b.String()
}

// knownEntities is the small entity table applied before parsing; encoding/xml
// itself understands the five predefined XML entities, so only the
// Skype-specific extra (&apos; as a literal apostrophe, matching HTML
// rather than strict XML expectations in some exports) needs normalizing.
var knownEntities = strings.NewReplacer("&apos;", "'")

var controlByteEscaper = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

// escapeControlBytes replaces the bytes excluded from valid XML character
// data with their \uXXXX literal form, fallback (a) in the parsing
// pipeline.
func escapeControlBytes(s string) string {
	return controlByteEscaper.ReplaceAllStringFunc(s, func(m string) string {
		return `\u` + padHex(int(m[0]))
	})
}

func padHex(b int) string {
	const hexDigits = "0123456789abcdef"
	return string([]byte{
		'0', '0',
		hexDigits[(b>>4)&0xf],
		hexDigits[b&0xf],
	})
}

// ParseBody parses a message's raw body_xml into a synthetic DOM, applying
// the three documented fallbacks in order on failure: escaping control
// bytes, escaping bare ampersands, and finally yielding a bare text node.
func ParseBody(bodyXML string) *Node {
	cleaned := knownEntities.Replace(bodyXML)
	if n, err := parseXML(cleaned); err == nil {
		return n
	}
	if n, err := parseXML(escapeControlBytes(cleaned)); err == nil {
		return n
	}
	escapedAmp := strings.ReplaceAll(cleaned, "&", "&amp;")
	if n, err := parseXML(escapedAmp); err == nil {
		return n
	}
	root := newNode("xml")
	root.Text = bodyXML
	return root
}

func parseXML(body string) (*Node, error) {
	decoder := xml.NewDecoder(strings.NewReader("<xml>" + body + "</xml>"))
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose
	decoder.Entity = xml.HTMLEntity

	root := newNode("xml")
	stack := []*Node{root}
	var lastText *Node // node whose Tail is currently being filled

	for {
		tok, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := newNode(t.Name.Local)
			for _, a := range t.Attr {
				node.SetAttr(a.Name.Local, a.Value)
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
			stack = append(stack, node)
			lastText = nil
		case xml.EndElement:
			if len(stack) > 1 {
				lastText = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			text := string(t)
			if lastText != nil {
				lastText.Tail += text
			} else {
				parent := stack[len(stack)-1]
				parent.Text += text
			}
		}
	}
	return root, nil
}
