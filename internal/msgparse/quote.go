package msgparse

// RewriteQuotes walks root depth-first and rewrites every <quote> element
// in place: the <legacyquote> child is dropped, a <quotefrom> summary is
// synthesized from the authorname/timestamp attributes, and every
// attribute on the quote itself is cleared, matching the "minimal DOM
// contract" the original parser leaves quotes in.
func RewriteQuotes(root *Node) {
	for _, child := range root.Children {
		if child.Tag == "quote" {
			rewriteQuote(child)
		}
		RewriteQuotes(child)
	}
}

func rewriteQuote(quote *Node) {
	author := quote.Attr("authorname")
	if author == "" {
		author = quote.Attr("author")
	}
	ts := quote.Attr("timestamp")

	var kept []*Node
	for _, c := range quote.Children {
		if c.Tag != "legacyquote" {
			kept = append(kept, c)
		}
	}
	quote.Children = kept

	from := newNode("quotefrom")
	from.Text = author
	if ts != "" {
		if n := parseIntAttr(ts); n != 0 {
			ts = formatTimestamp(n)
		}
		from.Text += " " + ts
	}
	quote.Children = append([]*Node{from}, quote.Children...)
	quote.ClearAttrs()
}
