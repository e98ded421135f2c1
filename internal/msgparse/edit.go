package msgparse

import "strings"

// editedPrefix is the literal English prefix the original client writes
// ahead of the previous body when a message is edited. Open Question (b)
// in spec.md §9 is resolved as: keep this as a literal match rather than
// attempt localization — no localization table exists anywhere in the
// retrieved pack to ground a more general solution.
const editedPrefix = "Edited previous message: "

// EditInfo is the metadata carried by the `<e_m ts="..." ts_ms="..."
// a="..." t="..."/>` marker of a live-sync edit event; ProcessMessageEdit
// strips the marker and returns this alongside the cleaned body.
type EditInfo struct {
	Timestamp   int64
	TimestampMs int64
	Author      string
	Present     bool
}

// ProcessMessageEdit strips a leading <e_m .../> tag (if present) and the
// literal "Edited previous message: " prefix that follows it, returning
// the cleaned body and the edit metadata the tag carried.
func ProcessMessageEdit(bodyXML string) (cleaned string, info EditInfo) {
	root := ParseBody(bodyXML)
	tag := findChild(root, "e_m")
	if tag == nil {
		return bodyXML, EditInfo{}
	}
	info = EditInfo{
		Author:  tag.Attr("a"),
		Present: true,
	}
	info.Timestamp = parseIntAttr(tag.Attr("ts"))
	info.TimestampMs = parseIntAttr(tag.Attr("ts_ms"))

	rest := root.AllText()
	rest = strings.TrimPrefix(rest, editedPrefix)
	return rest, info
}

func parseIntAttr(s string) int64 {
	var n int64
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int64(c-'0')
	}
	return n
}
