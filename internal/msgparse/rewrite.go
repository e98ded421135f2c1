package msgparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"skyperious/internal/skypedata"
)

// RewriteOptions controls the per-message-type canonicalization pass.
type RewriteOptions struct {
	Transfers []skypedata.Transfer // file rows correlated by chatmsg_guid/index, for type 68
}

// Rewrite canonicalizes root in place according to msg's message type,
// producing the synthetic DOM forms spec.md §4.2's table describes. It is
// always safe to call on any message; types with no special handling are
// left as the parsed body.
func Rewrite(root *Node, msg skypedata.Message, opts RewriteOptions) *Node {
	if msg.BodyXML == "" && msg.EditedTimestamp != 0 {
		status := newNode("bodystatus")
		status.Text = skypedata.MessageRemovedText
		return wrapSingle(status)
	}

	switch msg.Type {
	case skypedata.TypeMessage: // 61: plain message, body as parsed
		return root

	case skypedata.TypeSMS, skypedata.TypeInfo: // 64 SMS / 60 info (may carry <sms)
		if sms := findChild(root, "sms"); sms != nil {
			return rewriteSMS(root, sms)
		}
		return root

	case skypedata.TypeFile: // 68 file (or 60 with <files)
		return rewriteFiles(root, opts.Transfers, msg)

	case skypedata.TypeCall, skypedata.TypeCallEnd: // 30/39 call
		return rewriteCall(root)

	case skypedata.TypeContacts: // 63 contacts
		return rewriteContacts(root)

	case skypedata.TypeTopic: // 2 topic/picture
		return rewriteTopic(root, msg)

	case skypedata.TypeLeave: // 13 leave
		return textStatusNode(fmt.Sprintf("%s has left the conversation.", msg.Author))

	case skypedata.TypeParticipants, skypedata.TypeGroupCreate, skypedata.TypeBlock,
		skypedata.TypeRemove, skypedata.TypeShareDetail: // 10/4/53/12/51
		return rewriteMembership(root, msg)

	case skypedata.TypeIntro: // 50 intro
		text := fmt.Sprintf("%s would like to add you on Skype\n\n%s", msg.Author, root.AllText())
		return textStatusNode(text)

	case skypedata.TypeSharePhoto, skypedata.TypeShareVideo, skypedata.TypeShareVideo2: // 201/70/253
		return rewriteSharedMedia(root)

	case skypedata.TypeUpdateNeed, skypedata.TypeUpdateDone: // 9/8
		return rewriteMembership(root, msg)
	}

	if loc := findChild(root, "location"); loc != nil {
		addr := loc.Attr("address")
		a := newNode("a")
		a.Text = addr
		status := newNode("msgstatus")
		status.Text = "has shared a location: "
		status.Children = append(status.Children, a)
		return wrapSingle(status)
	}

	return root
}

func wrapSingle(n *Node) *Node {
	root := newNode("xml")
	root.Children = append(root.Children, n)
	return root
}

func textStatusNode(text string) *Node {
	n := newNode("msgstatus")
	n.Text = text
	return wrapSingle(n)
}

func findChild(root *Node, tag string) *Node {
	for _, c := range root.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

func rewriteSMS(root, sms *Node) *Node {
	result := newNode("xml")
	status := newNode("msgstatus")
	status.Text = "SMS"
	if reason := sms.Attr("failurereason"); reason != "" {
		status.Text += ": " + reason
	}
	result.Children = append(result.Children, status)

	if encoded := findChild(sms, "encoded_body"); encoded != nil {
		body := newNode("body")
		body.Text = encoded.Text
		result.Children = append(result.Children, body)
		return result
	}
	if body := findChild(sms, "body"); body != nil {
		chunks := childrenOf(body, "chunk")
		if len(chunks) > 0 {
			merged := newNode("body")
			for _, c := range chunks {
				merged.Text += c.Text
			}
			result.Children = append(result.Children, merged)
			return result
		}
		result.Children = append(result.Children, body)
		return result
	}
	alt := newNode("sms")
	alt.SetAttr("alt", sms.AllText())
	result.Children = append(result.Children, alt)
	return result
}

func childrenOf(n *Node, tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

func rewriteFiles(root *Node, transfers []skypedata.Transfer, msg skypedata.Message) *Node {
	result := newNode("xml")
	status := newNode("msgstatus")
	status.Text = fmt.Sprintf("Sent %d files ", len(transfers))
	result.Children = append(result.Children, status)
	for _, tr := range transfers {
		a := newNode("a")
		if tr.Filename != "" {
			a.Text = tr.Filename
		} else {
			a.Text = tr.PartnerDispname
		}
		a.SetAttr("href", tr.Filename)
		result.Children = append(result.Children, a)
	}
	return result
}

func rewriteCall(root *Node) *Node {
	result := newNode("xml")
	ended := false
	durations := map[string]int{}
	if partlist := findChild(root, "partlist"); partlist != nil {
		if partlist.Attr("type") == "ended" {
			ended = true
		}
		for _, part := range childrenOf(partlist, "part") {
			identity := part.Attr("identity")
			for _, dur := range childrenOf(part, "duration") {
				if n, err := strconv.Atoi(strings.TrimSpace(dur.Text)); err == nil {
					durations[identity] += n
				}
			}
		}
	}
	status := newNode("msgstatus")
	switch {
	case ended:
		status.Text = " Call ended"
	default:
		status.Text = " Call"
	}
	result.Children = append(result.Children, status)
	return result
}

func rewriteContacts(root *Node) *Node {
	result := newNode("xml")
	for _, c := range root.Children {
		if c.Tag != "c" {
			continue
		}
		name := c.Attr("f")
		if name == "" {
			name = c.Attr("s")
		}
		bold := newNode("b")
		bold.Text = name
		result.Children = append(result.Children, bold)
	}
	return result
}

func rewriteTopic(root *Node, msg skypedata.Message) *Node {
	if value := findChild(root, "value"); value != nil && strings.Contains(value.Text, "URL@") {
		idx := strings.Index(value.Text, "URL@")
		url := strings.TrimSpace(value.Text[idx+len("URL@"):])
		status := newNode("msgstatus")
		status.Text = "Changed the conversation picture."
		status.SetAttr("avatar_url", url)
		return wrapSingle(status)
	}
	status := newNode("msgstatus")
	status.Text = fmt.Sprintf("Changed the conversation topic to %s", root.AllText())
	return wrapSingle(status)
}

// membershipPrefixes mirrors spec.md §4.2's "render prefix per type" rule
// for the membership-change family of message types.
var membershipPrefixes = map[int]string{
	skypedata.TypeParticipants: "Added: ",
	skypedata.TypeGroupCreate:  "Created group with: ",
	skypedata.TypeBlock:        "Blocked: ",
	skypedata.TypeRemove:       "Removed: ",
	skypedata.TypeShareDetail:  "Shared contact details with: ",
	skypedata.TypeUpdateNeed:   "Needs update: ",
	skypedata.TypeUpdateDone:   "Updated: ",
}

func rewriteMembership(root *Node, msg skypedata.Message) *Node {
	prefix := membershipPrefixes[msg.Type]
	status := newNode("msgstatus")
	status.Text = prefix
	for _, identity := range strings.Split(msg.Identities, " ") {
		identity = strings.TrimSpace(identity)
		if identity == "" {
			continue
		}
		bold := newNode("b")
		bold.Text = identity
		status.Children = append(status.Children, bold)
	}
	return wrapSingle(status)
}

func rewriteSharedMedia(root *Node) *Node {
	uri := findChild(root, "URIObject")
	if uri == nil {
		uri = findChild(root, "videomessage")
	}
	if uri == nil {
		return root
	}
	result := newNode("xml")
	a := newNode("a")
	a.SetAttr("href", uri.Attr("uri"))
	a.Text = uri.Attr("OriginalName")
	if a.Text == "" {
		a.Text = uri.Attr("uri")
	}
	result.Children = append(result.Children, a)
	return result
}

// SharedMediaRef is the {url, docid, category, filename, filesize} tuple
// ExtractSharedMedia pulls out of a URIObject node, for the caller to
// resolve against the local share folder or attempt a download.
type SharedMediaRef struct {
	URL      string
	DocID    string
	Category string
	Filename string
	Filesize int64
}

var shareCategoryByType = map[string]string{
	"Picture.1":      "image",
	"Video.1":        "video",
	"Audio.1":        "audio",
	"File.1":         "file",
	"Sketch.1":       "image",
	"Sticker.2":      "sticker",
	"ThirdPartyCard": "card",
}

// ExtractSharedMedia locates the first URIObject-like element in root and
// extracts its metadata, returning ok=false when none is present.
func ExtractSharedMedia(root *Node) (SharedMediaRef, bool) {
	uri := findChild(root, "URIObject")
	if uri == nil {
		return SharedMediaRef{}, false
	}
	ref := SharedMediaRef{
		URL:      uri.Attr("uri"),
		DocID:    uri.Attr("doc_id"),
		Filename: uri.Attr("OriginalName"),
	}
	if ref.Filename == "" {
		if fname := findChild(uri, "OriginalName"); fname != nil {
			ref.Filename = fname.Attr("v")
		}
	}
	if size := findChild(uri, "FileSize"); size != nil {
		if n, err := strconv.ParseInt(size.Attr("v"), 10, 64); err == nil {
			ref.Filesize = n
		}
	}
	ref.Category = shareCategoryByType[uri.Attr("type")]
	if ref.Category == "" {
		ref.Category = "file"
	}
	return ref, true
}

// formatTimestamp renders a Unix timestamp the way <quotefrom> synthesis
// shows it.
func formatTimestamp(ts int64) string {
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04")
}
