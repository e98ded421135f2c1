package importer

import (
	"fmt"
	"strings"

	"skyperious/internal/msgparse"
	"skyperious/internal/skypedata"
)

// chatState tracks one conversation between its start_map and end_map
// events, enough state to finalize and (if skipped) unwind it.
type chatState struct {
	id          int64
	identity    string
	typ         int
	displayName string
	metaTopic   string
	members     []string
	skip        bool
}

// msgState accumulates one message's streamed fields between its start_map
// and end_map events.
type msgState struct {
	convoID         int64
	pkID            int64
	guid            [32]byte
	author          string
	fromDispname    string
	bodyXML         string
	timestamp       int64
	timestampMs     int64
	editedTimestamp int64
	editedBy        string
	identities      string
	chatmsgType     int
	typ             int
	msgType         string // raw remote "messagetype" string, for the dispatch below
	generated       bool
	skip            bool
}

func findDescendant(n *msgparse.Node, tag string) *msgparse.Node {
	if n == nil {
		return nil
	}
	if n.Tag == tag {
		return n
	}
	for _, c := range n.Children {
		if found := findDescendant(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// finalizeChat mirrors export_finalize_chat: picks a display name from the
// topic when none was given directly.
func finalizeChat(c *chatState) {
	if c.displayName == "" && c.metaTopic != "" {
		c.displayName = c.metaTopic
	}
}

// finalizeMessage mirrors export_finalize_message's messagetype dispatch,
// returning false when the message should be dropped entirely (an event
// type that carries no chat content, or one missing required fields).
func finalizeMessage(m *msgState, chatType int) bool {
	m.chatmsgType = skypedata.ChatmsgTypeMessage
	m.typ = skypedata.TypeMessage

	switch m.msgType {
	case "Event/Call":
		m.chatmsgType = skypedata.ChatmsgTypeSpecial2
		m.typ = skypedata.TypeCall
		if strings.Contains(m.bodyXML, `type="ended"`) {
			m.typ = skypedata.TypeCallEnd
		}

	case "RichText/Contacts":
		m.chatmsgType = skypedata.ChatmsgTypeSpecial
		m.typ = skypedata.TypeContacts

	case "RichText/UriObject":
		m.chatmsgType = skypedata.ChatmsgTypeSpecial
		m.typ = skypedata.TypeSharePhoto

	case "RichText/Media_GenericFile":
		m.chatmsgType = skypedata.ChatmsgTypeSpecial
		m.typ = skypedata.TypeFile
		root := msgparse.ParseBody(m.bodyXML)
		name, size := "file", "0"
		if n := findDescendant(root, "originalname"); n != nil {
			if v := n.Attr("v"); v != "" {
				name = v
			}
		}
		if n := findDescendant(root, "filesize"); n != nil {
			if v := n.Attr("v"); v != "" {
				size = v
			}
		}
		name = strings.NewReplacer("<", "&lt;", ">", "&gt;").Replace(name)
		m.bodyXML = fmt.Sprintf(`<files><file index="0" size="%s">%s</file></files>`, size, name)

	case "ThreadActivity/TopicUpdate":
		m.chatmsgType = skypedata.ChatmsgTypeTopic
		m.typ = skypedata.TypeTopic
		root := msgparse.ParseBody(m.bodyXML)
		if n := findDescendant(root, "initiator"); n != nil {
			if initiator := n.AllText(); initiator != "" {
				m.author = initiator
			}
		}
		if n := findDescendant(root, "value"); n != nil {
			m.bodyXML = n.AllText()
		}

	case "ThreadActivity/AddMember":
		m.chatmsgType = skypedata.ChatmsgTypeContacts
		m.typ = skypedata.TypeParticipants
		root := msgparse.ParseBody(m.bodyXML)
		if n := findDescendant(root, "initiator"); n != nil {
			if initiator := n.AllText(); initiator != "" {
				m.author = initiator
			}
		}
		if n := findDescendant(root, "target"); n != nil {
			m.identities = n.AllText()
		}

	case "ThreadActivity/DeleteMember":
		root := msgparse.ParseBody(m.bodyXML)
		var initiator, target string
		if n := findDescendant(root, "initiator"); n != nil {
			initiator = n.AllText()
		}
		if n := findDescendant(root, "target"); n != nil {
			target = n.AllText()
		}
		if initiator != "" {
			m.author = initiator
		}
		if m.author == target {
			m.chatmsgType = skypedata.ChatmsgTypeLeave
			m.typ = skypedata.TypeLeave
		} else {
			m.chatmsgType = skypedata.ChatmsgTypeRemove
			m.typ = skypedata.TypeRemove
			m.identities = target
		}

	case "RichText/Location":
		m.chatmsgType = skypedata.ChatmsgTypeSpecial
		m.typ = skypedata.TypeInfo

	case "ThreadActivity/PictureUpdate":
		m.chatmsgType = skypedata.ChatmsgTypePicture
		m.typ = skypedata.TypeTopic
		root := msgparse.ParseBody(m.bodyXML)
		if n := findDescendant(root, "initiator"); n != nil {
			if initiator := n.AllText(); initiator != "" {
				m.author = initiator
			}
		}

	case "RichText/Media_Video", "RichText/Media_AudioMsg":
		m.typ = skypedata.TypeShareVideo2

	case "Text", "RichText", "InviteFreeRelationshipChanged/Initialized", "RichText/Media_Card":
		// Ordinary content, defaults above already apply.

	default:
		return false // Notice, PopCard, RichText/Media_Album, other ThreadActivity/*Update, ..
	}

	if m.author == "" || m.timestamp == 0 {
		return false
	}
	if m.generated && m.bodyXML == "" && m.editedTimestamp == 0 {
		return false
	}
	return true
}

// applyMessageEdit strips an embedded <e_m> edit tag from the body, treating
// the message's own arrival time as the edit timestamp and the tag's ts/ts_ms
// as the original message's timestamp, the same reconciliation the live-sync
// edit path performs on a <e_m>-bearing body.
func applyMessageEdit(m *msgState) {
	cleaned, info := msgparse.ProcessMessageEdit(m.bodyXML)
	if !info.Present {
		return
	}
	m.editedTimestamp = m.timestamp
	m.editedBy = m.author
	if info.Author != "" {
		m.editedBy = m.author
		m.author = info.Author
	}
	if info.Timestamp != 0 {
		m.timestamp = info.Timestamp
	}
	if info.TimestampMs != 0 {
		m.timestampMs = info.TimestampMs
	}
	m.bodyXML = cleaned
}
