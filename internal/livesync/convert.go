package livesync

import (
	"skyperious/internal/skypedata"
	"skyperious/internal/skypeid"
)

// SyncResult is the outcome of a single Save call.
type SyncResult int

const (
	ResultSkip SyncResult = iota
	ResultInsert
	ResultUpdate
	ResultNoChange
)

func (r SyncResult) String() string {
	switch r {
	case ResultInsert:
		return "INSERT"
	case ResultUpdate:
		return "UPDATE"
	case ResultNoChange:
		return "NOCHANGE"
	default:
		return "SKIP"
	}
}

// convertContact maps a remote contact payload to a skypedata.Contact row.
func convertContact(o RemoteObject) (skypedata.Contact, bool) {
	skypename := o.str("skypename")
	if skypename == "" {
		return skypedata.Contact{}, false
	}
	return skypedata.Contact{
		Type:             contactTypeOf(o),
		Skypename:        skypename,
		Fullname:         o.str("fullname"),
		Displayname:      o.str("displayname"),
		GivenDisplayname: o.str("given_displayname"),
		Phone:            o.str("phone_mobile"),
		Emails:           o.str("emails"),
		Country:          o.str("country"),
		City:             o.str("city"),
		About:            o.str("about"),
	}, true
}

func contactTypeOf(o RemoteObject) int {
	if o.str("type") == "bot" || skypeid.IsBot(o.str("skypename")) {
		return skypedata.ContactTypeBot
	}
	return skypedata.ContactTypeNormal
}

// convertAccount maps a remote account payload to a skypedata.Account row.
func convertAccount(o RemoteObject) (skypedata.Account, bool) {
	skypename := o.str("skypename")
	if skypename == "" {
		return skypedata.Account{}, false
	}
	return skypedata.Account{
		Skypename:   skypename,
		Fullname:    o.str("fullname"),
		Displayname: o.str("displayname"),
		Emails:      o.str("emails"),
		AboutText:   o.str("about"),
		MoodText:    o.str("mood"),
	}, true
}

// convertChat maps a remote chat payload to a skypedata.Conversation row.
func convertChat(o RemoteObject) (skypedata.Conversation, bool) {
	identity := o.str("id")
	if identity == "" {
		identity = o.str("identity")
	}
	if identity == "" {
		return skypedata.Conversation{}, false
	}
	c := skypedata.Conversation{
		Identity:        identity,
		DisplayName:     o.str("displayname"),
		CreatorID:       o.str("creator"),
		CreationTimestamp: o.i64("createdat"),
		AltIdentity:     o.str("alt_identity"),
	}
	_, prefix := skypeid.StripPrefix(identity)
	if prefix == skypeid.PrefixGroup {
		c.Type = skypedata.ChatsTypeGroup
	} else {
		c.Type = skypedata.ChatsTypeSingle
	}
	if c.DisplayName == "" {
		c.DisplayName = synthesizeGroupName(o.slice("members"))
	}
	return c, true
}

// synthesizeGroupName builds a display name from up to 4 member display
// names plus an ellipsis, for group chats missing an explicit name.
func synthesizeGroupName(members []RemoteObject) string {
	const maxNames = 4
	var names []string
	for i, m := range members {
		if i >= maxNames {
			break
		}
		name := m.str("displayname")
		if name == "" {
			name = m.str("id")
		}
		if name != "" {
			names = append(names, name)
		}
	}
	name := joinComma(names)
	if len(members) > maxNames {
		name += ", ..."
	}
	return name
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// convertMessage maps a remote message payload to a skypedata.Message row.
func convertMessage(o RemoteObject, convoID int64) (skypedata.Message, bool) {
	remoteID := o.str("id")
	if remoteID == "" {
		return skypedata.Message{}, false
	}
	pkID, guid := skypeid.MakeMessageIDs(remoteID)
	return skypedata.Message{
		ConvoID:      convoID,
		Author:       o.str("from"),
		FromDispname: o.str("from_displayname"),
		Timestamp:    o.i64("originalarrivaltime"),
		BodyXML:      o.str("content"),
		Type:         messageTypeOf(o),
		ChatmsgType:  skypedata.ChatmsgTypeMessage,
		Identities:   o.str("identities"),
		PkID:         pkID,
		GUID:         guid,
		RemoteID:     pkID,
	}, true
}

// messageTypeOf maps the remote messagetype string to the internal type
// taxonomy, grounded on export_finalize_message's dispatch table.
func messageTypeOf(o RemoteObject) int {
	switch o.str("messagetype") {
	case "RichText", "Text":
		return skypedata.TypeMessage
	case "RichText/UriObject":
		return skypedata.TypeSharePhoto
	case "ThreadActivity/AddMember":
		return skypedata.TypeParticipants
	case "ThreadActivity/DeleteMember":
		return skypedata.TypeRemove
	case "ThreadActivity/TopicUpdate":
		return skypedata.TypeTopic
	case "Event/Call":
		return skypedata.TypeCall
	case "RichText/Contacts":
		return skypedata.TypeContacts
	case "RichText/Sms":
		return skypedata.TypeSMS
	case "RichText/Media_GenericFile":
		return skypedata.TypeFile
	default:
		return skypedata.TypeMessage
	}
}

// contentKey is the whitespace-insensitive match key spec.md §4.3 step 3
// describes for matching a remote message to a stored row that lacks a
// remote_id match, used to detect edits made before live sync was wired.
type contentKey struct {
	TimestampMs int64
	Type        int
	Author      string
	Identities  string
	BodyNorm    string
}

func contentKeyOf(m skypedata.Message) contentKey {
	return contentKey{
		TimestampMs: m.Timestamp * 1000,
		Type:        m.Type,
		Author:      m.Author,
		Identities:  m.Identities,
		BodyNorm:    normalizeWhitespace(m.BodyXML),
	}
}

func normalizeWhitespace(s string) string {
	out := make([]byte, 0, len(s))
	lastSpace := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		isSpace := c == ' ' || c == '\t' || c == '\n' || c == '\r'
		if isSpace {
			if !lastSpace && len(out) > 0 {
				out = append(out, ' ')
			}
			lastSpace = true
			continue
		}
		lastSpace = false
		out = append(out, c)
	}
	for len(out) > 0 && out[len(out)-1] == ' ' {
		out = out[:len(out)-1]
	}
	return string(out)
}
