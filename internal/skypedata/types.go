package skypedata

import "time"

// Account is a row of the Accounts table, trimmed to the fields the rest
// of this module actually reads and writes.
type Account struct {
	ID          int64
	Skypename   string
	Fullname    string
	Displayname string
	Birthday    int64
	Emails      string
	AboutText   string
	MoodText    string
}

// Contact is a row of the Contacts table.
type Contact struct {
	ID              int64
	Type            int
	Skypename       string
	Fullname        string
	Displayname     string
	GivenDisplayname string
	Phone           string
	Emails          string
	Country         string
	City            string
	About           string
	AvatarImage     []byte
	IsBlocked       bool
}

// IsBot reports whether the contact's type marks it as a bot account.
func (c Contact) IsBot() bool { return c.Type == ContactTypeBot }

// Conversation is a row of the Conversations table, joined with the
// identity's bookkeeping fields callers commonly need together.
type Conversation struct {
	ID              int64
	Identity        string
	Type            int
	DisplayName     string
	GivenDisplayname string
	CreatorID       string
	CreationTimestamp int64
	AltIdentity     string
	LastMessageID   int64
	LastActivity    int64
	MessageCount    int
	Participants    []Participant

	// Link is populated by Links() and never persisted; it points at
	// the legacy P2P conversation this one is a continuation of, if any.
	Link *Conversation
}

// LastActivityTime converts LastActivity (epoch seconds) to time.Time.
func (c Conversation) LastActivityTime() time.Time {
	if c.LastActivity == 0 {
		return time.Time{}
	}
	return time.Unix(c.LastActivity, 0).UTC()
}

// Participant is a row of the Participants table.
type Participant struct {
	ID         int64
	ConvoID    int64
	Identity   string
	Rank       int
}

// Message is a row of the Messages table.
type Message struct {
	ID              int64
	IsPermanent     bool
	ConvoID         int64
	Author          string
	FromDispname    string
	Timestamp       int64
	Type            int
	ChatmsgType     int
	BodyXML         string
	EditedBy        string
	EditedTimestamp int64
	Identities      string
	GUID            [32]byte
	PkID            int64
	RemoteID        int64
}

// Time converts Timestamp (epoch seconds) to time.Time.
func (m Message) Time() time.Time {
	if m.Timestamp == 0 {
		return time.Time{}
	}
	return time.Unix(m.Timestamp, 0).UTC()
}

// IsEdited reports whether the message carries edit metadata.
func (m Message) IsEdited() bool { return m.EditedTimestamp != 0 }

// IsRemoved reports whether the message was tombstoned by a later removal.
func (m Message) IsRemoved() bool { return m.BodyXML == "" && m.ChatmsgType == ChatmsgTypeMessage && m.EditedTimestamp != 0 }

// Transfer is a row of the Transfers table (file transfer metadata).
type Transfer struct {
	ID              int64
	Type            int
	PartnerHandle   string
	PartnerDispname string
	Filename        string
	Filesize        int64
	ConvoID         int64
	PkID            int64
	ChatmsgGUID     []byte
}

// SMS is a row of the SMSes table.
type SMS struct {
	ID            int64
	Type          int
	Body          string
	Timestamp     int64
	TargetNumbers string
}

// Call is a row of the Calls table.
type Call struct {
	ID             int64
	BeginTimestamp int64
	Duration       int64
	Name           string
	HostIdentity   string
}

// Video is a row of the Videos table.
type Video struct {
	ID        int64
	ConvoID   int64
	Duration1080 int64
}

// SharedFile is a row of the extension `_shared_files_` table: a file
// attachment the exporter or importer has materialized on disk.
type SharedFile struct {
	ID       int64
	ConvoID  int64
	MsgID    int64
	DocID    string
	Author   string
	Category string
	MimeType string
	Filesize int64
	Filename string
	Filepath string
}
