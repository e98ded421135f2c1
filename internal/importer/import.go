// Package importer reads a Skype/Teams JSON export (optionally wrapped in a
// tar archive) and loads it into a Store, the same terminal operation the
// live-sync engine performs incrementally but run once over an exported
// archive instead of the cloud API. Grounded on the original engine's
// export_open/export_read/export_parse/export_finalize_chat/
// export_finalize_message pipeline.
package importer

import (
	"archive/tar"
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"skyperious/internal/skypedata"
	"skyperious/internal/skypeid"
)

// ProgressFunc reports (chats processed, messages inserted) as the import
// proceeds; returning false aborts the remaining archive.
type ProgressFunc func(chats, messages int) bool

// ImportOptions configures a single Import call.
type ImportOptions struct {
	// SelfIdentity, if set, takes precedence over the export's own "userId"
	// field as the account identity added to every imported chat's
	// participants (with any single-user prefix stripped); message authors
	// are kept as the export gives them. If empty, userId is used instead.
	SelfIdentity string
	Progress     ProgressFunc
}

// ImportCounts summarizes what Import wrote.
type ImportCounts struct {
	Chats    int
	Messages int
}

// ProgressPostbackInterval is how often (in messages inserted) Import
// reports progress through its callback.
const ProgressPostbackInterval = 5000

// errAbort unwinds walkTokens cleanly when the caller's progress callback
// asks to stop; Import treats it as a normal (non-error) early return.
var errAbort = fmt.Errorf("importer: aborted by progress callback")

// editKey identifies a message for the edit-dedup pass: an edited message
// resent by the export under a new remote id maps back onto the first
// occurrence at the same (author, timestamp__ms).
type editKey struct {
	author      string
	timestampMs int64
}

// Import reads r (a raw messages.json export, or a tar archive containing
// one) and writes its conversations and messages into store.
func Import(r io.Reader, store *skypedata.Store, opts ImportOptions) (ImportCounts, error) {
	jsonReader, err := openExport(r)
	if err != nil {
		return ImportCounts{}, fmt.Errorf("importer: open export: %w", err)
	}

	dec := json.NewDecoder(jsonReader)
	imp := &importState{
		store:        store,
		self:         opts.SelfIdentity,
		progress:     opts.Progress,
		dedupByChat:  map[int64]map[editKey]int64{},
	}

	if err := walkTokens(dec, "", imp.handle); err != nil && err != errAbort {
		return imp.counts, fmt.Errorf("importer: parse export: %w", err)
	}
	return imp.counts, nil
}

// openExport peeks the first 262 bytes of r and, if they carry the POSIX
// ustar magic at its standard offset, unwraps the archive and returns the
// "messages.json" member; otherwise it returns the buffered stream
// untouched, so a bare JSON export is read with no copy.
func openExport(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, 512)
	peek, err := br.Peek(262)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}
	if len(peek) >= 262 && string(peek[257:262]) == "ustar" {
		tr := tar.NewReader(br)
		for {
			hdr, terr := tr.Next()
			if terr == io.EOF {
				return nil, fmt.Errorf("messages.json not found in archive")
			}
			if terr != nil {
				return nil, terr
			}
			if hdr.Name == "messages.json" || strings.HasSuffix(hdr.Name, "/messages.json") {
				return tr, nil
			}
		}
	}
	return br, nil
}

type importState struct {
	store    *skypedata.Store
	self     string
	progress ProgressFunc
	counts   ImportCounts

	chat *chatState
	msg  *msgState

	dedupByChat map[int64]map[editKey]int64
}

func (imp *importState) handle(e event) error {
	switch {
	case e.path == "userId" && e.kind == "value":
		if imp.self == "" {
			imp.self, _ = e.value.(string)
		}

	case e.path == "conversations.item" && e.kind == "start_map":
		imp.chat = &chatState{}

	case e.path == "conversations.item" && e.kind == "end_map":
		return imp.finishChat()

	case imp.chat != nil && imp.chat.id == 0 && e.path == "conversations.item.id" && e.kind == "value":
		id, _ := e.value.(string)
		imp.startChat(id)

	case imp.chat != nil && e.path == "conversations.item.displayName" && e.kind == "value":
		imp.chat.displayName, _ = e.value.(string)

	case imp.chat != nil && e.path == "conversations.item.threadProperties.topic" && e.kind == "value":
		imp.chat.metaTopic, _ = e.value.(string)

	case imp.chat != nil && e.path == "conversations.item.threadProperties.members" && e.kind == "value":
		imp.addMembers(e.value)

	case imp.chat != nil && e.path == "conversations.item.MessageList.item" && e.kind == "start_map":
		imp.msg = &msgState{convoID: imp.chat.id}

	case imp.chat != nil && imp.msg != nil && e.path == "conversations.item.MessageList.item" && e.kind == "end_map":
		return imp.finishMessage()

	case imp.msg != nil && e.path == "conversations.item.MessageList.item.id" && e.kind == "value":
		remoteID, _ := e.value.(string)
		imp.msg.pkID, imp.msg.guid = skypeid.MakeMessageIDs(remoteID)

	case imp.msg != nil && e.path == "conversations.item.MessageList.item.from" && e.kind == "value":
		raw, _ := e.value.(string)
		imp.msg.author = skypeid.IdentityToID(raw)

	case imp.msg != nil && e.path == "conversations.item.MessageList.item.displayName" && e.kind == "value":
		imp.msg.fromDispname, _ = e.value.(string)

	case imp.msg != nil && e.path == "conversations.item.MessageList.item.content" && e.kind == "value":
		imp.msg.bodyXML, _ = e.value.(string)

	case imp.msg != nil && e.path == "conversations.item.MessageList.item.originalarrivaltime" && e.kind == "value":
		if s, ok := e.value.(string); ok {
			if ms, err := parseArrivalTime(s); err == nil {
				imp.msg.timestampMs = ms
				imp.msg.timestamp = ms / 1000
			} else {
				slog.Warn("importer: unparsable arrival time", "value", s, "error", err)
			}
		}

	case imp.msg != nil && e.path == "conversations.item.MessageList.item.properties.edittime" && e.kind == "value":
		imp.msg.editedTimestamp = toInt64(e.value)

	case imp.msg != nil && e.path == "conversations.item.MessageList.item.properties.deletetime" && e.kind == "value":
		imp.msg.editedTimestamp = toInt64(e.value)
		imp.msg.bodyXML = ""

	case imp.msg != nil && e.path == "conversations.item.MessageList.item.properties.isserversidegenerated" && e.kind == "value":
		imp.msg.generated = toBool(e.value)

	case imp.msg != nil && e.path == "conversations.item.MessageList.item.messagetype" && e.kind == "value":
		imp.msg.msgType, _ = e.value.(string)
	}
	return nil
}

// startChat decides the chat's identity, type, and whether it should be
// skipped outright (the "48:" special-conversation prefix carries no chat
// content worth keeping), and inserts the row immediately so later
// MessageList entries have a convo id to attach to.
func (imp *importState) startChat(rawIdentity string) {
	bare, prefix := skypeid.StripPrefix(rawIdentity)
	c := imp.chat
	c.identity = rawIdentity

	if prefix == skypeid.PrefixSpecial {
		c.skip = true
		return
	}
	if prefix == skypeid.PrefixGroup {
		c.typ = skypedata.ChatsTypeGroup
	} else {
		c.typ = skypedata.ChatsTypeSingle
		if prefix != skypeid.PrefixBot {
			c.identity = bare
		}
	}

	id, err := imp.store.InsertConversation(skypedata.Conversation{
		Identity: c.identity,
		Type:     c.typ,
	})
	if err != nil {
		slog.Warn("importer: insert conversation failed", "identity", c.identity, "error", err)
		c.skip = true
		return
	}
	c.id = id
	imp.dedupByChat[id] = map[editKey]int64{}
}

func (imp *importState) addMembers(value any) {
	s, ok := value.(string)
	if !ok || s == "" {
		return
	}
	var members []string
	if err := json.Unmarshal([]byte(s), &members); err != nil {
		slog.Warn("importer: unparsable threadProperties.members", "error", err)
		return
	}
	for i, m := range members {
		members[i] = skypeid.IdentityToID(m)
	}
	imp.chat.members = members
}

func (imp *importState) finishChat() error {
	c := imp.chat
	imp.msg = nil
	imp.chat = nil
	if c == nil || c.skip {
		if c != nil && c.id != 0 {
			if _, err := imp.store.DeleteData("conversations", c.id); err != nil {
				return err
			}
		}
		return nil
	}

	finalizeChat(c)

	members := c.members
	if len(members) == 0 && c.typ == skypedata.ChatsTypeSingle {
		members = []string{c.identity}
	}
	if imp.self != "" {
		members = append(members, skypeid.IdentityToID(imp.self))
	}
	if len(members) > 0 {
		if err := imp.store.InsertParticipants(c.id, members); err != nil {
			return err
		}
	}

	if c.displayName != "" {
		if err := imp.store.UpdateRow("conversations", c.id, map[string]any{"displayname": c.displayName}); err != nil {
			return err
		}
	}

	imp.counts.Chats++
	if imp.progress != nil && !imp.progress(imp.counts.Chats, imp.counts.Messages) {
		return errAbort
	}
	return nil
}

func (imp *importState) finishMessage() error {
	m := imp.msg
	imp.msg = nil
	if m == nil || m.convoID == 0 {
		return nil
	}

	if !finalizeMessage(m, imp.chat.typ) {
		return nil
	}
	applyMessageEdit(m)
	if m.author == "" || m.timestamp == 0 {
		return nil
	}

	dedup := imp.dedupByChat[m.convoID]
	key := editKey{author: m.author, timestampMs: m.timestampMs}
	if prevID, ok := dedup[key]; ok {
		return imp.store.UpdateRow("messages", prevID, map[string]any{
			"pk_id": m.pkID,
			"body_xml": m.bodyXML,
		})
	}

	id, err := imp.store.InsertMessage(skypedata.Message{
		ConvoID:         m.convoID,
		Author:          m.author,
		FromDispname:    m.fromDispname,
		Timestamp:       m.timestamp,
		Type:            m.typ,
		ChatmsgType:     m.chatmsgType,
		BodyXML:         m.bodyXML,
		EditedBy:        m.editedBy,
		EditedTimestamp: m.editedTimestamp,
		Identities:      m.identities,
		PkID:            m.pkID,
	})
	if err != nil {
		return fmt.Errorf("importer: insert message: %w", err)
	}
	if m.editedTimestamp != 0 {
		dedup[key] = id
	}

	imp.counts.Messages++
	if imp.progress != nil && imp.counts.Messages%ProgressPostbackInterval == 0 {
		if !imp.progress(imp.counts.Chats, imp.counts.Messages) {
			return errAbort
		}
	}
	return nil
}

func toInt64(v any) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	default:
		return 0
	}
}

func toBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	default:
		return false
	}
}
