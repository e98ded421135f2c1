package livesync

import (
	"fmt"
	"log/slog"

	"skyperious/internal/skypedata"
)

// SyncCounts tallies the outcome of every Save call made during a run,
// keyed "<table>_new"/"<table>_updated".
type SyncCounts map[string]int

func (c SyncCounts) record(table string, result SyncResult) {
	switch result {
	case ResultInsert:
		c[table+"_new"]++
	case ResultUpdate:
		c[table+"_updated"]++
	}
}

// Save reconciles a single remote object into the database, following the
// six-step contract: convert, match by table-specific key (contacts match
// under either identity form), match-by-content for messages, group
// display-name synthesis, insert/update + cache, and supporting-row
// insertion. A matched contact keeps its stored identity: neither that
// row nor references to it in other tables are rewritten to a canonical
// form.
func (e *Engine) Save(table string, item RemoteObject, parentConvoID int64) (SyncResult, error) {
	switch table {
	case "contacts":
		return e.saveContact(item)
	case "accounts":
		return e.saveAccount(item)
	case "chats":
		return e.saveChat(item)
	case "messages":
		return e.saveMessage(item, parentConvoID)
	default:
		return ResultSkip, nil
	}
}

func (e *Engine) saveContact(item RemoteObject) (SyncResult, error) {
	contact, ok := convertContact(item)
	if !ok {
		return ResultSkip, nil
	}
	existing, err := e.findContactByIdentitySymmetric(contact.Skypename)
	if err != nil {
		return ResultSkip, err
	}
	if existing == nil {
		id, err := e.insertContact(contact)
		if err != nil {
			return ResultSkip, err
		}
		e.Counts.record("contacts", ResultInsert)
		e.Store.ClearCacheRows("contacts", id)
		return ResultInsert, nil
	}
	if contactsEqual(*existing, contact) {
		return ResultNoChange, nil
	}
	if err := e.updateContact(existing.ID, contact); err != nil {
		return ResultSkip, err
	}
	e.Counts.record("contacts", ResultUpdate)
	return ResultUpdate, nil
}

func contactsEqual(a, b skypedata.Contact) bool {
	return a.Fullname == b.Fullname && a.Displayname == b.Displayname &&
		a.Phone == b.Phone && a.Emails == b.Emails && a.Country == b.Country &&
		a.City == b.City && a.About == b.About
}

// findContactByIdentitySymmetric looks up a contact by skypename, also
// checking the bot-prefixed and unprefixed forms, matching spec.md §4.3
// step 2's symmetric contact lookup.
func (e *Engine) findContactByIdentitySymmetric(skypename string) (*skypedata.Contact, error) {
	contacts, err := e.Store.GetContacts()
	if err != nil {
		return nil, err
	}
	bare, _ := stripBotPrefix(skypename)
	for _, c := range contacts {
		cBare, _ := stripBotPrefix(c.Skypename)
		if c.Skypename == skypename || cBare == bare {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func stripBotPrefix(s string) (string, bool) {
	const botPrefix = "28:"
	if len(s) > len(botPrefix) && s[:len(botPrefix)] == botPrefix {
		return s[len(botPrefix):], true
	}
	return s, false
}

func (e *Engine) insertContact(c skypedata.Contact) (int64, error) {
	res, err := e.Store.DB().Exec(
		`INSERT INTO contacts (type, skypename, fullname, displayname, given_displayname, phone_mobile, emails, country, city, about) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Type, c.Skypename, c.Fullname, c.Displayname, c.GivenDisplayname, c.Phone, c.Emails, c.Country, c.City, c.About,
	)
	if err != nil {
		return 0, fmt.Errorf("livesync: insert contact %s: %w", c.Skypename, err)
	}
	return res.LastInsertId()
}

func (e *Engine) updateContact(id int64, c skypedata.Contact) error {
	return e.Store.UpdateRow("contacts", id, map[string]any{
		"fullname": c.Fullname, "displayname": c.Displayname, "phone_mobile": c.Phone,
		"emails": c.Emails, "country": c.Country, "city": c.City, "about": c.About,
	})
}

func (e *Engine) saveAccount(item RemoteObject) (SyncResult, error) {
	account, ok := convertAccount(item)
	if !ok {
		return ResultSkip, nil
	}
	var existingID int64
	err := e.Store.DB().QueryRow(`SELECT id FROM accounts WHERE skypename = ?`, account.Skypename).Scan(&existingID)
	if err != nil {
		res, err := e.Store.DB().Exec(
			`INSERT INTO accounts (skypename, fullname, displayname, emails, about, mood_text) VALUES (?, ?, ?, ?, ?, ?)`,
			account.Skypename, account.Fullname, account.Displayname, account.Emails, account.AboutText, account.MoodText,
		)
		if err != nil {
			return ResultSkip, err
		}
		id, _ := res.LastInsertId()
		e.Counts.record("accounts", ResultInsert)
		e.Store.ClearCacheRows("accounts", id)
		return ResultInsert, nil
	}
	if err := e.Store.UpdateRow("accounts", existingID, map[string]any{
		"fullname": account.Fullname, "displayname": account.Displayname,
		"emails": account.Emails, "about": account.AboutText, "mood_text": account.MoodText,
	}); err != nil {
		return ResultSkip, err
	}
	e.Counts.record("accounts", ResultUpdate)
	return ResultUpdate, nil
}

func (e *Engine) saveChat(item RemoteObject) (SyncResult, error) {
	chat, ok := convertChat(item)
	if !ok {
		return ResultSkip, nil
	}
	convos, err := e.Store.GetConversations()
	if err != nil {
		return ResultSkip, err
	}
	for _, c := range convos {
		if c.Identity == chat.Identity {
			return ResultNoChange, nil
		}
	}
	id, err := e.Store.InsertConversation(chat)
	if err != nil {
		return ResultSkip, err
	}
	var identities []string
	for _, m := range item.slice("members") {
		if identity := m.str("id"); identity != "" {
			identities = append(identities, identity)
		}
	}
	if err := e.Store.InsertParticipants(id, identities); err != nil {
		return ResultSkip, err
	}
	e.Counts.record("chats", ResultInsert)
	return ResultInsert, nil
}

func (e *Engine) saveMessage(item RemoteObject, convoID int64) (SyncResult, error) {
	msg, ok := convertMessage(item, convoID)
	if !ok {
		return ResultSkip, nil
	}

	existing, err := e.findMessageByRemoteID(convoID, msg.RemoteID)
	if err != nil {
		return ResultSkip, err
	}
	if existing == nil {
		existing, err = e.findMessageByContentKey(convoID, msg)
		if err != nil {
			return ResultSkip, err
		}
	}

	if existing == nil {
		id, err := e.Store.InsertMessage(msg)
		if err != nil {
			return ResultSkip, err
		}
		e.Counts.record("messages", ResultInsert)
		e.Store.ClearCacheRows("messages", id)
		e.saveSupportingRows(msg, item)
		return ResultInsert, nil
	}

	if existing.RemoteID == msg.RemoteID && existing.BodyXML != msg.BodyXML {
		return e.reconcileEdit(*existing, msg)
	}
	if existing.BodyXML == msg.BodyXML {
		return ResultNoChange, nil
	}
	return e.reconcileEdit(*existing, msg)
}

func (e *Engine) findMessageByRemoteID(convoID, remoteID int64) (*skypedata.Message, error) {
	if remoteID == 0 {
		return nil, nil
	}
	messages, err := e.Store.GetMessages(convoID, 0, 0)
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		if m.RemoteID == remoteID {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

func (e *Engine) findMessageByContentKey(convoID int64, candidate skypedata.Message) (*skypedata.Message, error) {
	messages, err := e.Store.GetMessages(convoID, 0, 0)
	if err != nil {
		return nil, err
	}
	want := contentKeyOf(candidate)
	for _, m := range messages {
		if contentKeyOf(m) == want {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

// reconcileEdit copies the newer body into the stored message, sets
// edited_by/edited_timestamp = max(timestamp, timestamp0, edited_timestamp0),
// and keeps the older pk_id/guid/timestamp when they are in fact older.
func (e *Engine) reconcileEdit(stored, incoming skypedata.Message) (SyncResult, error) {
	editedTimestamp := maxInt64(incoming.Timestamp, stored.Timestamp, stored.EditedTimestamp)
	values := map[string]any{
		"body_xml":         incoming.BodyXML,
		"edited_by":        incoming.Author,
		"edited_timestamp": editedTimestamp,
	}
	if stored.Timestamp <= incoming.Timestamp {
		values["pk_id"] = stored.PkID
		values["timestamp"] = stored.Timestamp
	}
	if err := e.Store.UpdateRow("messages", stored.ID, values); err != nil {
		return ResultSkip, err
	}
	e.Counts.record("messages", ResultUpdate)
	slog.Debug("livesync: reconciled edited message", "id", stored.ID, "run_id", e.RunID)
	return ResultUpdate, nil
}

func maxInt64(values ...int64) int64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// saveSupportingRows inserts the rows a message type requires alongside
// the message itself: transfers for file messages, calls for call-end
// messages (duration summed from the "duration" field of each entry in the
// item's "partlist"; <duration> tags in the message body are not read).
func (e *Engine) saveSupportingRows(msg skypedata.Message, item RemoteObject) {
	switch msg.Type {
	case skypedata.TypeFile:
		for _, f := range item.slice("files") {
			_, _ = e.Store.DB().Exec(
				`INSERT INTO transfers (type, convo_id, filename, filesize, pk_id) VALUES (?, ?, ?, ?, ?)`,
				skypedata.TransferTypeInbound, msg.ConvoID, f.str("name"), f.i64("size"), msg.PkID,
			)
		}
	case skypedata.TypeCallEnd:
		duration := int64(0)
		for _, part := range item.slice("partlist") {
			duration += part.i64("duration")
		}
		_, _ = e.Store.DB().Exec(
			`INSERT INTO calls (begin_timestamp, duration, host_identity) VALUES (?, ?, ?)`,
			msg.Timestamp, duration, msg.Author,
		)
	}
}
