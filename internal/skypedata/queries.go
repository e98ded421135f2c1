package skypedata

import (
	"database/sql"
	"fmt"
	"strings"

	"skyperious/internal/skypeid"
)

// GetConversations returns every conversation, with participants attached
// and the row cache populated, ordered by last activity (most recent
// first) as the teacher's FetchConversations does for chats.
func (s *Store) GetConversations() ([]Conversation, error) {
	const query = `
		SELECT id, identity, type, COALESCE(displayname, ''),
		       COALESCE(given_displayname, ''), COALESCE(creator, ''),
		       COALESCE(creation_timestamp, 0), COALESCE(alt_identity, ''),
		       COALESCE(last_message_id, 0), COALESCE(last_activity_timestamp, 0)
		FROM conversations
		ORDER BY last_activity_timestamp DESC
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("skypedata: get conversations: %w", err)
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.Identity, &c.Type, &c.DisplayName,
			&c.GivenDisplayname, &c.CreatorID, &c.CreationTimestamp, &c.AltIdentity,
			&c.LastMessageID, &c.LastActivity); err != nil {
			return nil, err
		}
		out = append(out, c)
		s.cache.put("conversations", c.ID, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		parts, err := s.getParticipants(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Participants = parts
		count, err := s.getMessageCount(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].MessageCount = count
	}
	return out, nil
}

// GetConversationsStats reports aggregate message counts per conversation
// id without materializing full Conversation rows, for cheap dashboards.
func (s *Store) GetConversationsStats() (map[int64]int, error) {
	rows, err := s.db.Query(`SELECT convo_id, COUNT(*) FROM messages GROUP BY convo_id`)
	if err != nil {
		return nil, fmt.Errorf("skypedata: conversation stats: %w", err)
	}
	defer rows.Close()
	out := map[int64]int{}
	for rows.Next() {
		var id int64
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, err
		}
		out[id] = count
	}
	return out, rows.Err()
}

func (s *Store) getMessageCount(convoID int64) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE convo_id = ?`, convoID).Scan(&count)
	return count, err
}

func (s *Store) getParticipants(convoID int64) ([]Participant, error) {
	rows, err := s.db.Query(`SELECT id, convo_id, identity, COALESCE(rank, 0) FROM participants WHERE convo_id = ?`, convoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Participant
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.ID, &p.ConvoID, &p.Identity, &p.Rank); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetContacts returns every contact row.
func (s *Store) GetContacts() ([]Contact, error) {
	const query = `
		SELECT id, COALESCE(type, 1), COALESCE(skypename, ''), COALESCE(fullname, ''),
		       COALESCE(displayname, ''), COALESCE(given_displayname, ''),
		       COALESCE(phone_mobile, ''), COALESCE(emails, ''),
		       COALESCE(country, ''), COALESCE(city, ''), COALESCE(about, ''),
		       avatar_image, COALESCE(isblocked, 0)
		FROM contacts
		ORDER BY COALESCE(displayname, fullname, skypename)
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("skypedata: get contacts: %w", err)
	}
	defer rows.Close()

	var out []Contact
	for rows.Next() {
		var c Contact
		var avatar []byte
		var blocked int
		if err := rows.Scan(&c.ID, &c.Type, &c.Skypename, &c.Fullname, &c.Displayname,
			&c.GivenDisplayname, &c.Phone, &c.Emails, &c.Country, &c.City, &c.About,
			&avatar, &blocked); err != nil {
			return nil, err
		}
		c.AvatarImage = avatar
		c.IsBlocked = blocked != 0
		out = append(out, c)
		s.cache.put("contacts", c.ID, c)
	}
	return out, rows.Err()
}

// GetMessages returns messages belonging to convoID in chronological order.
// When afterID is nonzero, only messages with id > afterID are returned,
// supporting incremental/paginated reads analogous to the teacher's
// cursor-based FetchMessages.
func (s *Store) GetMessages(convoID int64, afterID int64, limit int) ([]Message, error) {
	query := `
		SELECT id, COALESCE(is_permanent, 0), convo_id, COALESCE(author, ''),
		       COALESCE(from_dispname, ''), COALESCE(timestamp, 0), COALESCE(type, 0),
		       COALESCE(chatmsg_type, 0), COALESCE(body_xml, ''), COALESCE(edited_by, ''),
		       COALESCE(edited_timestamp, 0), COALESCE(identities, ''), COALESCE(pk_id, 0),
		       COALESCE(remote_id, 0)
		FROM messages
		WHERE convo_id = ? AND id > ?
		ORDER BY timestamp ASC, id ASC
	`
	args := []any{convoID, afterID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("skypedata: get messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var isPermanent int
		if err := rows.Scan(&m.ID, &isPermanent, &m.ConvoID, &m.Author, &m.FromDispname,
			&m.Timestamp, &m.Type, &m.ChatmsgType, &m.BodyXML, &m.EditedBy,
			&m.EditedTimestamp, &m.Identities, &m.PkID, &m.RemoteID); err != nil {
			return nil, err
		}
		m.IsPermanent = isPermanent != 0
		m.GUID = skypeid.PkIDToGUID(m.PkID)
		out = append(out, m)
	}
	return out, rows.Err()
}

// SearchMessages runs a substring search over body_xml, optionally scoped to
// a single conversation, most recent first, mirroring the teacher's
// LIKE-based SearchMessages but over the native Messages table instead of
// the Apple Messages store.
func (s *Store) SearchMessages(needle string, convoID int64, limit int) ([]Message, error) {
	query := `
		SELECT id, COALESCE(is_permanent, 0), convo_id, COALESCE(author, ''),
		       COALESCE(from_dispname, ''), COALESCE(timestamp, 0), COALESCE(type, 0),
		       COALESCE(chatmsg_type, 0), COALESCE(body_xml, ''), COALESCE(edited_by, ''),
		       COALESCE(edited_timestamp, 0), COALESCE(identities, ''), COALESCE(pk_id, 0),
		       COALESCE(remote_id, 0)
		FROM messages
		WHERE body_xml LIKE ? ESCAPE '\'
	`
	args := []any{"%" + escapeLike(needle) + "%"}
	if convoID != 0 {
		query += " AND convo_id = ?"
		args = append(args, convoID)
	}
	query += " ORDER BY timestamp DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("skypedata: search messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var isPermanent int
		if err := rows.Scan(&m.ID, &isPermanent, &m.ConvoID, &m.Author, &m.FromDispname,
			&m.Timestamp, &m.Type, &m.ChatmsgType, &m.BodyXML, &m.EditedBy,
			&m.EditedTimestamp, &m.Identities, &m.PkID, &m.RemoteID); err != nil {
			return nil, err
		}
		m.IsPermanent = isPermanent != 0
		m.GUID = skypeid.PkIDToGUID(m.PkID)
		out = append(out, m)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

// GetAccount returns the single owning account row, if one has been
// imported. Skype's native schema allows more than one row historically,
// but every consumer in this repo treats the first as the local user.
func (s *Store) GetAccount() (Account, bool, error) {
	row := s.db.QueryRow(`
		SELECT id, COALESCE(skypename, ''), COALESCE(fullname, ''),
		       COALESCE(displayname, ''), COALESCE(birthday, 0),
		       COALESCE(emails, ''), COALESCE(about, ''), COALESCE(mood_text, '')
		FROM accounts LIMIT 1
	`)
	var a Account
	err := row.Scan(&a.ID, &a.Skypename, &a.Fullname, &a.Displayname, &a.Birthday, &a.Emails, &a.AboutText, &a.MoodText)
	if err == sql.ErrNoRows {
		return Account{}, false, nil
	}
	if err != nil {
		return Account{}, false, fmt.Errorf("skypedata: get account: %w", err)
	}
	return a, true, nil
}

// InsertConversation inserts c and returns the assigned row id.
func (s *Store) InsertConversation(c Conversation) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO conversations (identity, type, displayname, given_displayname, creator, creation_timestamp, alt_identity, last_activity_timestamp) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Identity, c.Type, c.DisplayName, c.GivenDisplayname, c.CreatorID, c.CreationTimestamp, c.AltIdentity, c.LastActivity,
	)
	if err != nil {
		return 0, fmt.Errorf("skypedata: insert conversation: %w", err)
	}
	return res.LastInsertId()
}

// InsertParticipants inserts the given participants of a conversation,
// ignoring rows whose (convo_id, identity) pair already exists.
func (s *Store) InsertParticipants(convoID int64, identities []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.Prepare(`INSERT INTO participants (convo_id, identity, rank) SELECT ?, ?, 0 WHERE NOT EXISTS (SELECT 1 FROM participants WHERE convo_id = ? AND identity = ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, identity := range identities {
		if _, err := stmt.Exec(convoID, identity, convoID, identity); err != nil {
			return fmt.Errorf("skypedata: insert participant %s: %w", identity, err)
		}
	}
	s.ClearCacheRows("participants", convoID)
	return tx.Commit()
}

// InsertMessage inserts m, returning the assigned row id.
func (s *Store) InsertMessage(m Message) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO messages (convo_id, author, from_dispname, timestamp, type, chatmsg_type, body_xml, edited_by, edited_timestamp, identities, pk_id, remote_id, is_permanent) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		m.ConvoID, m.Author, m.FromDispname, m.Timestamp, m.Type, m.ChatmsgType, m.BodyXML,
		m.EditedBy, m.EditedTimestamp, m.Identities, m.PkID, m.RemoteID,
	)
	if err != nil {
		return 0, fmt.Errorf("skypedata: insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err == nil {
		s.ClearCacheRows("messages", id)
	}
	return id, err
}

// UpdateRow applies a dynamic column=>value set to a single row of table,
// for callers (merge apply, edit reconciliation) that don't have a typed
// mutator. Column names come from GetTableColumns, never user input.
func (s *Store) UpdateRow(table string, id int64, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	setClauses := make([]string, 0, len(values))
	args := make([]any, 0, len(values)+1)
	for col, val := range values {
		setClauses = append(setClauses, fmt.Sprintf("%q = ?", col))
		args = append(args, val)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %q SET %s WHERE id = ?", table, joinComma(setClauses))
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("skypedata: update %s#%d: %w", table, id, err)
	}
	s.ClearCacheRows(table, id)
	return nil
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

// DeleteRow deletes a single row from table by id and clears its cache
// entry. Cascading to dependent tables is handled by DeleteData.
func (s *Store) DeleteRow(table string, id int64) error {
	_, err := s.db.Exec(fmt.Sprintf("DELETE FROM %q WHERE id = ?", table), id)
	if err != nil {
		return fmt.Errorf("skypedata: delete %s#%d: %w", table, id, err)
	}
	s.ClearCacheRows(table, id)
	return nil
}

// CheckIntegrity runs SQLite's PRAGMA integrity_check and returns the
// problems reported, or nil if the database is consistent.
func (s *Store) CheckIntegrity() ([]string, error) {
	rows, err := s.db.Query(`PRAGMA integrity_check`)
	if err != nil {
		return nil, fmt.Errorf("skypedata: integrity check: %w", err)
	}
	defer rows.Close()
	var problems []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, err
		}
		if line != "ok" {
			problems = append(problems, line)
		}
	}
	return problems, rows.Err()
}

// RecoverData attempts to rescue readable rows from a corrupted database
// at srcPath into a fresh database at dstPath: a best-effort SELECT * per
// native table, copied row by row with INSERT OR IGNORE, skipping tables
// or rows that error.
func RecoverData(srcPath, dstPath string) (recovered int, err error) {
	src, err := sql.Open("sqlite", srcPath)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	dst, err := Open(dstPath)
	if err != nil {
		return 0, err
	}
	defer dst.Close()

	for table := range CreateStatements {
		cols := dst.GetTableColumns(table)
		if len(cols) == 0 {
			continue
		}
		query := fmt.Sprintf("SELECT * FROM %q", table)
		rows, qerr := src.Query(query)
		if qerr != nil {
			continue
		}
		for rows.Next() {
			values := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range values {
				ptrs[i] = &values[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				continue
			}
			placeholders := make([]string, len(cols))
			for i := range placeholders {
				placeholders[i] = "?"
			}
			insert := fmt.Sprintf("INSERT OR IGNORE INTO %q VALUES (%s)", table, joinComma(placeholders))
			if _, err := dst.db.Exec(insert, values...); err == nil {
				recovered++
			}
		}
		rows.Close()
	}
	return recovered, nil
}
