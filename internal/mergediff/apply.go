package mergediff

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"skyperious/internal/skypedata"
)

// ApplyOptions configures how Apply copies shared-file bytes and reports
// progress while inserting a chat's delta.
type ApplyOptions struct {
	// DestShareDir, if non-empty, is the directory shared-file bytes are
	// copied into as their rows are attached to the destination.
	DestShareDir string
	Progress     ProgressFunc
}

// ApplyCounts tallies what Apply actually inserted, for the merge
// summary line spec.md §4.4 describes.
type ApplyCounts struct {
	ConversationID int64
	NewChat        bool
	Messages       int
	Participants   int
	SharedFiles    int
}

// Apply inserts diff into dst in a single transaction: creates the
// right-side conversation if chat2 is nil, inserts new participants, new
// messages (remapping the author identity through accountRemap whenever it
// names either side's own account), and shared-file rows with their bytes
// copied alongside. Nothing is committed if any step fails.
func Apply(dst *skypedata.Store, chat1 skypedata.Conversation, chat2 *skypedata.Conversation, diff ChatDiff, messagesByID map[int64]skypedata.Message, accountRemap map[string]string, opts ApplyOptions) (ApplyCounts, error) {
	var counts ApplyCounts

	tx, err := dst.DB().Begin()
	if err != nil {
		return counts, err
	}
	defer tx.Rollback()

	convoID, newChat, err := ensureConversationTx(tx, chat1, chat2)
	if err != nil {
		return counts, fmt.Errorf("mergediff: ensure conversation: %w", err)
	}
	counts.ConversationID = convoID
	counts.NewChat = newChat

	for _, p := range diff.Participants {
		if err := insertParticipantTx(tx, convoID, p.Participant.Identity); err != nil {
			return counts, fmt.Errorf("mergediff: insert participant: %w", err)
		}
		counts.Participants++
	}

	total := len(diff.MessageIDs)
	for i, id := range diff.MessageIDs {
		msg, ok := messagesByID[id]
		if !ok {
			continue
		}
		if remapped, ok := accountRemap[msg.Author]; ok {
			msg.Author = remapped
		}
		if err := insertMessageTx(tx, convoID, msg); err != nil {
			return counts, fmt.Errorf("mergediff: insert message: %w", err)
		}
		counts.Messages++

		if opts.Progress != nil && (i+1)%ProgressPostbackInterval == 0 {
			if !opts.Progress(i+1, total) {
				break
			}
		}
	}

	for _, sf := range diff.SharedFiles {
		msgID := sf.File.MsgID
		if sf.MsgID2 != 0 {
			msgID = sf.MsgID2
		}
		destPath, err := copySharedFile(sf.File, opts.DestShareDir)
		if err != nil {
			return counts, fmt.Errorf("mergediff: copy shared file: %w", err)
		}
		if err := insertSharedFileTx(tx, convoID, msgID, sf.File, destPath); err != nil {
			return counts, fmt.Errorf("mergediff: insert shared file: %w", err)
		}
		counts.SharedFiles++
	}

	if err := tx.Commit(); err != nil {
		return counts, err
	}

	dst.ClearCacheRows("conversations", convoID)
	dst.ClearCacheRows("messages")
	dst.ClearCacheRows("participants", convoID)
	dst.ClearCacheRows("_shared_files_")
	return counts, nil
}

func ensureConversationTx(tx *sql.Tx, chat1 skypedata.Conversation, chat2 *skypedata.Conversation) (id int64, isNew bool, err error) {
	if chat2 != nil {
		return chat2.ID, false, nil
	}
	res, err := tx.Exec(
		`INSERT INTO conversations (identity, type, displayname, given_displayname, creator, creation_timestamp, alt_identity, last_activity_timestamp) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		chat1.Identity, chat1.Type, chat1.DisplayName, chat1.GivenDisplayname, chat1.CreatorID,
		chat1.CreationTimestamp, chat1.AltIdentity, chat1.LastActivity,
	)
	if err != nil {
		return 0, false, err
	}
	id, err = res.LastInsertId()
	return id, true, err
}

func insertParticipantTx(tx *sql.Tx, convoID int64, identity string) error {
	_, err := tx.Exec(
		`INSERT INTO participants (convo_id, identity, rank) SELECT ?, ?, 0 WHERE NOT EXISTS (SELECT 1 FROM participants WHERE convo_id = ? AND identity = ?)`,
		convoID, identity, convoID, identity,
	)
	return err
}

func insertMessageTx(tx *sql.Tx, convoID int64, m skypedata.Message) error {
	_, err := tx.Exec(
		`INSERT INTO messages (convo_id, author, from_dispname, timestamp, type, chatmsg_type, body_xml, edited_by, edited_timestamp, identities, pk_id, remote_id, is_permanent) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		convoID, m.Author, m.FromDispname, m.Timestamp, m.Type, m.ChatmsgType, m.BodyXML,
		m.EditedBy, m.EditedTimestamp, m.Identities, m.PkID, m.RemoteID,
	)
	return err
}

func insertSharedFileTx(tx *sql.Tx, convoID, msgID int64, f skypedata.SharedFile, destPath string) error {
	_, err := tx.Exec(
		`INSERT INTO _shared_files_ (convo_id, msg_id, docid, author, category, mimetype, filesize, filename, filepath) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		convoID, msgID, f.DocID, f.Author, f.Category, f.MimeType, f.Filesize, f.Filename, destPath,
	)
	return err
}

// copySharedFile copies f's bytes into destDir, returning the new path.
// Empty destDir or a missing source file is not an error: the source path
// is returned unchanged, so the row is still inserted with it, matching the
// original engine's tolerance for a share directory that's gone stale.
func copySharedFile(f skypedata.SharedFile, destDir string) (string, error) {
	if destDir == "" || f.Filepath == "" {
		return f.Filepath, nil
	}
	src, err := os.Open(f.Filepath)
	if err != nil {
		return f.Filepath, nil
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return f.Filepath, err
	}
	destPath := filepath.Join(destDir, filepath.Base(f.Filepath))
	dst, err := os.Create(destPath)
	if err != nil {
		return f.Filepath, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return f.Filepath, err
	}
	return destPath, nil
}
