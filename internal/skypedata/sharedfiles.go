package skypedata

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// StoreSharedFile records a file attachment materialized on disk for msgID
// in convoID, returning the assigned row id.
func (s *Store) StoreSharedFile(f SharedFile) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO _shared_files_ (convo_id, msg_id, docid, author, category, mimetype, filesize, filename, filepath) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ConvoID, f.MsgID, f.DocID, f.Author, f.Category, f.MimeType, f.Filesize, f.Filename, f.Filepath,
	)
	if err != nil {
		return 0, fmt.Errorf("skypedata: store shared file: %w", err)
	}
	return res.LastInsertId()
}

// RenameSharePath updates the on-disk path recorded for a shared file,
// e.g. after the exporter moves the archive's media directory.
func (s *Store) RenameSharePath(id int64, newPath string) error {
	if _, err := s.db.Exec(`UPDATE _shared_files_ SET filepath = ? WHERE id = ?`, newPath, id); err != nil {
		return fmt.Errorf("skypedata: rename share path #%d: %w", id, err)
	}
	s.ClearCacheRows("_shared_files_", id)
	return nil
}

// GetSharedFile returns a single shared-file row by id.
func (s *Store) GetSharedFile(id int64) (SharedFile, error) {
	var f SharedFile
	err := s.db.QueryRow(
		`SELECT id, convo_id, msg_id, COALESCE(docid, ''), author, COALESCE(category, ''), COALESCE(mimetype, ''), filesize, filename, filepath FROM _shared_files_ WHERE id = ?`, id,
	).Scan(&f.ID, &f.ConvoID, &f.MsgID, &f.DocID, &f.Author, &f.Category, &f.MimeType, &f.Filesize, &f.Filename, &f.Filepath)
	if err != nil {
		return SharedFile{}, fmt.Errorf("skypedata: get shared file #%d: %w", id, err)
	}
	return f, nil
}

// GetSharedFilesByConversation returns every shared file attached to
// messages of convoID, most recent first.
func (s *Store) GetSharedFilesByConversation(convoID int64) ([]SharedFile, error) {
	rows, err := s.db.Query(
		`SELECT id, convo_id, msg_id, COALESCE(docid, ''), author, COALESCE(category, ''), COALESCE(mimetype, ''), filesize, filename, filepath FROM _shared_files_ WHERE convo_id = ? ORDER BY id DESC`, convoID,
	)
	if err != nil {
		return nil, fmt.Errorf("skypedata: get shared files for convo %d: %w", convoID, err)
	}
	defer rows.Close()
	var out []SharedFile
	for rows.Next() {
		var f SharedFile
		if err := rows.Scan(&f.ID, &f.ConvoID, &f.MsgID, &f.DocID, &f.Author, &f.Category, &f.MimeType, &f.Filesize, &f.Filename, &f.Filepath); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// FormatSize renders a shared file's size the way the exporter and TUI
// display it, using go-humanize in place of the teacher's hand-rolled
// formatBytes.
func (f SharedFile) FormatSize() string {
	return humanize.Bytes(uint64(f.Filesize))
}
