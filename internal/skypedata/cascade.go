package skypedata

import "fmt"

// cascadeEdge names a child table and the column in it that references the
// parent row's id.
type cascadeEdge struct {
	childTable string
	childCol   string
}

// cascadeGraph mirrors CASCADE_DELETES from the original engine: deleting a
// row from the key table also deletes matching rows from each edge's child
// table. Calls cascades only to CallMembers (via call_db_id), and no edge
// leads into Calls, so deleting a conversation leaves the calls whose
// conv_dbid references it in place.
var cascadeGraph = map[string][]cascadeEdge{
	"conversations": {
		{childTable: "messages", childCol: "convo_id"},
		{childTable: "participants", childCol: "convo_id"},
		{childTable: "videos", childCol: "convo_id"},
		{childTable: "_shared_files_", childCol: "convo_id"},
	},
	"messages": {
		{childTable: "messageannotations", childCol: "message_id"},
		{childTable: "_shared_files_", childCol: "msg_id"},
	},
	"calls": {
		{childTable: "callmembers", childCol: "call_db_id"},
	},
}

// maxCascadeDepth bounds the breadth-first traversal so a miswired edge
// cannot recurse indefinitely.
const maxCascadeDepth = 3

// DeleteData deletes the row identified by (table, id) and cascades the
// deletion to dependent rows per cascadeGraph, breadth-first, up to
// maxCascadeDepth levels, inside a single transaction.
func (s *Store) DeleteData(table string, id int64) (deleted int, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	type frontierEntry struct {
		table string
		id    int64
	}

	// Breadth-first discovery, recording visit order so deletion can run
	// leaves-first in a single reverse pass below.
	var order []frontierEntry
	order = append(order, frontierEntry{table, id})
	walk := []frontierEntry{{table, id}}
	for depth := 0; depth < maxCascadeDepth && len(walk) > 0; depth++ {
		var next []frontierEntry
		for _, entry := range walk {
			for _, edge := range cascadeGraph[entry.table] {
				rows, qerr := tx.Query(fmt.Sprintf("SELECT id FROM %q WHERE %q = ?", edge.childTable, edge.childCol), entry.id)
				if qerr != nil {
					continue
				}
				for rows.Next() {
					var cid int64
					if serr := rows.Scan(&cid); serr == nil {
						child := frontierEntry{edge.childTable, cid}
						order = append(order, child)
						next = append(next, child)
					}
				}
				rows.Close()
			}
		}
		walk = next
	}

	for i := len(order) - 1; i >= 0; i-- {
		e := order[i]
		res, derr := tx.Exec(fmt.Sprintf("DELETE FROM %q WHERE id = ?", e.table), e.id)
		if derr != nil {
			return 0, fmt.Errorf("skypedata: cascade delete %s#%d: %w", e.table, e.id, derr)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			deleted += int(n)
		}
		s.ClearCacheRows(e.table, e.id)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return deleted, nil
}
