package livesync

import (
	"context"
	"fmt"
)

// Populate reconciles recent (and, if selectedChats is empty and syncOlder
// is true, all remaining chats listed by Client.Chats): for each chat it pages through
// messages via Client.Messages, saving each one, and stops early once a
// message already observed this run comes back NOCHANGE (the loop
// terminator spec.md §4.3 describes). After each chat it updates the
// conversation's last_message_id/last_activity_timestamp and patches
// creation_timestamp downward if an earlier value was observed.
func (e *Engine) Populate(ctx context.Context, selectedChats []string, syncOlder bool) error {
	recent, err := e.fetchRecentChats(ctx)
	if err != nil {
		return err
	}
	if len(recent) == 0 && err == nil {
		e.logf("livesync: recent-chats batch empty, treating as rate-limited, aborting run")
		return nil
	}

	chats := recent
	if len(selectedChats) == 0 && syncOlder {
		older, err := e.fetchOlderChats(ctx, recent)
		if err != nil {
			return err
		}
		chats = append(chats, older...)
	} else if len(selectedChats) > 0 {
		chats = filterChats(chats, selectedChats)
	}

	for _, chat := range chats {
		if err := e.populateChat(ctx, chat); err != nil {
			return err
		}
	}
	return nil
}

func filterChats(chats []RemoteObject, selected []string) []RemoteObject {
	want := map[string]bool{}
	for _, s := range selected {
		want[s] = true
	}
	var out []RemoteObject
	for _, c := range chats {
		id := c.str("id")
		if id == "" {
			id = c.str("identity")
		}
		if want[id] {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) fetchRecentChats(ctx context.Context) ([]RemoteObject, error) {
	var chats []RemoteObject
	err := e.call(ctx, func() error {
		var innerErr error
		chats, innerErr = e.Client.RecentChats(ctx)
		return innerErr
	})
	return chats, err
}

func (e *Engine) fetchOlderChats(ctx context.Context, recent []RemoteObject) ([]RemoteObject, error) {
	var all []RemoteObject
	err := e.call(ctx, func() error {
		var innerErr error
		all, innerErr = e.Client.Chats(ctx)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	recentIDs := map[string]bool{}
	for _, c := range recent {
		recentIDs[c.str("id")] = true
	}
	var older []RemoteObject
	for _, c := range all {
		if !recentIDs[c.str("id")] {
			older = append(older, c)
		}
	}
	return older, nil
}

func (e *Engine) populateChat(ctx context.Context, chat RemoteObject) error {
	result, err := e.Save("chats", chat, 0)
	if err != nil {
		return err
	}
	convoID, err := e.resolveConvoID(chat)
	if err != nil || convoID == 0 {
		return err
	}
	_ = result

	var (
		cursor          string
		lastPkID        int64
		lastActivity    int64
		earliestCreated int64
	)
	for {
		var (
			messages   []RemoteObject
			nextCursor string
		)
		err := e.call(ctx, func() error {
			var innerErr error
			messages, nextCursor, innerErr = e.Client.Messages(ctx, chat.str("id"), cursor)
			return innerErr
		})
		if err != nil {
			return err
		}
		if len(messages) == 0 {
			break
		}

		stop := false
		for _, rm := range messages {
			saveResult, err := e.Save("messages", rm, convoID)
			if err != nil {
				return err
			}
			msg, _ := convertMessage(rm, convoID)
			if saveResult == ResultNoChange {
				if e.seenThisSession[msg.PkID] {
					stop = true
					break
				}
				e.seenThisSession[msg.PkID] = true
			}
			if msg.Timestamp > lastActivity {
				lastActivity = msg.Timestamp
				lastPkID = msg.PkID
			}
			if earliestCreated == 0 || msg.Timestamp < earliestCreated {
				earliestCreated = msg.Timestamp
			}
		}
		if stop || nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	var lastMessageID, created int64
	db := e.Store.DB()
	_ = db.QueryRow(`SELECT id FROM messages WHERE convo_id = ? AND pk_id = ?`, convoID, lastPkID).Scan(&lastMessageID)
	_ = db.QueryRow(`SELECT COALESCE(creation_timestamp, 0) FROM conversations WHERE id = ?`, convoID).Scan(&created)
	values := map[string]any{
		"last_message_id":         lastMessageID,
		"last_activity_timestamp": lastActivity,
	}
	if earliestCreated != 0 && (created == 0 || earliestCreated < created) {
		values["creation_timestamp"] = earliestCreated
	}
	return e.Store.UpdateRow("conversations", convoID, values)
}

func (e *Engine) resolveConvoID(chat RemoteObject) (int64, error) {
	identity := chat.str("id")
	if identity == "" {
		identity = chat.str("identity")
	}
	convos, err := e.Store.GetConversations()
	if err != nil {
		return 0, err
	}
	for _, c := range convos {
		if c.Identity == identity {
			return c.ID, nil
		}
	}
	return 0, fmt.Errorf("livesync: could not resolve conversation id for chat %q", identity)
}
