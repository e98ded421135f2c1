package skypedata

import "testing"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEnsureSchemaCreatesAllTables(t *testing.T) {
	s := newTestStore(t)
	tables := s.GetTables()
	want := []string{"accounts", "chats", "contacts", "conversations", "messages", "participants"}
	have := map[string]bool{}
	for _, tb := range tables {
		have[tb] = true
	}
	for _, tb := range want {
		if !have[tb] {
			t.Errorf("expected table %q to exist after EnsureSchema, got %v", tb, tables)
		}
	}
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.EnsureSchema(); err != nil {
		t.Fatalf("second EnsureSchema call failed: %v", err)
	}
}

func TestInsertAndGetConversations(t *testing.T) {
	s := newTestStore(t)
	id, err := s.InsertConversation(Conversation{Identity: "8:alice", Type: ChatsTypeSingle, DisplayName: "Alice"})
	if err != nil {
		t.Fatalf("InsertConversation failed: %v", err)
	}
	if err := s.InsertParticipants(id, []string{"8:alice", "8:bob"}); err != nil {
		t.Fatalf("InsertParticipants failed: %v", err)
	}

	convos, err := s.GetConversations()
	if err != nil {
		t.Fatalf("GetConversations failed: %v", err)
	}
	if len(convos) != 1 {
		t.Fatalf("len(convos) = %d, want 1", len(convos))
	}
	if convos[0].ID != id {
		t.Errorf("ID = %d, want %d", convos[0].ID, id)
	}
	if len(convos[0].Participants) != 2 {
		t.Errorf("len(Participants) = %d, want 2", len(convos[0].Participants))
	}
}

func TestInsertAndGetMessages(t *testing.T) {
	s := newTestStore(t)
	convoID, _ := s.InsertConversation(Conversation{Identity: "8:alice"})
	for i, ts := range []int64{100, 200, 300} {
		if _, err := s.InsertMessage(Message{ConvoID: convoID, Author: "8:alice", Timestamp: ts, Type: TypeMessage, ChatmsgType: ChatmsgTypeMessage, BodyXML: "hello"}); err != nil {
			t.Fatalf("InsertMessage #%d failed: %v", i, err)
		}
	}

	msgs, err := s.GetMessages(convoID, 0, 0)
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("len(msgs) = %d, want 3", len(msgs))
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Timestamp < msgs[i-1].Timestamp {
			t.Errorf("messages not in chronological order: %v", msgs)
		}
	}
}

func TestCascadeDeleteConversation(t *testing.T) {
	s := newTestStore(t)
	convoID, _ := s.InsertConversation(Conversation{Identity: "19:group1", Type: ChatsTypeGroup})
	msgID, err := s.InsertMessage(Message{ConvoID: convoID, Author: "8:alice", Timestamp: 1})
	if err != nil {
		t.Fatalf("InsertMessage failed: %v", err)
	}
	if err := s.InsertParticipants(convoID, []string{"8:alice"}); err != nil {
		t.Fatalf("InsertParticipants failed: %v", err)
	}

	deleted, err := s.DeleteData("conversations", convoID)
	if err != nil {
		t.Fatalf("DeleteData failed: %v", err)
	}
	if deleted < 3 { // conversation + message + participant
		t.Errorf("deleted = %d, want >= 3", deleted)
	}

	msgs, err := s.GetMessages(convoID, 0, 0)
	if err != nil {
		t.Fatalf("GetMessages after delete failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("messages survived cascade delete: %v", msgs)
	}
	_ = msgID
}

func TestClearCacheRows(t *testing.T) {
	s := newTestStore(t)
	id, _ := s.InsertConversation(Conversation{Identity: "8:alice"})
	if _, err := s.GetConversations(); err != nil {
		t.Fatalf("GetConversations failed: %v", err)
	}
	if _, ok := s.cache.get("conversations", id); !ok {
		t.Fatal("expected conversation to be cached after GetConversations")
	}
	s.ClearCacheRows("conversations", id)
	if _, ok := s.cache.get("conversations", id); ok {
		t.Fatal("expected cache entry to be cleared")
	}
}

func TestLinksResolvesAltIdentity(t *testing.T) {
	legacy := Conversation{ID: 1, Identity: "8:alice"}
	modern := Conversation{ID: 2, Identity: "19:newthread", AltIdentity: "8:alice"}
	links := Links([]Conversation{legacy, modern})
	link, ok := links["8:alice"]
	if !ok {
		t.Fatal("expected a link for legacy identity 8:alice")
	}
	if link.Identity != "19:newthread" {
		t.Errorf("link.Identity = %q, want 19:newthread", link.Identity)
	}
}

func TestCheckIntegrityOnFreshDB(t *testing.T) {
	s := newTestStore(t)
	problems, err := s.CheckIntegrity()
	if err != nil {
		t.Fatalf("CheckIntegrity failed: %v", err)
	}
	if len(problems) != 0 {
		t.Errorf("fresh database reported integrity problems: %v", problems)
	}
}

func TestGetAccountReportsAbsenceOnFreshDB(t *testing.T) {
	s := newTestStore(t)
	_, ok, err := s.GetAccount()
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if ok {
		t.Fatal("expected no account row on a fresh database")
	}
}

func TestSearchMessagesMatchesSubstringAcrossConversations(t *testing.T) {
	s := newTestStore(t)
	convoID, _ := s.InsertConversation(Conversation{Identity: "8:alice"})
	otherID, _ := s.InsertConversation(Conversation{Identity: "19:group1", Type: ChatsTypeGroup})
	if _, err := s.InsertMessage(Message{ConvoID: convoID, Author: "8:alice", Timestamp: 100, BodyXML: "let's grab coffee"}); err != nil {
		t.Fatalf("InsertMessage failed: %v", err)
	}
	if _, err := s.InsertMessage(Message{ConvoID: otherID, Author: "8:bob", Timestamp: 200, BodyXML: "meeting at noon"}); err != nil {
		t.Fatalf("InsertMessage failed: %v", err)
	}

	results, err := s.SearchMessages("coffee", 0, 0)
	if err != nil {
		t.Fatalf("SearchMessages failed: %v", err)
	}
	if len(results) != 1 || results[0].ConvoID != convoID {
		t.Fatalf("SearchMessages(coffee) = %+v, want the single coffee message", results)
	}

	scoped, err := s.SearchMessages("meeting", otherID, 0)
	if err != nil {
		t.Fatalf("SearchMessages with convoID filter failed: %v", err)
	}
	if len(scoped) != 1 {
		t.Fatalf("scoped SearchMessages = %+v, want 1 match", scoped)
	}

	none, err := s.SearchMessages("meeting", convoID, 0)
	if err != nil {
		t.Fatalf("SearchMessages with mismatched convoID failed: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no matches scoped to the wrong conversation, got %+v", none)
	}
}
