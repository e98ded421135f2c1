package exportfmt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skyperious/internal/skypedata"
)

func newTestStore(t *testing.T) *skypedata.Store {
	t.Helper()
	s, err := skypedata.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func identityResolver(identity string) string { return identity }

func TestExportWritesHeaderAndRows(t *testing.T) {
	store := newTestStore(t)
	convoID, err := store.InsertConversation(skypedata.Conversation{Identity: "bob", Type: skypedata.ChatsTypeSingle, DisplayName: "Bob Chat"})
	if err != nil {
		t.Fatalf("InsertConversation failed: %v", err)
	}
	if err := store.InsertParticipants(convoID, []string{"bob", "alice"}); err != nil {
		t.Fatalf("InsertParticipants failed: %v", err)
	}
	if _, err := store.InsertMessage(skypedata.Message{
		ConvoID: convoID, Author: "bob", Timestamp: 1000,
		Type: skypedata.TypeMessage, ChatmsgType: skypedata.ChatmsgTypeMessage,
		BodyXML: "hello, \"world\"",
	}); err != nil {
		t.Fatalf("InsertMessage failed: %v", err)
	}

	convos, err := store.GetConversations()
	if err != nil {
		t.Fatalf("GetConversations failed: %v", err)
	}

	dir := t.TempDir()
	path, err := Export(store, convos[0], identityResolver, dir)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("path = %q, want it inside %q", path, dir)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "Timestamp,From,To,Body,MessageType,AttachmentFile,AttachmentSize\n") {
		t.Errorf("missing expected header, got %q", content)
	}
	if !strings.Contains(content, `"hello, ""world"""`) {
		t.Errorf("expected escaped body in output, got %q", content)
	}
}

func TestBuildExportFilenameSanitizesAndFallsBack(t *testing.T) {
	name := buildExportFilename("/tmp", "Team!! Chat??", nil)
	if !strings.Contains(name, "Team_Chat") {
		t.Errorf("buildExportFilename sanitized name unexpectedly: %q", name)
	}

	fallback := buildExportFilename("/tmp", "", nil)
	if !strings.Contains(fallback, "/conversation_") {
		t.Errorf("expected fallback name for empty title, got %q", fallback)
	}
}

func TestCsvEscapePassesPlainFieldsThrough(t *testing.T) {
	if got := csvEscape("plain"); got != "plain" {
		t.Errorf("csvEscape(plain) = %q, want unchanged", got)
	}
	if got := csvEscape("a,b"); got != `"a,b"` {
		t.Errorf("csvEscape(a,b) = %q, want quoted", got)
	}
}
