package importer

import (
	"archive/tar"
	"bytes"
	"encoding/json"
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

func TestParseArrivalTimeVariousFractionDigits(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"2020-07-06T17:20:30Z", 1594056030000},
		{"2020-07-06T17:20:30.6Z", 1594056030600},
		{"2020-07-06T17:20:30.609Z", 1594056030609},
		{"2020-07-06T17:20:30.6091234Z", 1594056030609},
	}
	for _, c := range cases {
		got, err := parseArrivalTime(c.in)
		if err != nil {
			t.Fatalf("parseArrivalTime(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("parseArrivalTime(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseArrivalTimeRejectsGarbage(t *testing.T) {
	if _, err := parseArrivalTime("not-a-timestamp"); err == nil {
		t.Fatal("expected an error for an unrecognized timestamp")
	}
}

func TestWalkTokensEmitsDottedPaths(t *testing.T) {
	doc := `{"userId":"8:alice","conversations":[{"id":"19:g1","MessageList":[{"from":"8:alice"},{"from":"8:bob"}]}]}`
	dec := json.NewDecoder(strings.NewReader(doc))

	var paths []string
	err := walkTokens(dec, "", func(e event) error {
		if e.kind == "value" {
			paths = append(paths, e.path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walkTokens failed: %v", err)
	}
	want := []string{
		"userId",
		"conversations.item.id",
		"conversations.item.MessageList.item.from",
		"conversations.item.MessageList.item.from",
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestFinalizeMessageTopicUpdate(t *testing.T) {
	m := &msgState{
		msgType:   "ThreadActivity/TopicUpdate",
		bodyXML:   `<topicupdate><eventtime>123</eventtime><initiator>8:alice</initiator><value>New topic</value></topicupdate>`,
		author:    "",
		timestamp: 100,
	}
	if !finalizeMessage(m, skypedata.ChatsTypeGroup) {
		t.Fatal("expected TopicUpdate message to survive finalize")
	}
	if m.chatmsgType != skypedata.ChatmsgTypeTopic || m.typ != skypedata.TypeTopic {
		t.Errorf("chatmsgType/typ = %d/%d, want Topic/Topic", m.chatmsgType, m.typ)
	}
	if m.author != "8:alice" {
		t.Errorf("author = %q, want 8:alice (from initiator)", m.author)
	}
	if m.bodyXML != "New topic" {
		t.Errorf("bodyXML = %q, want %q", m.bodyXML, "New topic")
	}
}

func TestFinalizeMessageDeleteMemberSelfIsLeave(t *testing.T) {
	m := &msgState{
		msgType:   "ThreadActivity/DeleteMember",
		bodyXML:   `<deletemember><initiator>8:alice</initiator><target>8:alice</target></deletemember>`,
		timestamp: 100,
	}
	if !finalizeMessage(m, skypedata.ChatsTypeGroup) {
		t.Fatal("expected DeleteMember message to survive finalize")
	}
	if m.chatmsgType != skypedata.ChatmsgTypeLeave || m.typ != skypedata.TypeLeave {
		t.Errorf("chatmsgType/typ = %d/%d, want Leave/Leave", m.chatmsgType, m.typ)
	}
}

func TestFinalizeMessageDeleteMemberOtherIsRemove(t *testing.T) {
	m := &msgState{
		msgType:   "ThreadActivity/DeleteMember",
		bodyXML:   `<deletemember><initiator>8:alice</initiator><target>8:bob</target></deletemember>`,
		timestamp: 100,
	}
	if !finalizeMessage(m, skypedata.ChatsTypeGroup) {
		t.Fatal("expected DeleteMember message to survive finalize")
	}
	if m.chatmsgType != skypedata.ChatmsgTypeRemove || m.typ != skypedata.TypeRemove {
		t.Errorf("chatmsgType/typ = %d/%d, want Remove/Remove", m.chatmsgType, m.typ)
	}
	if m.identities != "8:bob" {
		t.Errorf("identities = %q, want 8:bob", m.identities)
	}
}

func TestFinalizeMessageGenericFileRewritesBody(t *testing.T) {
	m := &msgState{
		msgType:   "RichText/Media_GenericFile",
		bodyXML:   `<URIObject><originalname v="report.pdf"></originalname><filesize v="2048"></filesize></URIObject>`,
		author:    "8:alice",
		timestamp: 100,
	}
	if !finalizeMessage(m, skypedata.ChatsTypeSingle) {
		t.Fatal("expected generic file message to survive finalize")
	}
	if m.typ != skypedata.TypeFile {
		t.Errorf("typ = %d, want TypeFile", m.typ)
	}
	if !strings.Contains(m.bodyXML, "report.pdf") || !strings.Contains(m.bodyXML, `size="2048"`) {
		t.Errorf("bodyXML = %q, want rewritten <files> element", m.bodyXML)
	}
}

func TestFinalizeMessageMediaVideoKeepsDefaultChatmsgType(t *testing.T) {
	m := &msgState{
		msgType:   "RichText/Media_Video",
		author:    "8:alice",
		timestamp: 100,
	}
	if !finalizeMessage(m, skypedata.ChatsTypeSingle) {
		t.Fatal("expected media video message to survive finalize")
	}
	if m.chatmsgType != skypedata.ChatmsgTypeMessage {
		t.Errorf("chatmsgType = %d, want default ChatmsgTypeMessage", m.chatmsgType)
	}
	if m.typ != skypedata.TypeShareVideo2 {
		t.Errorf("typ = %d, want TypeShareVideo2", m.typ)
	}
}

func TestFinalizeMessageUnknownTypeIsDropped(t *testing.T) {
	m := &msgState{msgType: "Notice", author: "8:alice", timestamp: 100}
	if finalizeMessage(m, skypedata.ChatsTypeSingle) {
		t.Fatal("expected unrecognized messagetype to be dropped")
	}
}

func TestFinalizeMessageDropsEmptyGeneratedBody(t *testing.T) {
	m := &msgState{msgType: "Text", author: "8:alice", timestamp: 100, generated: true}
	if finalizeMessage(m, skypedata.ChatsTypeSingle) {
		t.Fatal("expected generated message with empty body and no edit to be dropped")
	}
}

func TestFinalizeMessageDropsMissingAuthorOrTimestamp(t *testing.T) {
	if finalizeMessage(&msgState{msgType: "Text", timestamp: 100}, skypedata.ChatsTypeSingle) {
		t.Fatal("expected message without author to be dropped")
	}
	if finalizeMessage(&msgState{msgType: "Text", author: "8:alice"}, skypedata.ChatsTypeSingle) {
		t.Fatal("expected message without timestamp to be dropped")
	}
}

func TestApplyMessageEditStripsTagAndAdjustsTimestamp(t *testing.T) {
	m := &msgState{
		author:      "8:alice",
		timestamp:   200,
		timestampMs: 200000,
		bodyXML:     `<e_m ts="100" ts_ms="100000" a="8:alice"/>Edited previous message: hello again`,
	}
	applyMessageEdit(m)
	if m.bodyXML != "hello again" {
		t.Errorf("bodyXML = %q, want %q", m.bodyXML, "hello again")
	}
	if m.editedTimestamp != 200 {
		t.Errorf("editedTimestamp = %d, want 200 (arrival time)", m.editedTimestamp)
	}
	if m.timestamp != 100 || m.timestampMs != 100000 {
		t.Errorf("timestamp/timestampMs = %d/%d, want 100/100000", m.timestamp, m.timestampMs)
	}
}

func sampleExportJSON() string {
	return `{
		"userId": "8:alice",
		"conversations": [
			{
				"id": "8:bob",
				"threadProperties": {},
				"MessageList": [
					{
						"id": "1001",
						"from": "8:bob",
						"displayName": "Bob",
						"content": "hi there",
						"originalarrivaltime": "2020-07-06T17:20:30.000Z",
						"messagetype": "Text",
						"properties": {}
					},
					{
						"id": "1002",
						"from": "8:alice",
						"displayName": "Alice",
						"content": "hello back",
						"originalarrivaltime": "2020-07-06T17:21:00.000Z",
						"messagetype": "Text",
						"properties": {}
					}
				]
			},
			{
				"id": "48:skypeteams",
				"threadProperties": {},
				"MessageList": [
					{
						"id": "2001",
						"from": "48:skypeteams",
						"content": "system notice",
						"originalarrivaltime": "2020-07-06T17:22:00.000Z",
						"messagetype": "Text",
						"properties": {}
					}
				]
			}
		]
	}`
}

func TestImportPlainJSONRoundTrip(t *testing.T) {
	store := newTestStore(t)
	counts, err := Import(strings.NewReader(sampleExportJSON()), store, ImportOptions{SelfIdentity: "8:alice"})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if counts.Chats != 1 {
		t.Errorf("Chats = %d, want 1 (the 48: special conversation should be skipped)", counts.Chats)
	}
	if counts.Messages != 2 {
		t.Errorf("Messages = %d, want 2", counts.Messages)
	}

	convos, err := store.GetConversations()
	if err != nil {
		t.Fatalf("GetConversations failed: %v", err)
	}
	if len(convos) != 1 {
		t.Fatalf("len(convos) = %d, want 1", len(convos))
	}
	if convos[0].Identity != "bob" {
		t.Errorf("Identity = %q, want bob (8: prefix stripped)", convos[0].Identity)
	}

	msgs, err := store.GetMessages(convos[0].ID, 0, 0)
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d, want 2", len(msgs))
	}
	if msgs[0].BodyXML != "hi there" || msgs[1].BodyXML != "hello back" {
		t.Errorf("unexpected message bodies: %+v", msgs)
	}
}

func TestImportTarWrappedExport(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	content := []byte(sampleExportJSON())
	if err := tw.WriteHeader(&tar.Header{Name: "messages.json", Size: int64(len(content)), Mode: 0o644}); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatalf("tar Write failed: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar Close failed: %v", err)
	}

	store := newTestStore(t)
	counts, err := Import(bytes.NewReader(buf.Bytes()), store, ImportOptions{SelfIdentity: "8:alice"})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if counts.Messages != 2 {
		t.Errorf("Messages = %d, want 2", counts.Messages)
	}
}

func TestImportProgressCallbackCanAbort(t *testing.T) {
	store := newTestStore(t)
	calls := 0
	_, err := Import(strings.NewReader(sampleExportJSON()), store, ImportOptions{
		SelfIdentity: "8:alice",
		Progress: func(chats, messages int) bool {
			calls++
			return false
		},
	})
	if err != nil {
		t.Fatalf("Import with aborting progress should not itself error: %v", err)
	}
	if calls != 1 {
		t.Errorf("progress calls = %d, want 1 (abort on first chat completion)", calls)
	}
}
