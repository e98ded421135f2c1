package mergediff

import (
	"testing"
	"time"

	"skyperious/internal/skypedata"
)

func TestMatchTimeWithinSlack(t *testing.T) {
	base := time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC)
	other := base.Add(90 * time.Second)
	if !MatchTime(base, other, MatchSlack) {
		t.Error("expected a match within the slack window")
	}
}

func TestMatchTimeAcrossTimezoneOffset(t *testing.T) {
	base := time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC)
	shifted := base.Add(5*time.Hour + 30*time.Second)
	if !MatchTime(base, shifted, MatchSlack) {
		t.Error("expected a same-day hourly-offset match")
	}
}

func TestMatchTimeOutsideWindow(t *testing.T) {
	base := time.Date(2020, 5, 1, 10, 0, 0, 0, time.UTC)
	far := base.Add(26 * time.Hour)
	if MatchTime(base, far, MatchSlack) {
		t.Error("expected no match beyond the 24h window")
	}
}

func TestMatchTimeZeroValuesNeverMatch(t *testing.T) {
	if MatchTime(time.Time{}, time.Now(), MatchSlack) {
		t.Error("a zero datetime should never match")
	}
}

func TestDiffParticipantsFindsMissingAndContactless(t *testing.T) {
	left := []ParticipantInfo{
		{Participant: skypedata.Participant{Identity: "alice"}, ContactID: 1},
		{Participant: skypedata.Participant{Identity: "bob"}, ContactID: 2},
		{Participant: skypedata.Participant{Identity: "carol"}, ContactID: 0},
	}
	right := []ParticipantInfo{
		{Participant: skypedata.Participant{Identity: "alice"}, ContactID: 1},
		{Participant: skypedata.Participant{Identity: "bob"}, ContactID: 0},
	}
	diff := DiffParticipants(left, right)
	if len(diff) != 2 {
		t.Fatalf("expected 2 differing participants, got %d: %+v", len(diff), diff)
	}
	identities := map[string]bool{}
	for _, p := range diff {
		identities[p.Participant.Identity] = true
	}
	if !identities["bob"] || !identities["carol"] {
		t.Errorf("expected bob (contactless on right) and carol (missing on right), got %v", identities)
	}
}

func TestGetChatDiffLeftSkipsMatchingMessages(t *testing.T) {
	ts := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC).Unix()
	messages1 := []skypedata.Message{
		{ID: 1, Author: "alice", Timestamp: ts, Type: skypedata.TypeMessage, BodyXML: "hello there"},
	}
	messages2 := []skypedata.Message{
		{ID: 101, Author: "alice", Timestamp: ts + 30, Type: skypedata.TypeMessage, BodyXML: "hello there"},
	}
	diff := GetChatDiffLeft(messages1, messages2, nil, nil, nil, nil, nil, nil, map[string]bool{}, nil)
	if len(diff.MessageIDs) != 0 {
		t.Errorf("expected matching messages to produce no delta, got %v", diff.MessageIDs)
	}
}

func TestGetChatDiffLeftFindsNewMessages(t *testing.T) {
	ts := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC).Unix()
	messages1 := []skypedata.Message{
		{ID: 1, Author: "alice", Timestamp: ts, Type: skypedata.TypeMessage, BodyXML: "hello there"},
		{ID: 2, Author: "alice", Timestamp: ts + 3600, Type: skypedata.TypeMessage, BodyXML: "only on the left"},
	}
	messages2 := []skypedata.Message{
		{ID: 101, Author: "alice", Timestamp: ts + 30, Type: skypedata.TypeMessage, BodyXML: "hello there"},
	}
	diff := GetChatDiffLeft(messages1, messages2, nil, nil, nil, nil, nil, nil, map[string]bool{}, nil)
	if len(diff.MessageIDs) != 1 || diff.MessageIDs[0] != 2 {
		t.Fatalf("expected only message 2 in the delta, got %v", diff.MessageIDs)
	}
}

func TestGetChatDiffLeftEmptyRightTakesEverything(t *testing.T) {
	ts := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC).Unix()
	messages1 := []skypedata.Message{
		{ID: 2, Author: "alice", Timestamp: ts + 10, Type: skypedata.TypeMessage, BodyXML: "second"},
		{ID: 1, Author: "alice", Timestamp: ts, Type: skypedata.TypeMessage, BodyXML: "first"},
	}
	diff := GetChatDiffLeft(messages1, nil, nil, nil, nil, nil, nil, nil, map[string]bool{}, nil)
	if len(diff.MessageIDs) != 2 || diff.MessageIDs[0] != 1 || diff.MessageIDs[1] != 2 {
		t.Fatalf("expected both messages timestamp-ascending, got %v", diff.MessageIDs)
	}
}

func newTestStore(t *testing.T) *skypedata.Store {
	t.Helper()
	store, err := skypedata.Open(":memory:")
	if err != nil {
		t.Fatalf("skypedata.Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestApplyInsertsNewChatMessagesAndParticipants(t *testing.T) {
	dst := newTestStore(t)

	chat1 := skypedata.Conversation{Identity: "19:group1", Type: skypedata.ChatsTypeGroup, DisplayName: "Group One"}
	diff := ChatDiff{
		MessageIDs: []int64{1, 2},
		Participants: []ParticipantInfo{
			{Participant: skypedata.Participant{Identity: "alice"}},
			{Participant: skypedata.Participant{Identity: "bob"}},
		},
	}
	messagesByID := map[int64]skypedata.Message{
		1: {ID: 1, Author: "alice", Timestamp: 1000, Type: skypedata.TypeMessage, BodyXML: "hi"},
		2: {ID: 2, Author: "bob", Timestamp: 1001, Type: skypedata.TypeMessage, BodyXML: "hello"},
	}

	counts, err := Apply(dst, chat1, nil, diff, messagesByID, nil, ApplyOptions{})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !counts.NewChat {
		t.Error("expected a newly created chat")
	}
	if counts.Messages != 2 || counts.Participants != 2 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	convos, err := dst.GetConversations()
	if err != nil || len(convos) != 1 {
		t.Fatalf("expected 1 conversation in dst, got %d, err %v", len(convos), err)
	}
	msgs, err := dst.GetMessages(convos[0].ID, 0, 0)
	if err != nil || len(msgs) != 2 {
		t.Fatalf("expected 2 messages in dst, got %d, err %v", len(msgs), err)
	}
}

func TestApplyRemapsAuthorIdentity(t *testing.T) {
	dst := newTestStore(t)
	chat1 := skypedata.Conversation{Identity: "8:alice", Type: skypedata.ChatsTypeSingle, DisplayName: "Alice"}
	diff := ChatDiff{MessageIDs: []int64{1}}
	messagesByID := map[int64]skypedata.Message{
		1: {ID: 1, Author: "left-account", Timestamp: 500, Type: skypedata.TypeMessage, BodyXML: "hi"},
	}
	remap := map[string]string{"left-account": "right-account"}

	if _, err := Apply(dst, chat1, nil, diff, messagesByID, remap, ApplyOptions{}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	convos, _ := dst.GetConversations()
	msgs, err := dst.GetMessages(convos[0].ID, 0, 0)
	if err != nil || len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d, err %v", len(msgs), err)
	}
	if msgs[0].Author != "right-account" {
		t.Errorf("Author = %q, want remapped %q", msgs[0].Author, "right-account")
	}
}

func TestApplyProgressCallbackCanAbort(t *testing.T) {
	dst := newTestStore(t)
	chat1 := skypedata.Conversation{Identity: "19:group2", Type: skypedata.ChatsTypeGroup}
	ids := make([]int64, 0, ProgressPostbackInterval+5)
	messagesByID := map[int64]skypedata.Message{}
	for i := int64(1); i <= ProgressPostbackInterval+5; i++ {
		ids = append(ids, i)
		messagesByID[i] = skypedata.Message{ID: i, Author: "alice", Timestamp: i, Type: skypedata.TypeMessage, BodyXML: "m"}
	}
	diff := ChatDiff{MessageIDs: ids}

	calls := 0
	_, err := Apply(dst, chat1, nil, diff, messagesByID, nil, ApplyOptions{
		Progress: func(index, total int) bool {
			calls++
			return false
		},
	})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected exactly one progress call before abort, got %d", calls)
	}
}
