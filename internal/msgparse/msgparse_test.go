package msgparse

import (
	"strings"
	"testing"

	"skyperious/internal/skypedata"
)

func TestParseBodySimpleText(t *testing.T) {
	root := ParseBody("hello world")
	if got := root.AllText(); got != "hello world" {
		t.Fatalf("AllText() = %q, want %q", got, "hello world")
	}
}

func TestParseBodyWithElement(t *testing.T) {
	root := ParseBody(`<b>bold</b> plain`)
	if len(root.Children) != 1 || root.Children[0].Tag != "b" {
		t.Fatalf("expected a single <b> child, got %+v", root.Children)
	}
	if root.Children[0].Text != "bold" {
		t.Errorf("bold text = %q, want %q", root.Children[0].Text, "bold")
	}
}

func TestParseBodyFallsBackOnBareAmpersand(t *testing.T) {
	root := ParseBody("Tom & Jerry")
	if got := root.AllText(); !strings.Contains(got, "Tom") || !strings.Contains(got, "Jerry") {
		t.Fatalf("AllText() = %q, want both Tom and Jerry preserved", got)
	}
}

func TestExpandEmoticonsSmile(t *testing.T) {
	out := ExpandEmoticons("hi :) there")
	if !strings.Contains(out, `<ss type="smile">`) {
		t.Fatalf("ExpandEmoticons(%q) = %q, want a smile tag", "hi :) there", out)
	}
}

func TestExpandEmoticonsSkipsMarkup(t *testing.T) {
	in := `<b>:)</b>`
	if got := ExpandEmoticons(in); got != in {
		t.Fatalf("ExpandEmoticons should not touch bodies containing markup, got %q", got)
	}
}

func TestRewriteQuoteDropsLegacyAndClearsAttrs(t *testing.T) {
	root := ParseBody(`<quote authorname="alice" timestamp="100"><legacyquote>[100] alice: </legacyquote>hi there</quote>`)
	RewriteQuotes(root)
	quote := findChild(root, "quote")
	if quote == nil {
		t.Fatal("expected a quote node")
	}
	if len(quote.Attrs) != 0 {
		t.Errorf("expected quote attrs cleared, got %v", quote.Attrs)
	}
	if findChild(quote, "legacyquote") != nil {
		t.Error("expected legacyquote child to be dropped")
	}
	if findChild(quote, "quotefrom") == nil {
		t.Error("expected a synthesized quotefrom child")
	}
}

func TestRewriteLeaveMessage(t *testing.T) {
	root := ParseBody("")
	msg := skypedata.Message{Type: skypedata.TypeLeave, Author: "8:alice"}
	result := Rewrite(root, msg, RewriteOptions{})
	text := result.AllText()
	if !strings.Contains(text, "8:alice has left the conversation.") {
		t.Fatalf("leave message render = %q", text)
	}
}

func TestRewriteRemovedMessage(t *testing.T) {
	root := ParseBody("")
	msg := skypedata.Message{Type: skypedata.TypeMessage, EditedTimestamp: 12345}
	result := Rewrite(root, msg, RewriteOptions{})
	if !strings.Contains(result.AllText(), skypedata.MessageRemovedText) {
		t.Fatalf("expected removed-message status, got %q", result.AllText())
	}
}

func TestRenderHTMLEscapesText(t *testing.T) {
	root := ParseBody("Tom & Jerry")
	html := RenderHTML(root, RenderOptions{})
	if !strings.Contains(html, "&amp;") {
		t.Fatalf("RenderHTML should escape ampersands, got %q", html)
	}
}

func TestRenderTextBoldMarkers(t *testing.T) {
	root := ParseBody(`<b>shout</b>`)
	text := RenderText(root, RenderOptions{})
	if !strings.Contains(text, "*shout*") {
		t.Fatalf("RenderText(%q) = %q, want *shout* markers", root.AllText(), text)
	}
}

func TestWrap79NoHyphenBreak(t *testing.T) {
	long := strings.Repeat("a", 100)
	wrapped := Wrap79(long)
	if wrapped != long {
		t.Fatalf("Wrap79 should not hyphen-break a single long word, got %q", wrapped)
	}
}

func TestProcessMessageEditStripsPrefix(t *testing.T) {
	body := `<e_m ts="100" ts_ms="100000" a="8:alice" t="edit"/>Edited previous message: new text`
	cleaned, info := ProcessMessageEdit(body)
	if !info.Present {
		t.Fatal("expected edit info to be present")
	}
	if info.Author != "8:alice" {
		t.Errorf("Author = %q, want 8:alice", info.Author)
	}
	if cleaned != "new text" {
		t.Errorf("cleaned = %q, want %q", cleaned, "new text")
	}
}

func TestWordFrequencyFiltersStopwords(t *testing.T) {
	freq := WordFrequency([]string{"the", "cat", "sat", "on", "the", "mat"})
	if _, ok := freq["the"]; ok {
		t.Error("expected stopword 'the' to be filtered out")
	}
	if freq["cat"] != 1 {
		t.Errorf("freq[cat] = %d, want 1", freq["cat"])
	}
}

func TestBuildTimelineGroupsByDayHourForShortSpan(t *testing.T) {
	msgs := []skypedata.Message{
		{ID: 1, Timestamp: 1000},
		{ID: 2, Timestamp: 1000 + 3600},
	}
	buckets := BuildTimeline(msgs)
	if len(buckets) == 0 {
		t.Fatal("expected at least one timeline bucket")
	}
}

func TestStatsCollectCountsMessages(t *testing.T) {
	stats := NewStats(true)
	msg := skypedata.Message{ID: 1, Author: "8:alice", Type: skypedata.TypeMessage, Timestamp: 1000, BodyXML: "hi"}
	root := ParseBody(msg.BodyXML)
	stats.Collect(msg, root)
	if stats.MessagesByAuthor["8:alice"] != 1 {
		t.Errorf("MessagesByAuthor[8:alice] = %d, want 1", stats.MessagesByAuthor["8:alice"])
	}
}
