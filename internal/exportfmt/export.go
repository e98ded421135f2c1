// Package exportfmt writes a conversation's messages out as a flat CSV file,
// the same terminal step the teacher's exportCSV performed over its own
// chat.db rows, rebuilt here over skypedata's Skype schema and msgparse's
// message-body renderer instead of the teacher's iMessage Conversation type.
package exportfmt

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"skyperious/internal/msgparse"
	"skyperious/internal/skypedata"
)

var nonAlphaNum = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// NameResolver maps a participant identity to the display name an export
// row should carry, e.g. a contact book lookup or the identity itself.
type NameResolver func(identity string) string

// Export writes every message of convo to a CSV file in dir and returns the
// path written. Bodies are rendered through msgparse's rewrite/render
// pipeline (the same one the merge engine uses to compare message text) so
// rich content -- files, calls, membership events -- reads as it would in
// the TUI's message view, not as raw body_xml.
func Export(store *skypedata.Store, convo skypedata.Conversation, resolve NameResolver, dir string) (string, error) {
	messages, err := store.GetMessages(convo.ID, 0, 0)
	if err != nil {
		return "", fmt.Errorf("exportfmt: fetch messages: %w", err)
	}
	files, err := store.GetSharedFilesByConversation(convo.ID)
	if err != nil {
		return "", fmt.Errorf("exportfmt: fetch shared files: %w", err)
	}
	filesByMsg := make(map[int64]skypedata.SharedFile, len(files))
	for _, f := range files {
		filesByMsg[f.MsgID] = f
	}

	var participantNames []string
	for _, p := range convo.Participants {
		participantNames = append(participantNames, resolve(p.Identity))
	}
	participantsStr := strings.Join(participantNames, "; ")

	path := buildExportFilename(dir, convo.DisplayName, participantNames)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("exportfmt: create %s: %w", path, err)
	}
	defer f.Close()

	f.WriteString("Timestamp,From,To,Body,MessageType,AttachmentFile,AttachmentSize\n")

	for _, msg := range messages {
		ts := msg.Time().Format("2006-01-02 15:04:05")

		from := resolve(msg.Author)
		to := participantsStr

		body := renderBody(msg)

		attachFile, attachSize := "", ""
		if shared, ok := filesByMsg[msg.ID]; ok {
			attachFile = csvEscape(shared.Filename)
			attachSize = shared.FormatSize()
		}

		line := fmt.Sprintf("%s,%s,%s,%s,%d,%s,%s\n",
			ts,
			csvEscape(from),
			csvEscape(to),
			csvEscape(body),
			msg.Type,
			attachFile,
			attachSize,
		)
		if _, err := f.WriteString(line); err != nil {
			return "", fmt.Errorf("exportfmt: write row: %w", err)
		}
	}

	return path, nil
}

// renderBody runs a message body through the same
// parse/rewrite/quote-normalize/render-text pipeline the merge engine's
// messageTextKey uses, with export-mode link resolution turned on.
func renderBody(msg skypedata.Message) string {
	root := msgparse.ParseBody(msg.BodyXML)
	root = msgparse.Rewrite(root, msg, msgparse.RewriteOptions{})
	msgparse.RewriteQuotes(root)
	return msgparse.RenderText(root, msgparse.RenderOptions{Export: true, Wrap: msgparse.Wrap79})
}

func buildExportFilename(dir, chatTitle string, participants []string) string {
	name := chatTitle
	if name == "" {
		name = strings.Join(participants, "_")
	}

	name = nonAlphaNum.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if len(name) > 50 {
		name = name[:50]
	}
	if name == "" {
		name = "conversation"
	}

	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s/%s_%s.csv", strings.TrimSuffix(dir, "/"), name, timestamp)
}

// csvEscape quotes a field and doubles internal quotes per RFC 4180 when it
// contains a comma, quote, or newline.
func csvEscape(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
	}
	return s
}
