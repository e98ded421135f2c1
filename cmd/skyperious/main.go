// Command skyperious is a terminal browser for a Skype chat-history
// database: a conversation list, a rendered message view, full-text search,
// and shared-file attachments, plus non-interactive -import and -merge
// flags for loading an export or folding a second database in without
// opening the TUI at all.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"skyperious/internal/applog"
	"skyperious/internal/importer"
	"skyperious/internal/mergediff"
	"skyperious/internal/skypedata"
)

func main() {
	dbPath := flag.String("db", "main.db", "path to the Skype-schema SQLite database to open")
	importPath := flag.String("import", "", "import a Skype/Teams JSON export (optionally tar-wrapped) into -db, then exit")
	selfIdentity := flag.String("self", "", "account identity to attribute imported/merged messages to")
	mergePath := flag.String("merge", "", "merge a second Skype-schema database's conversations into -db, then exit")
	shareDir := flag.String("share-dir", "", "directory to copy merged shared-file bytes into (merge only)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	applog.Init(os.Stderr)
	applog.SetLevel(*logLevel)

	store, err := skypedata.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "skyperious: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case *importPath != "":
		if err := runImport(store, *importPath, *selfIdentity); err != nil {
			fmt.Fprintf(os.Stderr, "skyperious: import: %v\n", err)
			os.Exit(1)
		}
		return
	case *mergePath != "":
		if err := runMerge(store, *mergePath, *selfIdentity, *shareDir); err != nil {
			fmt.Fprintf(os.Stderr, "skyperious: merge: %v\n", err)
			os.Exit(1)
		}
		return
	}

	m, err := newModel(store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "skyperious: %v\n", err)
		os.Exit(1)
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "skyperious: %v\n", err)
		os.Exit(1)
	}
}

func runImport(store *skypedata.Store, path, self string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	counts, err := importer.Import(f, store, importer.ImportOptions{
		SelfIdentity: self,
		Progress: func(chats, messages int) bool {
			fmt.Fprintf(os.Stderr, "\rimporting... %d chats, %d messages", chats, messages)
			return true
		},
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d chats, %d messages\n", counts.Chats, counts.Messages)
	return nil
}

// runMerge compares every conversation in the database at srcPath against
// the one already open and applies the left-to-right delta chat by chat:
// a chat matched by identity receives what it lacks, and a chat with no
// match is diffed against an empty destination and applied as a whole.
func runMerge(dst *skypedata.Store, srcPath, self, shareDir string) error {
	src, err := skypedata.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	srcConvos, err := src.GetConversations()
	if err != nil {
		return fmt.Errorf("read source conversations: %w", err)
	}
	dstConvos, err := dst.GetConversations()
	if err != nil {
		return fmt.Errorf("read destination conversations: %w", err)
	}
	dstByIdentity := make(map[string]skypedata.Conversation, len(dstConvos))
	for _, c := range dstConvos {
		dstByIdentity[c.Identity] = c
	}

	accountIdentities := map[string]bool{}
	if self != "" {
		accountIdentities[self] = true
	}

	var totalMessages, totalChats int
	for _, chat1 := range srcConvos {
		messages1, err := src.GetMessages(chat1.ID, 0, 0)
		if err != nil {
			return fmt.Errorf("read messages for %s: %w", chat1.Identity, err)
		}
		messagesByID := make(map[int64]skypedata.Message, len(messages1))
		for _, m := range messages1 {
			messagesByID[m.ID] = m
		}
		sharedFiles1, err := sharedFilesByMsgID(src, chat1.ID)
		if err != nil {
			return err
		}

		var chat2 *skypedata.Conversation
		var messages2 []skypedata.Message
		var sharedFiles2 map[int64]skypedata.SharedFile
		if match, ok := dstByIdentity[chat1.Identity]; ok {
			c := match
			chat2 = &c
			if messages2, err = dst.GetMessages(c.ID, 0, 0); err != nil {
				return fmt.Errorf("read messages for %s: %w", c.Identity, err)
			}
			if sharedFiles2, err = sharedFilesByMsgID(dst, c.ID); err != nil {
				return err
			}
		}

		diff := mergediff.GetChatDiffLeft(
			messages1, messages2,
			map[int64][]skypedata.Transfer{}, map[int64][]skypedata.Transfer{},
			toParticipantInfo(chat1.Participants), toParticipantInfo(participantsOf(chat2)),
			sharedFiles1, sharedFiles2,
			accountIdentities, nil,
		)
		if len(diff.MessageIDs) == 0 && len(diff.Participants) == 0 && len(diff.SharedFiles) == 0 {
			continue
		}

		counts, err := mergediff.Apply(dst, chat1, chat2, diff, messagesByID, nil, mergediff.ApplyOptions{DestShareDir: shareDir})
		if err != nil {
			return fmt.Errorf("apply %s: %w", chat1.Identity, err)
		}
		totalChats++
		totalMessages += counts.Messages
		fmt.Printf("%s: +%d messages, +%d participants, +%d files\n", chat1.Identity, counts.Messages, counts.Participants, counts.SharedFiles)
	}

	fmt.Printf("merged %d chats, %d messages total\n", totalChats, totalMessages)
	return nil
}

func participantsOf(c *skypedata.Conversation) []skypedata.Participant {
	if c == nil {
		return nil
	}
	return c.Participants
}

func toParticipantInfo(participants []skypedata.Participant) []mergediff.ParticipantInfo {
	out := make([]mergediff.ParticipantInfo, len(participants))
	for i, p := range participants {
		out[i] = mergediff.ParticipantInfo{Participant: p}
	}
	return out
}

func sharedFilesByMsgID(store *skypedata.Store, convoID int64) (map[int64]skypedata.SharedFile, error) {
	files, err := store.GetSharedFilesByConversation(convoID)
	if err != nil {
		return nil, fmt.Errorf("read shared files: %w", err)
	}
	out := make(map[int64]skypedata.SharedFile, len(files))
	for _, f := range files {
		out[f.MsgID] = f
	}
	return out, nil
}
