package main

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"skyperious/internal/exportfmt"
	"skyperious/internal/msgparse"
	"skyperious/internal/skypedata"
)

type viewState int

const (
	viewConversations viewState = iota
	viewMessages
	viewSearch
	viewAttachments
)

// nameBook resolves an identity to the display name the TUI should show,
// preferring a contact's name over the bare identity and collapsing the
// local account to "Me".
type nameBook struct {
	byIdentity map[string]string
	self       string
}

func loadNameBook(store *skypedata.Store) (*nameBook, error) {
	contacts, err := store.GetContacts()
	if err != nil {
		return nil, fmt.Errorf("load contacts: %w", err)
	}
	nb := &nameBook{byIdentity: make(map[string]string, len(contacts))}
	for _, c := range contacts {
		name := c.Displayname
		if name == "" {
			name = c.Fullname
		}
		if name == "" {
			name = c.Skypename
		}
		if name != "" {
			nb.byIdentity[c.Skypename] = name
		}
	}
	if account, ok, err := store.GetAccount(); err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	} else if ok {
		nb.self = account.Skypename
	}
	return nb, nil
}

func (nb *nameBook) resolve(identity string) string {
	if identity == "" {
		return "Unknown"
	}
	if nb.self != "" && identity == nb.self {
		return "Me"
	}
	if name, ok := nb.byIdentity[identity]; ok {
		return name
	}
	return identity
}

func (nb *nameBook) isSelf(identity string) bool {
	return identity != "" && identity == nb.self
}

// statusMessageTypes are message types rendered as a centered system line
// instead of a normal sender/body row -- membership and call events.
var statusMessageTypes = map[int]bool{
	skypedata.TypeTopic:        true,
	skypedata.TypeLeave:        true,
	skypedata.TypeRemove:       true,
	skypedata.TypeParticipants: true,
	skypedata.TypeGroupCreate:  true,
	skypedata.TypeCall:         true,
	skypedata.TypeCallEnd:      true,
	skypedata.TypeBlock:        true,
	skypedata.TypeUpdateDone:   true,
	skypedata.TypeUpdateNeed:   true,
}

// renderMessageText runs a message body through the parse/rewrite/render
// pipeline mergediff's messageTextKey uses for comparison, so what the TUI
// shows and what the merge engine matches on are the same text.
func renderMessageText(msg skypedata.Message) string {
	if msg.IsRemoved() {
		return skypedata.MessageRemovedText
	}
	root := msgparse.ParseBody(msg.BodyXML)
	root = msgparse.Rewrite(root, msg, msgparse.RewriteOptions{})
	msgparse.RewriteQuotes(root)
	return msgparse.RenderText(root, msgparse.RenderOptions{Wrap: msgparse.Wrap79})
}

type model struct {
	store *skypedata.Store
	names *nameBook
	state viewState
	width int
	height int
	err error

	convList  list.Model
	convItems []skypedata.Conversation

	viewport        viewport.Model
	messages        []skypedata.Message
	activeConvo     skypedata.Conversation
	loadingMessages bool

	searchInput   textinput.Model
	searchResults list.Model
	searching     bool
	searchTerm    string

	exporting    bool
	exportStatus string

	attachmentList list.Model
}

type conversationsLoadedMsg struct {
	conversations []skypedata.Conversation
	err           error
}

type messagesLoadedMsg struct {
	messages []skypedata.Message
	convoID  int64
	err      error
}

type searchResultsMsg struct {
	results []skypedata.Message
	term    string
	err     error
}

type exportDoneMsg struct {
	path string
	err  error
}

type attachmentsLoadedMsg struct {
	files []skypedata.SharedFile
	err   error
}

type attachmentOpenedMsg struct {
	err error
}

// convItem adapts skypedata.Conversation for bubbles/list.
type convItem struct {
	conv  skypedata.Conversation
	names *nameBook
}

func (c convItem) Title() string {
	if c.conv.DisplayName != "" {
		return c.conv.DisplayName
	}
	var names []string
	for _, p := range c.conv.Participants {
		names = append(names, c.names.resolve(p.Identity))
	}
	if len(names) > 0 {
		return strings.Join(names, ", ")
	}
	return c.conv.Identity
}

func (c convItem) Description() string {
	last := "no messages"
	if t := c.conv.LastActivityTime(); !t.IsZero() {
		last = formatRelativeDate(t)
	}
	kind := "1:1"
	if c.conv.Type == skypedata.ChatsTypeGroup {
		kind = fmt.Sprintf("group, %d members", len(c.conv.Participants))
	}
	return fmt.Sprintf("%-10s |  %d msgs  |  %s", last, c.conv.MessageCount, kind)
}

func (c convItem) FilterValue() string { return c.Title() }

// searchItem adapts a matched skypedata.Message for bubbles/list.
type searchItem struct {
	msg      skypedata.Message
	convName string
	names    *nameBook
}

func (s searchItem) Title() string {
	sender := s.names.resolve(s.msg.Author)
	text := renderMessageText(s.msg)
	if text == "" {
		text = "[no text]"
	}
	if len(text) > 80 {
		text = text[:80] + "..."
	}
	return fmt.Sprintf("%s: %s", sender, text)
}

func (s searchItem) Description() string {
	return fmt.Sprintf("in %s  |  %s", s.convName, formatRelativeDate(s.msg.Time()))
}

func (s searchItem) FilterValue() string { return s.msg.BodyXML }

// attachmentItem adapts skypedata.SharedFile for bubbles/list.
type attachmentItem struct {
	file  skypedata.SharedFile
	names *nameBook
}

func (a attachmentItem) Title() string {
	parts := []string{a.file.Category}
	if a.file.Filename != "" {
		parts = append(parts, a.file.Filename)
	}
	if a.file.Filesize > 0 {
		parts = append(parts, a.file.FormatSize())
	}
	return strings.Join(parts, " — ")
}

func (a attachmentItem) Description() string {
	return fmt.Sprintf("from %s", a.names.resolve(a.file.Author))
}

func (a attachmentItem) FilterValue() string { return a.file.Filename + " " + a.file.Category }

func formatRelativeDate(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return t.Format("Mon 03:04 PM")
	case t.Year() == now.Year():
		return t.Format("Jan 02")
	default:
		return t.Format("Jan 02, 2006")
	}
}

func formatMessageTime(t time.Time) string {
	now := time.Now()
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	ampm := "AM"
	if t.Hour() >= 12 {
		ampm = "PM"
	}
	timeStr := fmt.Sprintf("%02d:%02d %s", hour, t.Minute(), ampm)
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return timeStr
	}
	if t.Year() == now.Year() {
		return fmt.Sprintf("%s, %s", t.Format("Jan 02"), timeStr)
	}
	return fmt.Sprintf("%s, %s", t.Format("Jan 02, 2006"), timeStr)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-1] + "~"
}

func newModel(store *skypedata.Store) (model, error) {
	names, err := loadNameBook(store)
	if err != nil {
		return model{}, err
	}

	delegate := list.NewDefaultDelegate()
	convList := list.New(nil, delegate, 0, 0)
	convList.Title = "Skype Conversations"
	convList.SetShowStatusBar(true)
	convList.SetFilteringEnabled(true)
	convList.Styles.Title = titleStyle

	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true

	ti := textinput.New()
	ti.Placeholder = "Search all messages..."
	ti.CharLimit = 256
	ti.Width = 40

	searchDelegate := list.NewDefaultDelegate()
	searchList := list.New(nil, searchDelegate, 0, 0)
	searchList.Title = "Search Results"
	searchList.SetShowStatusBar(true)
	searchList.SetFilteringEnabled(false)
	searchList.Styles.Title = titleStyle

	attachDelegate := list.NewDefaultDelegate()
	attachList := list.New(nil, attachDelegate, 0, 0)
	attachList.Title = "Shared Files"
	attachList.SetShowStatusBar(true)
	attachList.SetFilteringEnabled(true)
	attachList.Styles.Title = titleStyle

	return model{
		store:          store,
		names:          names,
		state:          viewConversations,
		convList:       convList,
		viewport:       vp,
		searchInput:    ti,
		searchResults:  searchList,
		attachmentList: attachList,
	}, nil
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		convs, err := m.store.GetConversations()
		return conversationsLoadedMsg{conversations: convs, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.convList.SetSize(msg.Width-4, msg.Height-4)
		m.searchResults.SetSize(msg.Width-4, msg.Height-7)
		m.attachmentList.SetSize(msg.Width-4, msg.Height-4)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = calcViewportHeight(m.height)
		if m.state == viewMessages && len(m.messages) > 0 {
			m.viewport.SetContent(m.renderMessages())
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}

		switch m.state {
		case viewConversations:
			return m.updateConversationList(msg)
		case viewMessages:
			return m.updateMessageView(msg)
		case viewSearch:
			return m.updateSearchView(msg)
		case viewAttachments:
			return m.updateAttachmentView(msg)
		}

	case conversationsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.convItems = msg.conversations
		items := make([]list.Item, len(msg.conversations))
		for i, c := range msg.conversations {
			items[i] = convItem{conv: c, names: m.names}
		}
		cmd := m.convList.SetItems(items)
		return m, cmd

	case messagesLoadedMsg:
		m.loadingMessages = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if msg.convoID != m.activeConvo.ID {
			return m, nil
		}
		m.messages = msg.messages
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
		return m, nil

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			m.exportStatus = fmt.Sprintf("Export failed: %v", msg.err)
		} else {
			m.exportStatus = fmt.Sprintf("Exported to %s", msg.path)
		}
		return m, nil

	case attachmentsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		items := make([]list.Item, len(msg.files))
		for i, f := range msg.files {
			items[i] = attachmentItem{file: f, names: m.names}
		}
		cmd := m.attachmentList.SetItems(items)
		m.attachmentList.Title = fmt.Sprintf("Shared Files — %d", len(msg.files))
		return m, cmd

	case attachmentOpenedMsg:
		if msg.err != nil {
			m.exportStatus = fmt.Sprintf("Failed to open: %v", msg.err)
		}
		return m, nil

	case searchResultsMsg:
		m.searching = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.searchTerm = msg.term
		items := make([]list.Item, len(msg.results))
		for i, r := range msg.results {
			items[i] = searchItem{msg: r, convName: m.convoDisplayName(r.ConvoID), names: m.names}
		}
		cmd := m.searchResults.SetItems(items)
		m.searchResults.Title = fmt.Sprintf("Search Results — %d matches for %q", len(msg.results), msg.term)
		return m, cmd
	}

	switch m.state {
	case viewConversations:
		var cmd tea.Cmd
		m.convList, cmd = m.convList.Update(msg)
		return m, cmd
	case viewMessages:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case viewSearch:
		if m.searchInput.Focused() {
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.searchResults, cmd = m.searchResults.Update(msg)
		return m, cmd
	case viewAttachments:
		var cmd tea.Cmd
		m.attachmentList, cmd = m.attachmentList.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) convoDisplayName(id int64) string {
	for _, c := range m.convItems {
		if c.ID == id {
			return (convItem{conv: c, names: m.names}).Title()
		}
	}
	return fmt.Sprintf("chat #%d", id)
}

func (m model) updateConversationList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		selected, ok := m.convList.SelectedItem().(convItem)
		if !ok {
			return m, nil
		}
		m.state = viewMessages
		m.activeConvo = selected.conv
		m.messages = nil
		m.loadingMessages = true
		m.exportStatus = ""
		m.viewport.Height = calcViewportHeight(m.height)
		return m, m.fetchMessagesCmd(selected.conv.ID)

	case "s":
		if m.convList.FilterState() == list.Unfiltered {
			m.state = viewSearch
			m.searchInput.Focus()
			m.searchInput.SetValue("")
			return m, textinput.Blink
		}

	case "q":
		if m.convList.FilterState() == list.Unfiltered {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.convList, cmd = m.convList.Update(msg)
	return m, cmd
}

func (m model) updateMessageView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.state = viewConversations
		m.messages = nil
		m.exportStatus = ""
		return m, nil
	case "t":
		m.viewport.GotoTop()
		return m, nil
	case "b":
		m.viewport.GotoBottom()
		return m, nil
	case "e":
		if !m.exporting {
			m.exporting = true
			m.exportStatus = "Exporting..."
			return m, m.exportCmd()
		}
		return m, nil
	case "a":
		m.state = viewAttachments
		m.attachmentList.Title = "Loading shared files..."
		return m, m.fetchAttachmentsCmd(m.activeConvo.ID)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) updateSearchView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchInput.Focused() {
		switch msg.String() {
		case "enter":
			query := strings.TrimSpace(m.searchInput.Value())
			if query == "" {
				return m, nil
			}
			m.searchInput.Blur()
			m.searching = true
			m.searchResults.Title = "Searching..."
			return m, m.searchCmd(query)
		case "esc":
			m.state = viewConversations
			m.searchInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		m.state = viewConversations
		return m, nil
	case "s":
		m.searchInput.Focus()
		m.searchInput.SetValue("")
		return m, textinput.Blink
	case "enter":
		selected, ok := m.searchResults.SelectedItem().(searchItem)
		if !ok {
			return m, nil
		}
		for _, conv := range m.convItems {
			if conv.ID == selected.msg.ConvoID {
				m.activeConvo = conv
				break
			}
		}
		m.state = viewMessages
		m.messages = nil
		m.loadingMessages = true
		m.exportStatus = ""
		m.viewport.Height = calcViewportHeight(m.height)
		return m, m.fetchMessagesCmd(selected.msg.ConvoID)
	}

	var cmd tea.Cmd
	m.searchResults, cmd = m.searchResults.Update(msg)
	return m, cmd
}

func (m model) updateAttachmentView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		if m.attachmentList.FilterState() == list.Filtering {
			m.attachmentList.ResetFilter()
			return m, nil
		}
		m.state = viewMessages
		return m, nil
	case "enter":
		if m.attachmentList.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.attachmentList, cmd = m.attachmentList.Update(msg)
			return m, cmd
		}
		selected, ok := m.attachmentList.SelectedItem().(attachmentItem)
		if !ok {
			return m, nil
		}
		return m, m.openAttachmentCmd(selected.file.Filepath)
	}

	var cmd tea.Cmd
	m.attachmentList, cmd = m.attachmentList.Update(msg)
	return m, cmd
}

func (m model) fetchMessagesCmd(convoID int64) tea.Cmd {
	return func() tea.Msg {
		msgs, err := m.store.GetMessages(convoID, 0, 0)
		return messagesLoadedMsg{messages: msgs, convoID: convoID, err: err}
	}
}

func (m model) fetchAttachmentsCmd(convoID int64) tea.Cmd {
	return func() tea.Msg {
		files, err := m.store.GetSharedFilesByConversation(convoID)
		return attachmentsLoadedMsg{files: files, err: err}
	}
}

func (m model) openAttachmentCmd(path string) tea.Cmd {
	return func() tea.Msg {
		cmd := exec.Command("open", path)
		err := cmd.Start()
		return attachmentOpenedMsg{err: err}
	}
}

func (m model) exportCmd() tea.Cmd {
	convo := m.activeConvo
	resolve := m.names.resolve
	store := m.store
	return func() tea.Msg {
		path, err := exportfmt.Export(store, convo, resolve, ".")
		return exportDoneMsg{path: path, err: err}
	}
}

func (m model) searchCmd(term string) tea.Cmd {
	return func() tea.Msg {
		results, err := m.store.SearchMessages(term, 0, 200)
		return searchResultsMsg{results: results, term: term, err: err}
	}
}

func calcViewportHeight(totalHeight int) int {
	const headerLines = 3
	const footerLines = 1
	h := totalHeight - headerLines - footerLines - 4
	if h < 1 {
		h = 1
	}
	return h
}

func (m model) buildMessageHeader() string {
	var lines []string
	title := m.activeConvo.DisplayName
	if title == "" {
		title = (convItem{conv: m.activeConvo, names: m.names}).Title()
	}
	lines = append(lines, fmt.Sprintf(" %s", title))

	var members []string
	for _, p := range m.activeConvo.Participants {
		members = append(members, m.names.resolve(p.Identity))
	}
	if len(members) > 0 {
		lines = append(lines, fmt.Sprintf(" %s", strings.Join(members, ", ")))
	}

	lines = append(lines, fmt.Sprintf(" %d messages", len(m.messages)))
	return strings.Join(lines, "\n")
}

func (m model) renderMessages() string {
	var sb strings.Builder
	var lastDate string

	if m.loadingMessages {
		sb.WriteString(dateSepStyle.Width(m.viewport.Width).Render("Loading..."))
		sb.WriteString("\n\n")
	}

	for _, msg := range m.messages {
		t := msg.Time()
		dateStr := t.Format("Monday, January 2, 2006")
		if dateStr != lastDate {
			lastDate = dateStr
			sb.WriteString("\n")
			sb.WriteString(dateSepStyle.Width(m.viewport.Width).Render(fmt.Sprintf("— %s —", dateStr)))
			sb.WriteString("\n\n")
		}

		if statusMessageTypes[msg.Type] {
			line := statusMsgStyle.Width(m.viewport.Width).Render(renderMessageText(msg))
			sb.WriteString(line)
			sb.WriteString("\n")
			continue
		}

		ts := timestampStyle.Render(formatMessageTime(t))

		sender := m.names.resolve(msg.Author)
		var styledSender string
		if m.names.isSelf(msg.Author) {
			styledSender = senderStyle.Copy().Inherit(fromMeStyle).Render(truncate(sender, senderWidth))
		} else {
			styledSender = senderStyle.Copy().Inherit(fromThemStyle).Render(truncate(sender, senderWidth))
		}

		text := renderMessageText(msg)
		if msg.IsRemoved() {
			text = removedMsgStyle.Render(text)
		} else if msg.IsEdited() {
			text = text + attachmentStyle.Render(" (edited)")
		}

		sb.WriteString(fmt.Sprintf("%s  %s  %s\n", ts, styledSender, text))
	}

	return sb.String()
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  Press any key to exit.\n", m.err)
	}

	switch m.state {
	case viewConversations:
		help := helpStyle.Render("  enter: open  |  s: search all messages  |  q: quit")
		return appStyle.Render(m.convList.View() + "\n" + help)

	case viewMessages:
		headerText := m.buildMessageHeader()
		header := headerStyle.Width(m.viewport.Width).Render(headerText)
		footerText := fmt.Sprintf(" %.0f%%  |  esc: back  |  e: export CSV  |  a: shared files  |  t/b: top/bottom",
			m.viewport.ScrollPercent()*100)
		if m.exportStatus != "" {
			footerText += "  |  " + m.exportStatus
		}
		footer := statusBarStyle.Render(footerText)
		return appStyle.Render(
			lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer),
		)

	case viewAttachments:
		help := helpStyle.Render("  enter: open  |  /: filter  |  esc: back")
		return appStyle.Render(m.attachmentList.View() + "\n" + help)

	case viewSearch:
		var sections []string

		inputLabel := searchInputStyle.Render(" Search ")
		inputRow := lipgloss.JoinHorizontal(lipgloss.Center, inputLabel, " ", m.searchInput.View())
		sections = append(sections, inputRow)

		if m.searching {
			sections = append(sections, "\n"+searchCountStyle.Render("  Searching..."))
		}

		sections = append(sections, m.searchResults.View())

		help := helpStyle.Render("  enter: open conversation  |  s: new search  |  esc: back")
		sections = append(sections, help)

		return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	}

	return ""
}
