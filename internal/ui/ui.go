package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tagsync/internal/models"
	"github.com/desertthunder/tagsync/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	HistoryListView ViewState = iota
	DetailView
)

// historyPageSize caps how many runs one refresh pulls from the store.
const historyPageSize = 50

// HistoryStore provides the sync runs the browser displays.
type HistoryStore interface {
	ListRecent(limit int) ([]*models.SyncRecord, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	view        ViewState
	store       HistoryStore
	width       int
	height      int
	historyList list.Model
	records     []*models.SyncRecord
	selected    *models.SyncRecord
	notice      string
	err         error
	help        help.Model
	keys        keyMap
}

// NewModel creates a new TUI model backed by the given history store.
func NewModel(ctx context.Context, store HistoryStore) *Model {
	return &Model{
		ctx:   ctx,
		view:  HistoryListView,
		store: store,
		help:  help.New(),
		keys:  newKeyMap(),
	}
}

// Init initializes the TUI by loading recent sync runs.
func (m *Model) Init() tea.Cmd {
	return m.loadHistory()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.historyList.Width() == 0 {
			m.historyList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case HistoryListView:
			return m.handleHistoryKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case historyLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.records = msg.records
		items := make([]list.Item, len(msg.records))
		for i, record := range msg.records {
			items[i] = syncItem{record: record}
		}
		m.historyList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.historyList.Title = "Sync History"
		m.historyList.SetSize(m.width-4, m.height-8)
		return m, nil

	case browserOpenedMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("Could not open browser: %v", msg.err)
		} else {
			m.notice = "Opened watch page in browser"
		}
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}

	switch m.view {
	case HistoryListView:
		return m.renderHistoryList()
	case DetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		return m, m.loadHistory()
	case "enter":
		selected := m.historyList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(syncItem); ok {
				m.selected = item.record
				m.notice = ""
				m.view = DetailView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = HistoryListView
		m.selected = nil
		m.notice = ""
		return m, nil
	case "o":
		if m.selected != nil && m.selected.VideoID() != "" {
			return m, m.openWatchPage(m.selected.VideoID())
		}
		m.notice = "No video to open for this run"
		return m, nil
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == HistoryListView {
		m.historyList, cmd = m.historyList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadHistory() tea.Cmd {
	return func() tea.Msg {
		records, err := m.store.ListRecent(historyPageSize)
		return historyLoadedMsg{records: records, err: err}
	}
}

func (m *Model) openWatchPage(videoID string) tea.Cmd {
	url := models.VideoReference{VideoID: videoID}.WatchURL()
	return func() tea.Msg {
		return browserOpenedMsg{err: shared.OpenBrowser(url)}
	}
}

func (m *Model) renderHistoryList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.historyList.View(), helpView)
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return styles.err.Render("No run selected\n\nPress esc to go back")
	}

	record := m.selected

	var title string
	if record.Outcome().Succeeded() {
		title = styles.ok.Render(fmt.Sprintf("✓ %s", record.Status()))
	} else {
		title = styles.err.Render(fmt.Sprintf("✗ %s", record.Status()))
	}

	info := fmt.Sprintf("\nRecord: %s\n", record.RecordID())
	if record.Title() != "" {
		info += fmt.Sprintf("Title: %s\n", record.Title())
	}
	if record.VideoID() != "" {
		watch := models.VideoReference{VideoID: record.VideoID()}
		info += fmt.Sprintf("Video: %s\nWatch: %s\n", record.VideoID(), watch.WatchURL())
	}
	info += fmt.Sprintf("Tags: %d\n", record.TagsCount())
	info += fmt.Sprintf("Message: %s\n", record.Message())
	if record.ErrorDetail() != "" && record.ErrorDetail() != record.Message() {
		info += fmt.Sprintf("Detail: %s\n", record.ErrorDetail())
	}
	info += fmt.Sprintf("Synced: %s (run #%d)\n", record.CreatedAt().Format("2006-01-02 15:04:05"), record.Sequence())

	var notice string
	if m.notice != "" {
		notice = "\n" + styles.warn.Render(m.notice) + "\n"
	}

	helpKeys := []key.Binding{m.keys.open, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n%s", title, info, notice, helpView)
}
