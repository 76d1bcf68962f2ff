package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/Lixing-Zhang/orderboard/internal/models"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultColumnWidth = 24

type keyMap struct {
	Items key.Binding
	Quit  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Items, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Items: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "toggle items")),
	Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	columnStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	tokenStyle  = lipgloss.NewStyle().Bold(true)
	itemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	columnColors = map[models.Status]lipgloss.Color{
		models.StatusPending:   lipgloss.Color("214"),
		models.StatusPreparing: lipgloss.Color("39"),
		models.StatusReady:     lipgloss.Color("42"),
		models.StatusDelivered: lipgloss.Color("244"),
	}
)

type updateMsg Update

// Display is the terminal board screen. It renders whatever the poller sends
// and never talks to the API itself.
type Display struct {
	updates   <-chan Update
	boards    []Board
	err       error
	at        time.Time
	width     int
	showItems bool
	help      help.Model
}

// NewDisplay creates a display fed by updates
func NewDisplay(updates <-chan Update) Display {
	return Display{
		updates:   updates,
		showItems: true,
		help:      help.New(),
	}
}

func waitForUpdate(updates <-chan Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return tea.Quit()
		}
		return updateMsg(u)
	}
}

func (d Display) Init() tea.Cmd {
	return waitForUpdate(d.updates)
}

func (d Display) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return d, tea.Quit
		case key.Matches(msg, keys.Items):
			d.showItems = !d.showItems
		}
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.help.Width = msg.Width
	case updateMsg:
		d.boards = msg.Boards
		d.err = msg.Err
		d.at = msg.At
		return d, waitForUpdate(d.updates)
	}
	return d, nil
}

func (d Display) View() string {
	var b strings.Builder

	if len(d.boards) == 0 && d.err == nil {
		b.WriteString(mutedStyle.Render("waiting for the first refresh..."))
		b.WriteString("\n")
	}
	for _, board := range d.boards {
		b.WriteString(d.renderBoard(board))
		b.WriteString("\n")
	}

	switch {
	case d.err != nil:
		b.WriteString(errorStyle.Render("refresh failed: " + d.err.Error()))
		if !d.at.IsZero() && len(d.boards) > 0 {
			b.WriteString(mutedStyle.Render(" (showing last good data)"))
		}
	case !d.at.IsZero():
		b.WriteString(mutedStyle.Render("updated " + d.at.Format("15:04:05")))
	}
	b.WriteString("\n")
	b.WriteString(d.help.View(keys))
	return b.String()
}

func (d Display) renderBoard(board Board) string {
	width := defaultColumnWidth
	if d.width > 0 {
		width = max(d.width/len(DisplayStatuses)-4, 12)
	}

	cols := make([]string, 0, len(DisplayStatuses))
	for _, status := range DisplayStatuses {
		cols = append(cols, d.renderColumn(status, board.Column(status), width))
	}

	title := titleStyle.Render(fmt.Sprintf("%s board", board.Queue))
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
}

func (d Display) renderColumn(status models.Status, orders []models.Order, width int) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(columnColors[status]).
		Render(fmt.Sprintf("%s (%d)", columnTitle(status), len(orders)))

	lines := []string{header}
	for _, o := range orders {
		lines = append(lines, tokenStyle.Render(o.Token))
		if !d.showItems {
			continue
		}
		for _, item := range o.Items {
			lines = append(lines, itemStyle.Render(fmt.Sprintf("  %dx %s", item.Quantity, item.Name)))
		}
	}

	return columnStyle.Width(width).BorderForeground(columnColors[status]).Render(strings.Join(lines, "\n"))
}

func columnTitle(s models.Status) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Render draws boards once, without key help, for non-interactive output
func Render(boards []Board, width int) string {
	d := Display{width: width, showItems: true}
	parts := make([]string, 0, len(boards))
	for _, b := range boards {
		parts = append(parts, d.renderBoard(b))
	}
	return strings.Join(parts, "\n")
}
