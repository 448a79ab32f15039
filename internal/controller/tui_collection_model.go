package controller

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Collection item kinds.
const (
	kindTest    = "test"
	kindSkipped = "skip"
	kindError   = "error"
)

type tickMsg time.Time

var kindColors = map[string]lipgloss.Color{
	kindTest:    lipgloss.Color("2"),
	kindSkipped: lipgloss.Color("11"),
	kindError:   lipgloss.Color("1"),
}

// collectionDelegate renders one collected item per line.
type collectionDelegate struct {
	offset int
}

func (d collectionDelegate) Height() int  { return 1 }
func (d collectionDelegate) Spacing() int { return 0 }
func (d collectionDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d collectionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(collectionItem)
	if !ok {
		return
	}

	isSelected := index == m.Index()

	var labelStyle, kindStyle lipgloss.Style

	var displayLabel string

	width := m.Width() - 8 // kind column (6) + spacing (2)

	if isSelected {
		labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
		kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true).
			Width(6).
			Align(lipgloss.Left)

		displayLabel = animateScroll(entry.label, width, d.offset)
	} else {
		kindColor, ok := kindColors[entry.kind]
		if !ok {
			kindColor = lipgloss.Color("8")
		}

		labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		kindStyle = lipgloss.NewStyle().
			Foreground(kindColor).
			Bold(true).
			Width(6).
			Align(lipgloss.Left)

		displayLabel = truncateToWidth(entry.label, width)
	}

	line := fmt.Sprintf("%s  %s",
		kindStyle.Render(entry.kind),
		labelStyle.Render(displayLabel),
	)
	_, _ = fmt.Fprint(w, line)
}

func animateScroll(text string, width int, offset int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	gap := "   "

	// ticks to wait before scrolling starts
	pause := 5

	if offset < pause {
		return truncateToWidth(text, width)
	}

	runes := []rune(text + gap)
	n := len(runes)

	start := (offset - pause) % n

	res := make([]rune, 0, width)
	for i := range width {
		res = append(res, runes[(start+i)%n])
	}

	return string(res)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	maxWidth := width - lipgloss.Width(ellipsis)
	if maxWidth <= 0 {
		return ellipsis
	}

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// collectionModel browses collected test items and cells left out by
// muggling.
type collectionModel struct {
	width        int
	height       int
	itemList     list.Model
	delegate     collectionDelegate
	items        []collectionItem
	notebooks    int
	cells        int
	rendered     bool
	animOffset   int
	lastSelected int
}

func newCollectionModel() collectionModel {
	delegate := collectionDelegate{}
	itemList := list.New([]list.Item{}, delegate, 80, 20)
	itemList.SetShowPagination(false)
	itemList.SetShowFilter(true)
	itemList.SetShowHelp(false)
	itemList.SetShowTitle(false)
	itemList.SetShowStatusBar(false)
	itemList.FilterInput.Placeholder = "Filter by test or cell…"

	return collectionModel{
		itemList:     itemList,
		delegate:     delegate,
		lastSelected: -1,
	}
}

func (m collectionModel) Init() tea.Cmd {
	return tea.Tick(time.Second/2, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m collectionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.itemList.SetWidth(m.width)

	case tickMsg:
		if m.itemList.FilterState() != list.Filtering && m.rendered {
			m.animOffset++
			m.delegate.offset = m.animOffset
			m.itemList.SetDelegate(m.delegate)

			return m, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
				return tickMsg(t)
			})
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		default:
			m.itemList, cmd = m.itemList.Update(msg)

			if m.itemList.Index() != m.lastSelected {
				m.lastSelected = m.itemList.Index()
				m.animOffset = 0
				m.delegate.offset = 0
				m.itemList.SetDelegate(m.delegate)
			}

			return m, cmd
		}

	case collectionMsg:
		m = m.handleCollectionMsg(msg)
	}

	return m, cmd
}

func (m collectionModel) handleCollectionMsg(msg collectionMsg) collectionModel {
	m.notebooks = msg.notebooks
	m.cells = msg.cells
	m.items = msg.items

	items := make([]list.Item, 0, len(msg.items))
	for _, item := range msg.items {
		items = append(items, item)
	}

	m.itemList.SetItems(items)
	m.rendered = true

	if len(items) > 0 && m.lastSelected == -1 {
		m.lastSelected = 0
	}

	return m
}

func (m collectionModel) countKind(kind string) int {
	count := 0

	for _, item := range m.items {
		if item.kind == kind {
			count++
		}
	}

	return count
}

func (m collectionModel) View() string {
	if !m.rendered {
		return "Collecting notebooks…\n"
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	title := titleStyle.Render("ipynb2 Collection")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Notebooks: %s   Test cells: %s   Tests: %s   Skipped: %s   Errors: %s",
		accentStyle.Render(fmt.Sprintf("%d", m.notebooks)),
		accentStyle.Render(fmt.Sprintf("%d", m.cells)),
		accentStyle.Render(fmt.Sprintf("%d", m.countKind(kindTest))),
		accentStyle.Render(fmt.Sprintf("%d", m.countKind(kindSkipped))),
		accentStyle.Render(fmt.Sprintf("%d", m.countKind(kindError))),
	))

	table := m.renderTable()

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(m.width)

	footer := footerStyle.Render("↑/k up • ↓/j down • g/G top/bottom • / filter • q quit")

	parts := []string{title, summary, table}
	if detail := m.selectedDetail(); detail != "" {
		detailStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 2)
		parts = append(parts, detailStyle.Render(truncateToWidth(detail, max(m.width-4, 10))))
	}

	parts = append(parts, footer)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m collectionModel) selectedDetail() string {
	item, ok := m.itemList.SelectedItem().(collectionItem)
	if !ok {
		return ""
	}

	return item.detail
}

func (m collectionModel) renderTable() string {
	// title (2) + summary (2) + footer (1) + border (2) + header (2)
	listHeight := max(m.height-9, 5)

	// margin (2) + border (2) + padding (2)
	listWidth := m.width - 6

	m.itemList.SetHeight(listHeight)
	m.itemList.SetWidth(listWidth)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%-6s  %s", "Kind", "Item"))

	tableContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return tableContainer.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headers,
			m.itemList.View(),
		),
	)
}
