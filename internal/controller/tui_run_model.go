package controller

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// cellRun holds one finished test cell.
type cellRun struct {
	key    string
	label  string
	status string
	output string
}

func (r cellRun) FilterValue() string {
	return r.label + " " + r.status
}

var statusColors = map[string]lipgloss.Color{
	"passed":   lipgloss.Color("2"),
	"failed":   lipgloss.Color("1"),
	"errored":  lipgloss.Color("11"),
	"no tests": lipgloss.Color("13"),
}

type cellRunDelegate struct {
	offset int
}

func (d cellRunDelegate) Height() int  { return 1 }
func (d cellRunDelegate) Spacing() int { return 0 }
func (d cellRunDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d cellRunDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	run, ok := item.(cellRun)
	if !ok {
		return
	}

	labelWidth := m.Width() - 12 // status column (10) + spacing (2)

	var statusStyle, labelStyle lipgloss.Style

	var displayLabel string

	if index == m.Index() {
		selected := lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)
		statusStyle = selected.Width(10).Align(lipgloss.Left)
		labelStyle = selected
		displayLabel = animateScroll(run.label, labelWidth, d.offset)
	} else {
		statusColor, ok := statusColors[run.status]
		if !ok {
			statusColor = lipgloss.Color("8")
		}

		statusStyle = lipgloss.NewStyle().
			Foreground(statusColor).
			Bold(true).
			Width(10).
			Align(lipgloss.Left)
		labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		displayLabel = truncateToWidth(run.label, labelWidth)
	}

	_, _ = fmt.Fprintf(w, "%s  %s", statusStyle.Render(run.status), labelStyle.Render(displayLabel))
}

// runModel shows progress while test cells run and browses the results
// afterwards.
type runModel struct {
	width           int
	height          int
	progressBar     progress.Model
	total           int
	completed       int
	progressPercent float64
	workers         int
	shardIndex      int
	totalShards     int
	workerCells     map[int]string
	rendered        bool
	finished        bool
	results         []cellRun
	resultsList     list.Model
	delegate        cellRunDelegate
	animOffset      int
	lastSelected    int
	showOutput      bool
	selectedOutput  string
	selectedLabel   string
}

func newRunModel() runModel {
	prog := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	delegate := cellRunDelegate{}
	resultsList := list.New([]list.Item{}, delegate, 80, 20)
	resultsList.SetShowPagination(false)
	resultsList.SetShowFilter(true)
	resultsList.SetShowHelp(false)
	resultsList.SetShowTitle(false)
	resultsList.SetShowStatusBar(false)
	resultsList.FilterInput.Placeholder = "Filter results…"

	return runModel{
		progressBar:  prog,
		resultsList:  resultsList,
		delegate:     delegate,
		workerCells:  make(map[int]string),
		lastSelected: -1,
	}
}

func (m runModel) Init() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)

	case tea.KeyMsg:
		m, cmd = m.handleKeyMsg(msg)

	case tea.MouseMsg:
		m, cmd = m.handleMouseMsg(msg)

	case tickMsg:
		return m.handleTickMsg(msg)

	case startRunMsg:
		m = m.handleStartRun(msg)

	case completedRunMsg:
		m = m.handleCompletedRun(msg)

	case concurrencyMsg:
		m.workers = msg.workers
		m.shardIndex = msg.shardIndex
		m.totalShards = msg.shards
		m.progressPercent = 0
		m.rendered = true

	case upcomingMsg:
		m.total = msg.count
		m.completed = 0
		m.progressPercent = 0
		m.finished = msg.count == 0
		m.rendered = true
	}

	return m, cmd
}

func (m runModel) View() string {
	if !m.rendered {
		return "Preparing test cells…\n"
	}

	if m.finished {
		return m.viewResults()
	}

	return m.viewProgress()
}

func (m runModel) viewProgress() string {
	accentColor := lipgloss.Color("6")

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(accentColor)

	title := titleStyle.Render("ipynb2 Test Run")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Progress: %s / %s  •  Workers: %s  •  Shard: %s / %s",
		accentStyle.Render(fmt.Sprintf("%d", m.completed)),
		accentStyle.Render(fmt.Sprintf("%d", m.total)),
		accentStyle.Render(fmt.Sprintf("%d", m.workers)),
		accentStyle.Render(fmt.Sprintf("%d", m.shardIndex)),
		accentStyle.Render(fmt.Sprintf("%d", m.totalShards)),
	))

	progressView := lipgloss.NewStyle().
		Padding(0, 2).
		Render(m.progressBar.ViewAs(m.progressPercent))

	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(m.width).
		Render("Press q to quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		progressView,
		m.renderWorkerBox(accentColor),
		footer,
	)
}

func (m runModel) renderWorkerBox(accentColor lipgloss.Color) string {
	contentStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1).
		Margin(1, 1, 1, 0).
		Width(max(m.width-4, 10))

	cellStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	// border (2) + padding (2)
	availableWidth := m.width - 4 - 2 - 2
	prefixWidth := 0
	labelFormat := ""

	if m.workers > 1 {
		digits := len(fmt.Sprintf("%d", m.workers-1))
		prefixWidth = len("Worker ") + digits + 2
		labelFormat = fmt.Sprintf("Worker %%%dd: %%s", digits)
	}

	lines := make([]string, 0, m.workers)

	for i := range m.workers {
		content := "idle"
		if label := m.workerCells[i]; label != "" {
			content = cellStyle.Render(truncateToWidth(label, max(availableWidth-prefixWidth, 10)))
		}

		if m.workers > 1 {
			content = fmt.Sprintf(labelFormat, i, content)
		}

		lines = append(lines, content)
	}

	return contentStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m runModel) viewResults() string {
	accentColor := lipgloss.Color("6")

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(accentColor)

	title := titleStyle.Render("ipynb2 Test Results")

	summary := summaryStyle.Render(fmt.Sprintf(
		"Total: %s  •  Passed: %s  •  Failed: %s  •  Errored: %s",
		accentStyle.Render(fmt.Sprintf("%d", len(m.results))),
		accentStyle.Render(fmt.Sprintf("%d", m.countStatus("passed"))),
		accentStyle.Render(fmt.Sprintf("%d", m.countStatus("failed"))),
		accentStyle.Render(fmt.Sprintf("%d", m.countStatus("errored"))),
	))

	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(m.width).
		Render("↑/k up • ↓/j down • g/G top/bottom • / filter • enter/space/click output • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		m.renderResultsBox(accentColor),
		footer,
	)
}

func (m runModel) renderResultsBox(accentColor lipgloss.Color) string {
	listWidth := m.width - 4

	listHeight := max(m.height-9-m.outputBoxHeight(), 5)

	m.resultsList.SetHeight(listHeight)
	m.resultsList.SetWidth(listWidth)

	headers := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth).
		Render(fmt.Sprintf("%-10s  %s", "Status", "Cell"))

	resultsBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Margin(0, 1, 0, 0).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, headers, m.resultsList.View()))

	outputBox := m.renderOutputBox(accentColor, listWidth)
	if outputBox == "" {
		return resultsBox
	}

	return lipgloss.JoinVertical(lipgloss.Left, resultsBox, outputBox)
}

func (m runModel) countStatus(status string) int {
	count := 0

	for _, result := range m.results {
		if result.status == status {
			count++
		}
	}

	return count
}

func (m runModel) handleStartRun(msg startRunMsg) runModel {
	m.workerCells[msg.worker] = msg.label
	m.rendered = true

	return m
}

func (m runModel) handleCompletedRun(msg completedRunMsg) runModel {
	m.completed++

	for worker, label := range m.workerCells {
		if label == msg.label {
			delete(m.workerCells, worker)
		}
	}

	m.results = append(m.results, cellRun{key: msg.key, label: msg.label, status: msg.status, output: msg.output})

	items := make([]list.Item, 0, len(m.results))
	for _, r := range m.results {
		items = append(items, r)
	}

	m.resultsList.SetItems(items)

	if m.total > 0 {
		m.progressPercent = float64(m.completed) / float64(m.total)
		if m.completed >= m.total {
			m.finished = true
		}
	}

	return m
}

func (m runModel) handleKeyMsg(msg tea.KeyMsg) (runModel, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	if !m.finished {
		return m, nil
	}

	if msg.String() == "enter" || msg.String() == " " {
		m.toggleSelectedOutput()
		return m, nil
	}

	var cmd tea.Cmd

	m.resultsList, cmd = m.resultsList.Update(msg)
	m.syncSelection()

	return m, cmd
}

func (m runModel) handleMouseMsg(msg tea.MouseMsg) (runModel, tea.Cmd) {
	if !m.finished {
		return m, nil
	}

	var cmd tea.Cmd

	m.resultsList, cmd = m.resultsList.Update(msg)
	m.syncSelection()

	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease && m.resultsList.FilterState() != list.Filtering {
		m.toggleSelectedOutput()
	}

	return m, cmd
}

func (m *runModel) syncSelection() {
	if m.resultsList.Index() == m.lastSelected {
		return
	}

	m.lastSelected = m.resultsList.Index()
	m.animOffset = 0
	m.delegate.offset = 0
	m.resultsList.SetDelegate(m.delegate)
	m.showOutput = false
	m.selectedOutput = ""
	m.selectedLabel = ""
}

func (m *runModel) toggleSelectedOutput() {
	result, ok := m.resultsList.SelectedItem().(cellRun)
	if !ok {
		return
	}

	output := strings.TrimSpace(result.output)
	if output == "" || (m.showOutput && m.selectedOutput == output) {
		m.showOutput = false
		m.selectedOutput = ""
		m.selectedLabel = ""

		return
	}

	m.showOutput = true
	m.selectedOutput = output
	m.selectedLabel = result.label
}

func (m runModel) outputMaxLines() int {
	return min(max(m.height/3, 6), 20)
}

func (m runModel) outputBoxHeight() int {
	if !m.showOutput || m.selectedOutput == "" {
		return 0
	}

	lines := strings.Count(m.selectedOutput, "\n") + 1

	return min(lines, m.outputMaxLines()) + 3
}

// renderOutputBox shows the tail of the runner output, where pytest prints
// its failure summary.
func (m runModel) renderOutputBox(accentColor lipgloss.Color, width int) string {
	if !m.showOutput || m.selectedOutput == "" {
		return ""
	}

	lines := strings.Split(m.selectedOutput, "\n")
	maxLines := m.outputMaxLines()
	truncated := false

	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines+1:]
		truncated = true
	}

	contentWidth := max(width-4, 10)

	bodyLines := make([]string, 0, len(lines)+1)
	if truncated {
		bodyLines = append(bodyLines, "…")
	}

	for _, line := range lines {
		bodyLines = append(bodyLines, renderOutputLine(line, contentWidth))
	}

	headerText := "Output"
	if m.selectedLabel != "" {
		headerText = fmt.Sprintf("Output • %s", m.selectedLabel)
	}

	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Render(truncateToWidth(headerText, contentWidth))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Margin(0, 1, 0, 0).
		Padding(0, 1).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, lipgloss.JoinVertical(lipgloss.Left, bodyLines...)))
}

func renderOutputLine(line string, width int) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	switch {
	case strings.HasPrefix(line, "FAILED"), strings.HasPrefix(line, "E "):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	case strings.HasPrefix(line, "ERROR"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	case strings.HasPrefix(line, "PASSED"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	case strings.HasPrefix(line, "===="), strings.HasPrefix(line, "____"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	case strings.TrimSpace(line) == "":
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	}

	return style.Render(truncateToWidth(line, width))
}

func (m runModel) handleWindowSize(msg tea.WindowSizeMsg) runModel {
	m.width = msg.Width
	m.height = msg.Height
	m.progressBar.Width = max(m.width-8, 20)

	return m
}

func (m runModel) handleTickMsg(_ tickMsg) (runModel, tea.Cmd) {
	if m.finished && m.resultsList.FilterState() != list.Filtering {
		m.animOffset++
		m.delegate.offset = m.animOffset
		m.resultsList.SetDelegate(m.delegate)
	}

	return m, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
