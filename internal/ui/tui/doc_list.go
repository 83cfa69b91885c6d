package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/bpod/frontend-context-guidelines/internal/match"
	"github.com/bpod/frontend-context-guidelines/internal/model"
)

// DocAction represents the action to perform on a selected document.
type DocAction int

const (
	// DocActionNone means no action was taken (user quit).
	DocActionNone DocAction = iota
	// DocActionView means the user wants the document body printed.
	DocActionView
	// DocActionCopy means the user wants the document path printed.
	DocActionCopy
)

// DocListResult contains the result of the browser interaction.
type DocListResult struct {
	Action   DocAction
	Document model.Document
}

type docListKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Detail   key.Binding
	Open     key.Binding
	Copy     key.Binding
	Probe    key.Binding
	Filter   key.Binding
	ClearFlt key.Binding
	Help     key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func defaultDocListKeyMap() docListKeyMap {
	return docListKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter", "v"),
			key.WithHelp("enter/v", "details"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy path"),
		),
		Probe: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "probe path"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		ClearFlt: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b/esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// DocListModel is the BubbleTea model for browsing instruction documents.
type DocListModel struct {
	table        table.Model
	docs         []model.Document
	filtered     []model.Document
	keys         docListKeyMap
	result       DocListResult
	filter       string
	filtering    bool
	showHelp     bool
	width        int
	height       int
	columnWidths docListColumnWidths
	phase        docListPhase
	detailDoc    model.Document
	viewport     viewport.Model
	ready        bool
	probePath    string
	quitting     bool
}

var docListStyles = struct {
	Title       lipgloss.Style
	Help        lipgloss.Style
	Filter      lipgloss.Style
	FilterInput lipgloss.Style
	Status      lipgloss.Style
	DetailBox   lipgloss.Style
	DetailTitle lipgloss.Style
	ProbeHit    lipgloss.Style
	ProbeMiss   lipgloss.Style
}{
	Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1),
	Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Filter:      lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	FilterInput: lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
	Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
	DetailBox:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	DetailTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
	ProbeHit:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	ProbeMiss:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
}

type docListPhase int

const (
	docListPhaseList docListPhase = iota
	docListPhaseDetail
	docListPhaseProbe
)

const (
	docListIDWidth       = 30
	docListPatternsWidth = 28
	docListDescWidth     = 40
	docListColumnPadding = 2
	docListColumnCount   = 3
	docListDetailLines   = 3
	docListDetailGap     = 1
	docListDetailHeight  = docListDetailLines + 1 + 2 // title + content + border
)

type docListColumnWidths struct {
	id       int
	patterns int
	desc     int
}

// NewDocListModel creates a new document browser model.
func NewDocListModel(docs []model.Document) DocListModel {
	columns, columnWidths := docListColumns(0, docs)

	// Sort a copy by id (case-insensitive) for a stable browse order; the
	// caller's slice is part of an immutable snapshot.
	docs = append([]model.Document(nil), docs...)
	sort.Slice(docs, func(i, j int) bool {
		return strings.ToLower(docs[i].ID) < strings.ToLower(docs[j].ID)
	})

	m := DocListModel{
		docs:         docs,
		filtered:     docs,
		keys:         defaultDocListKeyMap(),
		columnWidths: columnWidths,
		phase:        docListPhaseList,
	}

	rows := m.docsToRows(docs)

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m.table = t
	return m
}

func (m DocListModel) docsToRows(docs []model.Document) []table.Row {
	rows := make([]table.Row, len(docs))
	for i, d := range docs {
		rows[i] = table.Row{
			truncateText(d.ID, m.columnWidths.id),
			truncateText(d.DisplayPatterns(), m.columnWidths.patterns),
			truncateText(d.Description, m.columnWidths.desc),
		}
	}
	return rows
}

func docListColumns(totalWidth int, docs []model.Document) ([]table.Column, docListColumnWidths) {
	widths := docListColumnWidths{
		id:       docListIDWidth,
		patterns: docListPatternsWidth,
		desc:     docListDescWidth,
	}

	if totalWidth > 0 {
		baseTotal := widths.id + widths.patterns + widths.desc +
			(docListColumnPadding * docListColumnCount)
		extra := totalWidth - baseTotal
		if extra > 0 {
			maxPatternWidth := widths.patterns
			for _, d := range docs {
				w := runewidth.StringWidth(d.DisplayPatterns())
				if w > maxPatternWidth {
					maxPatternWidth = w
				}
			}

			patternsNeeded := maxPatternWidth - widths.patterns
			if patternsNeeded > 0 {
				patternsExtra := min(patternsNeeded, extra)
				widths.patterns += patternsExtra
				extra -= patternsExtra
			}

			idExtra := extra / 3
			descExtra := extra - idExtra
			widths.id += idExtra
			widths.desc += descExtra
		}
	}

	columns := []table.Column{
		{Title: "Id", Width: widths.id},
		{Title: "Applies To", Width: widths.patterns},
		{Title: "Description", Width: widths.desc},
	}

	return columns, widths
}

func (m *DocListModel) updateColumns(totalWidth int) {
	columns, widths := docListColumns(totalWidth, m.docs)
	m.columnWidths = widths
	m.table.SetColumns(columns)
}

func (m DocListModel) panelWidth() int {
	if m.width > 0 {
		return m.width
	}
	return m.columnWidths.id + m.columnWidths.patterns + m.columnWidths.desc +
		(docListColumnPadding * docListColumnCount)
}

func (m DocListModel) renderDetailPanel() string {
	width := m.panelWidth()
	contentWidth := max(width-4, 10)

	doc := m.getSelectedDoc()
	description := strings.TrimSpace(doc.Description)
	if description == "" {
		description = "No description available."
	}

	lines := wrapLines(description, contentWidth, docListDetailLines)
	lines = padLines(lines, docListDetailLines)

	header := docListStyles.DetailTitle.Render(titleCase("description") + " (selected)")
	content := append([]string{header}, lines...)

	return docListStyles.DetailBox.Width(width).Render(strings.Join(content, "\n"))
}

// Init implements tea.Model.
func (m DocListModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m DocListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.phase {
	case docListPhaseDetail:
		return m.updateDetail(msg)
	case docListPhaseProbe:
		return m.updateProbe(msg)
	default:
		return m.updateList(msg)
	}
}

func (m DocListModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve space for title, help, status, and the detail panel.
		newHeight := max(msg.Height-10-docListDetailHeight-docListDetailGap, 5)
		m.table.SetHeight(newHeight)
		m.updateColumns(msg.Width)
		m.table.SetRows(m.docsToRows(m.filtered))

	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "enter":
				m.filtering = false
				return m, nil
			case "esc":
				m.filter = ""
				m.filtering = false
				m.applyFilter()
				return m, nil
			case "backspace":
				if len(m.filter) > 0 {
					m.filter = m.filter[:len(m.filter)-1]
					m.applyFilter()
				}
				return m, nil
			default:
				if len(msg.String()) == 1 {
					m.filter += msg.String()
					m.applyFilter()
				}
				return m, nil
			}
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			return m, nil

		case key.Matches(msg, m.keys.ClearFlt):
			m.filter = ""
			m.applyFilter()
			return m, nil

		case key.Matches(msg, m.keys.Probe):
			m.phase = docListPhaseProbe
			m.probePath = ""
			return m, nil

		case key.Matches(msg, m.keys.Detail):
			if len(m.filtered) > 0 {
				m.detailDoc = m.getSelectedDoc()
				m.phase = docListPhaseDetail
				m.ready = false
				m.ensureDetailViewport()
			}
			return m, nil

		case key.Matches(msg, m.keys.Open):
			if len(m.filtered) > 0 {
				m.result = DocListResult{
					Action:   DocActionView,
					Document: m.getSelectedDoc(),
				}
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Copy):
			if len(m.filtered) > 0 {
				m.result = DocListResult{
					Action:   DocActionCopy,
					Document: m.getSelectedDoc(),
				}
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m DocListModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureDetailViewport()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Back):
			m.phase = docListPhaseList
			return m, nil
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m DocListModel) updateProbe(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			m.phase = docListPhaseList
			m.probePath = ""
			return m, nil
		case "backspace":
			if len(m.probePath) > 0 {
				m.probePath = m.probePath[:len(m.probePath)-1]
			}
			return m, nil
		default:
			if len(msg.String()) == 1 {
				m.probePath += msg.String()
			}
			return m, nil
		}
	}

	return m, nil
}

func (m *DocListModel) applyFilter() {
	if m.filter == "" {
		m.filtered = m.docs
	} else {
		var filtered []model.Document
		lowerFilter := strings.ToLower(m.filter)
		for _, d := range m.docs {
			if strings.Contains(strings.ToLower(d.ID), lowerFilter) ||
				strings.Contains(strings.ToLower(d.DisplayPatterns()), lowerFilter) ||
				strings.Contains(strings.ToLower(d.Description), lowerFilter) {
				filtered = append(filtered, d)
			}
		}
		m.filtered = filtered
	}
	m.table.SetRows(m.docsToRows(m.filtered))
}

func (m DocListModel) getSelectedDoc() model.Document {
	cursor := m.table.Cursor()
	if cursor >= 0 && cursor < len(m.filtered) {
		return m.filtered[cursor]
	}
	return model.Document{}
}

// View implements tea.Model.
func (m DocListModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.phase {
	case docListPhaseDetail:
		return m.viewDetail()
	case docListPhaseProbe:
		return m.viewProbe()
	}

	var b strings.Builder

	title := docListStyles.Title.Render("📐 Instruction Documents")
	b.WriteString(title)
	b.WriteString("\n\n")

	if m.filter != "" || m.filtering {
		filterStr := docListStyles.Filter.Render("Filter: ")
		filterVal := docListStyles.FilterInput.Render(m.filter)
		if m.filtering {
			filterVal += "█"
		}
		b.WriteString(filterStr + filterVal + "\n\n")
	}

	b.WriteString(m.table.View())
	b.WriteString("\n")

	b.WriteString(m.renderDetailPanel())
	b.WriteString("\n")

	status := fmt.Sprintf("%d document(s)", len(m.filtered))
	if m.filter != "" {
		status = fmt.Sprintf("%d of %d document(s) (filtered)", len(m.filtered), len(m.docs))
	}
	b.WriteString(docListStyles.Status.Render(status))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.renderFullHelp())
	} else {
		b.WriteString(m.renderShortHelp())
	}

	return b.String()
}

func (m DocListModel) viewProbe() string {
	var b strings.Builder

	title := docListStyles.Title.Render("📐 Probe Target Path")
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(docListStyles.Filter.Render("Path: "))
	b.WriteString(docListStyles.FilterInput.Render(m.probePath))
	b.WriteString("█\n\n")

	if m.probePath == "" {
		b.WriteString(docListStyles.Help.Render("Type a relative path to see which documents apply."))
		b.WriteString("\n")
	} else {
		matched := match.Match(m.docs, m.probePath)
		matchedIDs := make(map[string]bool, len(matched))
		for _, d := range matched {
			matchedIDs[d.ID] = true
		}

		b.WriteString(docListStyles.DetailTitle.Render(titleCase("applicable documents")))
		b.WriteString("\n")
		for _, d := range m.docs {
			if matchedIDs[d.ID] {
				b.WriteString(docListStyles.ProbeHit.Render("  ✓ " + d.ID))
			} else {
				b.WriteString(docListStyles.ProbeMiss.Render("    " + d.ID))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(docListStyles.Status.Render(fmt.Sprintf("%d of %d document(s) apply", len(matched), len(m.docs))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(docListStyles.Help.Render("esc back • ctrl+c quit"))
	return b.String()
}

func (m DocListModel) viewDetail() string {
	m.ensureDetailViewport()
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder

	title := docListStyles.Title.Render(fmt.Sprintf("📐 Document: %s", m.detailDoc.ID))
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	scrollPercent := int(m.viewport.ScrollPercent() * 100)
	status := fmt.Sprintf("Scroll: %d%% • Press b or Esc to go back", scrollPercent)
	b.WriteString(docListStyles.Status.Render(status))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.renderDetailHelp())
	} else {
		keys := []string{
			"↑/↓ scroll",
			"b back",
			"? help",
			"q quit",
		}
		b.WriteString(docListStyles.Help.Render(strings.Join(keys, " • ")))
	}

	return b.String()
}

func (m *DocListModel) ensureDetailViewport() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	headerHeight := 4
	footerHeight := 4
	viewportHeight := max(m.height-headerHeight-footerHeight, 5)

	if !m.ready {
		m.viewport = viewport.New(m.width-2, viewportHeight)
		m.viewport.SetContent(m.buildDetailContent(m.viewport.Width))
		m.ready = true
		return
	}

	m.viewport.Width = m.width - 2
	m.viewport.Height = viewportHeight
	m.viewport.SetContent(m.buildDetailContent(m.viewport.Width))
}

func (m DocListModel) buildDetailContent(width int) string {
	var b strings.Builder

	doc := m.detailDoc
	if doc.ID == "" {
		return "No document selected."
	}

	wrappedWidth := max(width, 10)
	indent := "  "

	b.WriteString(docListStyles.DetailTitle.Render(titleCase("document")))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%sId: %s\n", indent, doc.ID))
	b.WriteString(fmt.Sprintf("%sApplies to: %s\n", indent, doc.DisplayPatterns()))
	if doc.Path != "" {
		b.WriteString(fmt.Sprintf("%sPath: %s\n", indent, doc.Path))
	}
	for key, val := range doc.Metadata {
		b.WriteString(fmt.Sprintf("%s%s: %s\n", indent, titleCase(key), val))
	}

	b.WriteString("\n")
	b.WriteString(docListStyles.DetailTitle.Render(titleCase("description")))
	b.WriteString("\n")

	description := strings.TrimSpace(doc.Description)
	if description == "" {
		description = "No description available."
	}
	b.WriteString(lipgloss.NewStyle().Width(wrappedWidth).Render(description))
	b.WriteString("\n")

	b.WriteString("\n")
	b.WriteString(docListStyles.DetailTitle.Render(titleCase("body")))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(wrappedWidth).Render(doc.Body))
	b.WriteString("\n")

	return b.String()
}

func (m DocListModel) renderShortHelp() string {
	keys := []string{
		"↑/↓ navigate",
		"enter details",
		"p probe",
		"o open",
		"c copy path",
		"/ filter",
		"? help",
		"q quit",
	}
	return docListStyles.Help.Render(strings.Join(keys, " • "))
}

func (m DocListModel) renderFullHelp() string {
	help := `Navigation:
  ↑/k      Move up
  ↓/j      Move down
  g/Home   Go to top
  G/End    Go to bottom

Actions:
  Enter/v  View details
  p        Probe a target path against all documents
  o        Open document body
  c        Copy document path

Filter:
  /        Start filtering (by id, pattern, or description)
  Esc      Clear filter
  Enter    Finish filtering

General:
  ?        Toggle full help
  q        Quit`
	return docListStyles.Help.Render(help)
}

func (m DocListModel) renderDetailHelp() string {
	help := `Navigation:
  ↑/k      Scroll up
  ↓/j      Scroll down
  g/Home   Top
  G/End    Bottom

Actions:
  b/Esc    Back to list

General:
  ?        Toggle full help
  q        Quit`
	return docListStyles.Help.Render(help)
}

// Result returns the result of the user interaction.
func (m DocListModel) Result() DocListResult {
	return m.result
}

// RunDocList runs the interactive document browser and returns the result.
func RunDocList(docs []model.Document) (DocListResult, error) {
	if len(docs) == 0 {
		return DocListResult{}, nil
	}

	m := NewDocListModel(docs)
	finalModel, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return DocListResult{}, err
	}

	if fm, ok := finalModel.(DocListModel); ok {
		return fm.Result(), nil
	}

	return DocListResult{}, nil
}
