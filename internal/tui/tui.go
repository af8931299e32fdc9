package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/ethics-journey/internal/engine"
	"github.com/tatianab/ethics-journey/internal/journey"
	"github.com/tatianab/ethics-journey/internal/narrator"
)

type screen int

const (
	screenPlaying screen = iota
	screenJump
	screenJourney
	screenSummary
)

type model struct {
	screen     screen
	engine     *engine.Engine
	reflector  narrator.Reflector
	textInput  textinput.Model
	viewport   viewport.Model
	width      int
	height     int
	reflection string
	reflecting bool
	err        error
}

var (
	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	outcomeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8E6CF")).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF8787"))
)

// NewModel returns the program model. reflector may be nil.
func NewModel(eng *engine.Engine, reflector narrator.Reflector) model {
	ti := textinput.New()
	ti.Placeholder = "scenario id, e.g. family-request"
	ti.CharLimit = 80
	ti.Width = 40

	return model{
		screen:    screenPlaying,
		engine:    eng,
		reflector: reflector,
		textInput: ti,
		viewport:  viewport.New(80, 20),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

type reflectionMsg struct {
	text string
	err  error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.screen {
		case screenJump:
			return m.updateJump(msg)
		case screenJourney:
			return m.updateJourney(msg)
		case screenSummary:
			return m.updateSummary(msg)
		}
		return m.updatePlaying(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * 0.72)
		m.viewport.Height = msg.Height - 6
		m.refresh()
		return m, nil

	case reflectionMsg:
		m.reflecting = false
		m.err = msg.err
		m.reflection = msg.text
		m.refresh()
		return m, nil
	}

	if m.screen == screenJump {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	return m, cmd
}

func (m model) updatePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	switch msg.String() {
	case "esc", "q":
		return m, tea.Quit
	case "enter", " ":
		if m.engine.Phase() == engine.PhaseAwaitingConfirmation {
			m.engine.ContinueToNext(ctx)
			m.viewport.GotoTop()
		}
	case "g":
		m.screen = screenJump
		m.textInput.Reset()
		m.textInput.Focus()
		return m, textinput.Blink
	case "j":
		m.screen = screenJourney
	case "s":
		m.screen = screenSummary
	case "r":
		m.engine.ResetGame(ctx)
		m.reflection = ""
		m.err = nil
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if m.engine.Phase() == engine.PhaseAwaitingConfirmation {
			break
		}
		i := int(msg.String()[0] - '1')
		choices := m.engine.Choices()
		if i < len(choices) {
			m.engine.SelectChoice(ctx, choices[i].ID)
			m.viewport.GotoTop()
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	m.refresh()
	return m, nil
}

func (m model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.screen = screenPlaying
		m.textInput.Blur()
	case tea.KeyEnter:
		target := strings.TrimSpace(m.textInput.Value())
		m.textInput.Blur()
		m.screen = screenPlaying
		if target != "" {
			m.engine.DirectNavigate(context.Background(), target)
			m.viewport.GotoTop()
		}
	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	m.refresh()
	return m, nil
}

func (m model) updateJourney(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case key == "esc" || key == "j" || key == "q":
		m.screen = screenPlaying
	case len(key) == 1 && key[0] >= '1' && key[0] <= '9':
		points := journey.Map(m.engine.Graph(), m.engine.History())
		if i := int(key[0] - '1'); i < len(points) {
			m.engine.DirectNavigate(context.Background(), points[i].ScenarioID)
			m.screen = screenPlaying
		}
	}
	m.refresh()
	return m, nil
}

func (m model) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "s", "q":
		m.screen = screenPlaying
	case "n":
		if m.reflector != nil && !m.reflecting {
			m.reflecting = true
			m.err = nil
			m.refresh()
			return m, m.reflect()
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	m.refresh()
	return m, nil
}

// refresh re-renders the scrollable content for the current screen.
func (m *model) refresh() {
	switch m.screen {
	case screenSummary:
		m.viewport.SetContent(m.renderSummary())
	case screenJourney:
		m.viewport.SetContent(m.renderJourney())
	default:
		m.viewport.SetContent(m.renderScenario())
	}
}

func (m model) View() string {
	var help string
	switch m.screen {
	case screenJump:
		return fmt.Sprintf("\n  Jump to a scenario:\n\n  %s\n\n%s\n",
			m.textInput.View(),
			helpStyle.Render("  Enter to jump, Esc to cancel."))
	case screenJourney:
		help = "1-9: revisit a scenario · Esc: back"
	case screenSummary:
		help = "Esc: back"
		if m.reflector != nil {
			help = "n: ask the narrator for a reflection · " + help
		}
	default:
		if m.engine.Phase() == engine.PhaseAwaitingConfirmation {
			help = "Enter: continue · j: journey · s: summary · g: jump · r: restart · q: quit"
		} else {
			help = "1-9: choose · j: journey · s: summary · g: jump · r: restart · q: quit"
		}
	}

	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewport.View(),
		m.renderState(),
	)
	return "\n" + lipgloss.JoinVertical(lipgloss.Left, mainView, "\n"+helpStyle.Render(help)) + "\n"
}

func (m model) contentWidth() int {
	if m.viewport.Width > 4 {
		return m.viewport.Width - 2
	}
	return 76
}

func (m model) renderScenario() string {
	w := m.contentWidth()
	cur := m.engine.Current()

	var b strings.Builder
	b.WriteString(titleStyle.Render(cur.Title) + "\n\n")
	if m.engine.Resolver().IsFallback(cur) {
		b.WriteString(warnStyle.Render("Could not find "+m.engine.Position()) + "\n\n")
	}
	if journey.IsRevisit(m.engine.Graph(), m.engine.State()) {
		visits := journey.Visits(m.engine.History())[cur.ID]
		b.WriteString(helpStyle.Render(fmt.Sprintf("You have been here before (%d previous choices).", visits)) + "\n\n")
	}
	b.WriteString(gameStyle.Width(w).Render(cur.Description) + "\n\n")

	if pending, ok := m.engine.Pending(); ok {
		b.WriteString(choiceStyle.Width(w).Render("> "+pending.Text) + "\n\n")
		b.WriteString(outcomeStyle.Width(w).Render(pending.Outcome) + "\n\n")
		b.WriteString(fmt.Sprintf("%+d points", pending.Score))
		if tags := pending.UniqueTags(); len(tags) > 0 {
			b.WriteString(" · " + strings.Join(tags, ", "))
		}
		b.WriteString("\n\n" + helpStyle.Render("Press Enter to continue."))
		return b.String()
	}

	if m.engine.IsComplete() {
		b.WriteString(m.renderSummaryBody(w) + "\n\n")
	}
	for i, c := range m.engine.Choices() {
		b.WriteString(gameStyle.Width(w).Render(fmt.Sprintf("%d. %s", i+1, c.Text)) + "\n")
	}
	return b.String()
}

func (m model) renderJourney() string {
	w := m.contentWidth()
	g := m.engine.Graph()
	var b strings.Builder
	b.WriteString(titleStyle.Render("YOUR JOURNEY") + "\n\n")

	points := journey.Map(g, m.engine.History())
	if len(points) == 0 {
		b.WriteString("No choices made yet.\n")
		return b.String()
	}
	for i, p := range points {
		line := fmt.Sprintf("%d. %s", i+1, p.Title)
		if p.Visits > 1 {
			line += fmt.Sprintf(" (×%d)", p.Visits)
		}
		if i >= 9 {
			line = "   " + p.Title
		}
		b.WriteString(gameStyle.Width(w).Render(line) + "\n")
	}

	b.WriteString("\n" + titleStyle.Render("PATH") + "\n\n")
	for _, s := range journey.Path(g, m.engine.History()) {
		marker := "→"
		if s.Circular {
			marker = "↺"
		}
		b.WriteString(fmt.Sprintf("%s %s: %s (%+d)\n", marker, s.Title, s.ChoiceText, s.Points))
	}
	return b.String()
}

func (m model) renderSummary() string {
	w := m.contentWidth()
	body := titleStyle.Render("YOUR JOURNEY SUMMARY") + "\n\n" + m.renderSummaryBody(w)

	switch {
	case m.reflecting:
		body += "\n\n" + helpStyle.Render("The narrator is reflecting on your journey...")
	case m.err != nil:
		body += "\n\n" + warnStyle.Width(w).Render("The narrator is unavailable: "+m.err.Error())
	case m.reflection != "":
		body += "\n\n" + titleStyle.Render("REFLECTION") + "\n" + outcomeStyle.Width(w).Render(m.reflection)
	}
	return body
}

func (m model) renderSummaryBody(w int) string {
	s := journey.Summarize(m.engine.Graph(), m.engine.State())

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Final score: %d points\n\n", s.Score))
	for _, step := range s.Steps {
		traits := strings.Join(step.Traits, ", ")
		b.WriteString(gameStyle.Width(w).Render(fmt.Sprintf("- %s: %s [%s] %+d", step.Title, step.ChoiceText, traits, step.Points)) + "\n")
	}
	if len(s.Dominant) > 0 {
		b.WriteString("\nDominant traits: ")
		names := make([]string, 0, len(s.Dominant))
		for _, d := range s.Dominant {
			names = append(names, fmt.Sprintf("%s (%d)", d.Name, d.Count))
		}
		b.WriteString(strings.Join(names, ", ") + "\n")
	}
	b.WriteString("\n" + gameStyle.Width(w).Render(s.Analysis))
	return b.String()
}

func (m model) renderState() string {
	cur := m.engine.Current()

	position := titleStyle.Render("SCENARIO") + "\n" + cur.Title + "\n\n"
	score := titleStyle.Render("SCORE") + "\n" + fmt.Sprintf("%d", m.engine.Score()) + "\n\n"

	traits := titleStyle.Render("TRAITS") + "\n"
	top := engine.DominantTraits(m.engine.Traits(), journey.TopTraits)
	if len(top) == 0 {
		traits += "(none yet)\n"
	}
	for _, t := range top {
		traits += fmt.Sprintf("%s: %d\n", t.Name, t.Count)
	}
	traits += "\n"

	steps := titleStyle.Render("CHOICES MADE") + "\n" + fmt.Sprintf("%d", len(m.engine.History())) + "\n"

	stateWidth := int(float64(m.width) * 0.25)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(position + score + traits + steps)
}

func (m model) reflect() tea.Cmd {
	summary := journey.Summarize(m.engine.Graph(), m.engine.State())
	title := m.engine.Graph().Title
	return func() tea.Msg {
		text, err := m.reflector.Reflect(context.Background(), title, summary)
		return reflectionMsg{text, err}
	}
}

// Run starts the terminal program. reflector may be nil.
func Run(eng *engine.Engine, reflector narrator.Reflector) error {
	m := NewModel(eng, reflector)
	m.refresh()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
