// Package tui is the terminal version of the DocGPT form.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papercomputeco/docgpt/pkg/advice"
	"github.com/papercomputeco/docgpt/pkg/imaging"
	"github.com/papercomputeco/docgpt/pkg/render"
)

const (
	fieldSymptoms = iota
	fieldImage
	fieldCount
)

// Runner runs one submission.
type Runner interface {
	Run(ctx context.Context, sub advice.Submission) advice.Result
}

type resultMsg struct {
	result advice.Result
}

var (
	labelStyle = lipgloss.NewStyle().Faint(true)
	helpStyle  = lipgloss.NewStyle().Faint(true).Italic(true)
)

// Model is the bubbletea model for the form. After a result is shown the
// form stays editable for the next submission.
type Model struct {
	// ctx is held because tea.Cmd closures take no context argument.
	ctx     context.Context
	runner  Runner
	style   string
	inputs  []textinput.Model
	focus   int
	spinner spinner.Model
	loading bool

	advice  string
	warning string
	errMsg  string
	width   int
}

// New creates the form model. style is a glamour style name used to render
// the advice ("dark", "light", "ascii", "notty").
func New(ctx context.Context, runner Runner, style string) Model {
	symptoms := textinput.New()
	symptoms.Placeholder = "Enter symptoms or health concerns"
	symptoms.CharLimit = 2000
	symptoms.Focus()

	img := textinput.New()
	img.Placeholder = "Optional image: path to a JPEG/PNG or an http(s) URL"

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		runner:  runner,
		style:   style,
		inputs:  []textinput.Model{symptoms, img},
		spinner: sp,
		width:   80,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab, tea.KeyDown:
			return m.moveFocus(1), nil
		case tea.KeyShiftTab, tea.KeyUp:
			return m.moveFocus(-1), nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			return m.submit()
		}

	case resultMsg:
		m.loading = false
		if !msg.result.OK() {
			if msg.result.Err.Kind == advice.InputError {
				m.warning = msg.result.Err.Message
			} else {
				m.errMsg = msg.result.Err.Message
			}
			return m, nil
		}
		m.advice = render.MarkdownWithStyle(msg.result.Advice, m.style, m.width)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.loading {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) moveFocus(delta int) Model {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	m.inputs[m.focus].Focus()
	return m
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.advice, m.warning, m.errMsg = "", "", ""

	text := m.inputs[fieldSymptoms].Value()
	if strings.TrimSpace(text) == "" {
		m.warning = advice.MsgEmptyText
		return m, nil
	}

	sub := advice.Submission{
		Text:  text,
		Image: imaging.ParseSource(m.inputs[fieldImage].Value()),
	}

	m.loading = true
	ctx, runner := m.ctx, m.runner
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return resultMsg{result: runner.Run(ctx, sub)}
	})
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(render.Heading("DocGPT: Your Medical Assistant"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Please provide information for health analysis"))
	b.WriteString("\n\n")

	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Asking the assistant...\n")
	case m.warning != "":
		b.WriteString(render.WarningText(m.warning) + "\n")
	case m.errMsg != "":
		b.WriteString(render.ErrorText(m.errMsg) + "\n")
	case m.advice != "":
		b.WriteString(render.Heading("Here's your medical advice:") + "\n")
		b.WriteString(m.advice + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: next field • enter: submit • esc: quit"))
	b.WriteString("\n")
	return b.String()
}
