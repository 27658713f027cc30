package tui

import (
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sinwaunyu/site/internal/content"
)

// ErrCanceled is returned when the form is closed without submitting.
var ErrCanceled = errors.New("contact form canceled")

var (
	boxStyle   = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63"))
	titleStyle = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type formField struct {
	prompt      string
	placeholder string
	limit       int
}

var contactFields = []formField{
	{"Name:     ", "山田 太郎", 100},
	{"Company:  ", "株式会社〇〇", 100},
	{"Email:    ", "taro@example.jp", 254},
	{"Tel:      ", "011-000-0000", 30},
	{"Category: ", "quote | recruit | other", 40},
	{"Subject:  ", "", 200},
}

// ContactForm is a single-screen contact form: one line per header field
// and a text area for the message. ctrl+s validates and submits.
type ContactForm struct {
	inputs    []textinput.Model
	message   textarea.Model
	focus     int
	err       string
	submitted bool
	result    content.ContactInput
}

func NewContactForm(in content.ContactInput) *ContactForm {
	values := []string{in.Name, in.CompanyName, in.Email, in.Tel, in.Category, in.Subject}
	m := &ContactForm{}
	for i, f := range contactFields {
		ti := textinput.New()
		ti.Prompt = f.prompt
		ti.Placeholder = f.placeholder
		ti.CharLimit = f.limit
		ti.SetValue(values[i])
		m.inputs = append(m.inputs, ti)
	}
	m.message = textarea.New()
	m.message.Placeholder = "お問い合わせ内容"
	m.message.ShowLineNumbers = false
	m.message.CharLimit = 5000
	m.message.SetValue(in.Message)
	m.resize(80)
	m.setFocus(0)
	return m
}

func (m *ContactForm) resize(termW int) {
	if termW <= 0 {
		termW = 80
	}
	w := min(termW-8, 90)
	w = max(w, 30)
	for i := range m.inputs {
		m.inputs[i].Width = max(12, w-lipgloss.Width(m.inputs[i].Prompt))
	}
	m.message.SetWidth(w)
	m.message.SetHeight(6)
}

func (m *ContactForm) setFocus(idx int) {
	m.focus = idx
	for i := range m.inputs {
		if i == idx {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	if idx == len(m.inputs) {
		m.message.Focus()
	} else {
		m.message.Blur()
	}
}

// Value returns what the form currently holds.
func (m *ContactForm) Value() content.ContactInput {
	return content.ContactInput{
		Name:        m.inputs[0].Value(),
		CompanyName: m.inputs[1].Value(),
		Email:       m.inputs[2].Value(),
		Tel:         m.inputs[3].Value(),
		Category:    m.inputs[4].Value(),
		Subject:     m.inputs[5].Value(),
		Message:     m.message.Value(),
	}
}

// Submitted reports whether the form was accepted, and with what.
func (m *ContactForm) Submitted() (content.ContactInput, bool) {
	return m.result, m.submitted
}

func (m *ContactForm) Init() tea.Cmd { return textinput.Blink }

func (m *ContactForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.inputs) + 1
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(x.Width)
		return m, nil
	case tea.KeyMsg:
		switch x.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "ctrl+s":
			in := m.Value().Normalize()
			if err := in.Validate(); err != nil {
				m.err = err.Error()
				return m, nil
			}
			m.result, m.submitted = in, true
			return m, tea.Quit
		case "tab":
			m.setFocus((m.focus + 1) % n)
			return m, nil
		case "shift+tab":
			m.setFocus((m.focus + n - 1) % n)
			return m, nil
		case "enter", "down":
			if m.focus < len(m.inputs) {
				m.setFocus(m.focus + 1)
				return m, nil
			}
		case "up":
			if m.focus > 0 && m.focus < len(m.inputs) {
				m.setFocus(m.focus - 1)
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	if m.focus < len(m.inputs) {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	} else {
		m.message, cmd = m.message.Update(msg)
	}
	return m, cmd
}

func (m *ContactForm) View() string {
	lines := []string{titleStyle.Render("お問い合わせ"), ""}
	for _, in := range m.inputs {
		lines = append(lines, in.View())
	}
	lines = append(lines, "", m.message.View(), "")
	if m.err != "" {
		lines = append(lines, errStyle.Render(m.err))
	}
	lines = append(lines, helpStyle.Render("ctrl+s=send • esc=cancel • tab=next • shift+tab=prev"))
	return boxStyle.Render(strings.Join(lines, "\n")) + "\n"
}

// RunContactForm shows the form on the given terminal streams, starting
// from in, and returns the validated submission.
func RunContactForm(in content.ContactInput, r io.Reader, w io.Writer) (content.ContactInput, error) {
	final, err := tea.NewProgram(NewContactForm(in), tea.WithInput(r), tea.WithOutput(w)).Run()
	if err != nil {
		return content.ContactInput{}, err
	}
	got, ok := final.(*ContactForm).Submitted()
	if !ok {
		return content.ContactInput{}, ErrCanceled
	}
	return got, nil
}
