// Package tui is the terminal form used to request sepsis predictions.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"sepsisguard/schema"
)

type model struct {
	theme Theme
	deps  Deps

	inputs []textinput.Model
	focus  int // len(inputs) is the model selector

	models   []string
	selected int

	pending    bool
	submitted  bool
	result     schema.PredictionResponse
	answeredBy string
	err        error
	formErr    string

	width int
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	inputs := make([]textinput.Model, len(schema.Fields))
	for i, f := range schema.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 12
		ti.Width = 12
		ti.Placeholder = formatValue(f.Min)
		inputs[i] = ti
	}
	inputs[0].Focus()

	m := model{
		theme:  DefaultTheme(),
		deps:   deps,
		inputs: inputs,
	}
	m.setModels(deps.Models)
	return m
}

func (m model) Init() tea.Cmd {
	if m.deps.Lister == nil {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, cmdLoadModels(m.deps))
}

func (m *model) setModels(names []string) {
	current := m.deps.DefaultModel
	if len(m.models) > 0 {
		current = m.models[m.selected]
	}
	m.models = append([]string(nil), names...)
	m.selected = 0
	for i, name := range m.models {
		if name == current {
			m.selected = i
		}
	}
}

func (m model) selectedModel() string {
	if len(m.models) == 0 {
		return ""
	}
	return m.models[m.selected]
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case modelsLoadedMsg:
		if len(msg.names) > 0 {
			m.setModels(msg.names)
		}
		return m, nil

	case predictionDoneMsg:
		m.pending = false
		m.submitted = true
		m.result = msg.resp
		m.answeredBy = msg.model
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "down":
			return m, m.moveFocus(1)

		case "shift+tab", "up":
			return m, m.moveFocus(-1)

		case "left", "right":
			if m.focus == len(m.inputs) {
				m.cycleModel(msg.String() == "right")
				return m, nil
			}

		case "enter", "ctrl+s":
			return m.submit()
		}

		if m.focus < len(m.inputs) {
			if msg.Type == tea.KeySpace {
				return m, nil
			}
			if msg.Type == tea.KeyRunes {
				msg.Runes = numericRunes(msg.Runes)
				if len(msg.Runes) == 0 {
					return m, nil
				}
			}
			var cmd tea.Cmd
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m *model) moveFocus(delta int) tea.Cmd {
	n := len(m.inputs) + 1
	m.focus = ((m.focus+delta)%n + n) % n
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	if m.focus < len(m.inputs) {
		return m.inputs[m.focus].Focus()
	}
	return nil
}

func (m *model) cycleModel(forward bool) {
	if len(m.models) == 0 {
		return
	}
	if forward {
		m.selected = (m.selected + 1) % len(m.models)
	} else {
		m.selected = (m.selected - 1 + len(m.models)) % len(m.models)
	}
}

func (m model) submit() (tea.Model, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	name := m.selectedModel()
	if name == "" {
		m.formErr = "no model selected"
		return m, nil
	}

	fv, err := m.collect()
	if err != nil {
		m.formErr = err.Error()
		return m, nil
	}

	m.formErr = ""
	m.pending = true
	return m, cmdPredict(m.deps, name, fv)
}

// collect parses every input, clamps it to the field's range and writes the
// clamped value back so the form shows what is sent.
func (m *model) collect() (schema.FeatureVector, error) {
	var fv schema.FeatureVector
	for i, f := range schema.Fields {
		raw := strings.TrimSpace(m.inputs[i].Value())
		v := f.Min
		if raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fv, fmt.Errorf("%s must be a number", f.Name)
			}
			v = parsed
		}
		v = f.Clamp(v)
		if err := fv.Set(f.Name, v); err != nil {
			return fv, err
		}
		if raw != "" {
			m.inputs[i].SetValue(formatValue(v))
		}
	}
	return fv, nil
}

func numericRunes(in []rune) []rune {
	out := make([]rune, 0, len(in))
	for _, r := range in {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			out = append(out, r)
		}
	}
	return out
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
