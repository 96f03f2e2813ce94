package tui

import (
	"strings"

	"sepsisguard/client"
	"sepsisguard/schema"
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("Sepsis Prediction Features"))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render("Sepsis: Positive if a patient in ICU will develop sepsis, and Negative otherwise"))
	b.WriteString("\n\n")

	for i, f := range fieldsWithLabels() {
		label := m.theme.Label
		if m.focus == i {
			label = m.theme.Focused
		}
		b.WriteString(label.Render(f))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	selector := m.theme.Label
	if m.focus == len(m.inputs) {
		selector = m.theme.Focused
	}
	b.WriteString("\n")
	b.WriteString(selector.Render("Select Model"))
	b.WriteString("< " + m.selectedModel() + " >")
	b.WriteString("\n")

	if m.formErr != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.Error.Render(m.formErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Card.Render(m.resultView()))
	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render("tab/↑↓ move • ←/→ model • enter/ctrl+s predict • esc quit"))
	b.WriteString("\n")

	return b.String()
}

func (m model) resultView() string {
	switch {
	case m.pending:
		return "Predicting with " + m.selectedModel() + "..."
	case !m.submitted:
		return "Prediction will be shown here after submitting the form."
	case m.err != nil:
		return m.theme.Error.Render(m.err.Error())
	}

	verdict := m.theme.Negative
	if client.IsPositive(m.result) {
		verdict = m.theme.Positive
	}
	return verdict.Render(client.Verdict(m.result)) + "\n" +
		client.Outlook(m.result) + "\n\n" +
		client.Chance(m.result) + "\n" +
		m.theme.Subtitle.Render("Model: "+m.answeredBy)
}

func fieldsWithLabels() []string {
	labels := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		labels[i] = f.Name + " - " + f.Description
	}
	return labels
}
