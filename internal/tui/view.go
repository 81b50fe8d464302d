package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"daybook/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateToday:
		content = docStyle.Render(m.viewToday())
	case StateCapsule:
		content = docStyle.Render(m.viewCapsule())
	case StateFavorites:
		content = docStyle.Render(m.viewFavorites())
	case StateHistory:
		content = docStyle.Render(m.viewHistory())
	case StateAnswering:
		content = m.form.View()
	}

	var banner string
	if m.formError != "" {
		banner = errorStyle.Render("✗ " + m.formError)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		banner,
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	tabTitles := []string{"Today", "Capsule", "Favorites", "History"}
	for i, title := range tabTitles {
		if m.state == SessionState(i) || (m.state == StateAnswering && m.previousState == SessionState(i)) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewToday() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s · Day %d · %d days answered\n\n",
		m.today.Format("Monday, January 2"), m.today.YearDay(), m.answeredDays)

	b.WriteString(categoryStyle.Render(string(m.question.Category)))
	b.WriteString("\n")
	b.WriteString(questionStyle.Render(fmt.Sprintf("Q%d: %s", m.question.ID, m.question.Text)))
	b.WriteString("\n")
	if m.deps.Favorites.Contains(m.question.ID) {
		b.WriteString(favoriteStyle.Render("★ favorite question"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.answer != nil {
		b.WriteString(renderAnswerLine(*m.answer))
		b.WriteString("\n")
		b.WriteString(m.answer.Text)
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("press 'a' to edit"))
	} else {
		b.WriteString(mutedStyle.Render("Not answered yet. Press 'a' to write."))
	}

	if n := len(m.capsuleAnswers); n > 0 {
		fmt.Fprintf(&b, "\n\n%s", mutedStyle.Render(
			fmt.Sprintf("%d memories from past years in the Capsule tab", n)))
	}
	return b.String()
}

func (m Model) viewCapsule() string {
	if len(m.capsuleAnswers) == 0 {
		return mutedStyle.Render("No memories for today's question in past years.")
	}

	var b strings.Builder
	b.WriteString(questionStyle.Render("On this day..."))
	b.WriteString("\n")
	for _, answer := range m.capsuleAnswers {
		yearsAgo := m.today.Year() - answer.Date.Year()
		label := fmt.Sprintf("%d years ago", yearsAgo)
		if yearsAgo == 1 {
			label = "1 year ago"
		}
		fmt.Fprintf(&b, "\n%s · %s\n", categoryStyle.Render(label), renderAnswerLine(answer))
		b.WriteString(answer.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewFavorites() string {
	if len(m.favoriteList) == 0 {
		return mutedStyle.Render("No favorite questions yet. Press 'f' on a question to favorite it.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", questionStyle.Render(fmt.Sprintf("Favorite questions in %d", m.today.Year())))
	for _, entry := range m.favoriteList {
		fmt.Fprintf(&b, "%s  %s\n",
			entry.OccursOn.Format("Jan 02"),
			fmt.Sprintf("Q%d: %s", entry.Question.ID, entry.Question.Text))
	}
	return b.String()
}

func (m Model) viewHistory() string {
	if len(m.history) == 0 {
		return mutedStyle.Render("No answers recorded this year.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", questionStyle.Render(fmt.Sprintf("%d answers in %d", len(m.history), m.today.Year())))
	for _, answer := range m.history {
		fmt.Fprintf(&b, "%s\n", renderAnswerLine(answer))
		b.WriteString(answer.Text)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderAnswerLine(answer models.Answer) string {
	line := answer.Date.Format("2006-01-02")
	if answer.IsFavorite {
		line += " " + favoriteStyle.Render("★")
	}
	if answer.Emoji != nil {
		line += " " + *answer.Emoji
	}
	if answer.Mood != nil {
		line += " " + categoryStyle.Render("["+answer.Mood.Label()+"]")
	}
	return line
}
