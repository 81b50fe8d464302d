package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"daybook/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	if m.state == StateAnswering {
		return m.updateAnswering(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		m.state = nextState(m.state)
		return m, nil

	case "shift+tab":
		m.state = prevState(m.state)
		return m, nil

	case "?":
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case "r":
		m.refresh()
		return m, nil

	case "a":
		if m.state == StateToday {
			return m.openAnswerForm()
		}

	case "f":
		if m.state == StateToday {
			favored := m.deps.Favorites.Contains(m.question.ID)
			if err := m.deps.Journal.SetQuestionFavorite(m.question.ID, !favored); err != nil {
				m.formError = err.Error()
			} else {
				m.formError = ""
				m.refresh()
			}
			return m, nil
		}
	}
	return m, nil
}

func nextState(s SessionState) SessionState {
	switch s {
	case StateToday:
		return StateCapsule
	case StateCapsule:
		return StateFavorites
	case StateFavorites:
		return StateHistory
	default:
		return StateToday
	}
}

func prevState(s SessionState) SessionState {
	switch s {
	case StateToday:
		return StateHistory
	case StateCapsule:
		return StateToday
	case StateFavorites:
		return StateCapsule
	default:
		return StateFavorites
	}
}

func (m Model) openAnswerForm() (tea.Model, tea.Cmd) {
	fm := &AnswerFormModel{}
	m.editing = false
	if m.answer != nil {
		m.editing = true
		fm.Text = m.answer.Text
		fm.Favorite = m.answer.IsFavorite
		if m.answer.Mood != nil {
			fm.Mood = string(*m.answer.Mood)
		}
		if m.answer.Emoji != nil {
			fm.Emoji = *m.answer.Emoji
		}
	}

	m.answerForm = fm
	m.form = newAnswerForm(m.question, fm)
	m.previousState = m.state
	m.state = StateAnswering
	m.formError = ""
	return m, m.form.Init()
}

func newAnswerForm(question models.Question, fm *AnswerFormModel) *huh.Form {
	moodOptions := []huh.Option[string]{huh.NewOption("None", "")}
	for _, mood := range models.AllMoods {
		moodOptions = append(moodOptions, huh.NewOption(mood.Label(), string(mood)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(question.Text).
				Value(&fm.Text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("answer cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Mood").
				Options(moodOptions...).
				Value(&fm.Mood),
			huh.NewInput().
				Title("Emoji").
				Value(&fm.Emoji),
			huh.NewConfirm().
				Title("Favorite this memory?").
				Value(&fm.Favorite),
		),
	).WithTheme(huh.ThemeDracula())
}

func (m Model) updateAnswering(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.saveFormAnswer(); err != nil {
			// Stay in the form so the user can retry or cancel.
			m.formError = err.Error()
			m.form.State = huh.StateNormal
		} else {
			m.formError = ""
			m.state = m.previousState
			m.refresh()
		}
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) saveFormAnswer() error {
	input := models.AnswerInput{
		QuestionID: m.question.ID,
		Text:       m.answerForm.Text,
		Date:       m.today,
		IsFavorite: m.answerForm.Favorite,
	}
	if m.answerForm.Mood != "" {
		mood := models.Mood(m.answerForm.Mood)
		input.Mood = &mood
	}
	if m.answerForm.Emoji != "" {
		emoji := m.answerForm.Emoji
		input.Emoji = &emoji
	}

	var err error
	if m.editing {
		_, err = m.deps.Journal.Update(input)
	} else {
		_, err = m.deps.Journal.Save(input)
	}
	return err
}
