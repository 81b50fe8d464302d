// Package tui is the interactive front end: today's question, the time
// capsule, favorites, and this year's history in one tabbed view.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"daybook/internal/catalog"
	"daybook/internal/journal"
	"daybook/internal/models"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateCapsule
	StateFavorites
	StateHistory
	StateAnswering
)

// Deps bundles everything the TUI reads from and writes to.
type Deps struct {
	Journal   *journal.Store
	Capsule   *journal.Capsule
	Favorites *journal.Favorites
	Catalog   *catalog.Catalog
	Days      *journal.DaySet
	// Settings returns the configured capsule look-back depth.
	Settings func() int
}

type AnswerFormModel struct {
	Text     string
	Mood     string
	Emoji    string
	Favorite bool
}

type Model struct {
	deps          Deps
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model

	form       *huh.Form
	answerForm *AnswerFormModel
	editing    bool

	today          time.Time
	question       models.Question
	answer         *models.Answer
	capsuleAnswers []models.Answer
	favoriteList   []journal.ScheduledFavorite
	history        []models.Answer
	answeredDays   int

	formError string
	quitting  bool
	width     int
	height    int
}

func NewModel(deps Deps) Model {
	m := Model{
		deps:  deps,
		state: StateToday,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		today: time.Now(),
	}
	m.refresh()
	return m
}

// refresh reloads everything shown in the current tabs.
func (m *Model) refresh() {
	m.today = time.Now()
	if question, ok := m.deps.Catalog.QuestionForDay(m.today.YearDay()); ok {
		m.question = question
	}

	if answer, ok := m.deps.Journal.Get(m.question.ID, m.today); ok {
		m.answer = &answer
	} else {
		m.answer = nil
	}

	years := 0
	if m.deps.Settings != nil {
		years = m.deps.Settings()
	}
	m.capsuleAnswers = m.deps.Capsule.LookupPastYears(m.question.ID, m.today, years)
	m.favoriteList = m.deps.Favorites.ListWithSchedule(m.today.Year(), m.deps.Catalog)
	m.history = m.deps.Journal.ListForYear(m.today.Year())
	m.answeredDays = len(m.deps.Days.All())
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == StateToday {
		keys = append(keys, m.keys.Answer, m.keys.Favorite)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	var actions []key.Binding
	if m.state == StateToday {
		actions = []key.Binding{m.keys.Answer, m.keys.Favorite}
	}
	return [][]key.Binding{global, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}
