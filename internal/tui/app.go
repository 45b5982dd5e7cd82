// Package tui - интерактивное меню трекера на bubbletea.
//
// Каждое действие меню либо сразу выполняет запрос к сервисам в tea.Cmd,
// либо открывает форму из шагов ввода и выбора; результат приходит сообщением
// (таблица, уведомление или ошибка), после чего интерфейс возвращается в меню.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/employee-tracker/internal/domain"
	"github.com/employee-tracker/internal/report"
	"github.com/employee-tracker/internal/repository"
	"github.com/employee-tracker/internal/service"
)

// appState - текущий экран
type appState int

const (
	stateMenu   appState = iota // главное меню
	stateForm                   // пошаговая форма
	stateResult                 // таблица с результатом
)

// ModeSource сообщает текущий режим хранилища
type ModeSource interface {
	Mode() repository.Mode
}

// ModeChangedMsg отправляется, когда хранилище сменило режим
type ModeChangedMsg struct {
	Mode repository.Mode
}

type formMsg struct{ form *form }

type noticeMsg struct{ text string }

type tableMsg struct{ table report.Table }

type failedMsg struct {
	action string
	err    error
}

// menuItem реализует list.Item для пунктов меню
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// App - модель bubbletea со всем состоянием интерфейса
type App struct {
	state  appState
	ctx    context.Context
	svc    *service.Services
	modes  ModeSource
	logger *slog.Logger

	menu    list.Model
	actions []action
	form    *form
	result  table.Model
	caption string

	notice    string
	noticeErr bool

	width  int
	height int
}

// New создаёт модель интерфейса
func New(ctx context.Context, svc *service.Services, modes ModeSource, logger *slog.Logger) *App {
	a := &App{
		state:  stateMenu,
		ctx:    ctx,
		svc:    svc,
		modes:  modes,
		logger: logger,
	}
	a.actions = a.buildActions()

	items := make([]list.Item, len(a.actions))
	for i, act := range a.actions {
		items[i] = menuItem{title: act.title, desc: act.desc}
	}
	menu := list.New(items, list.NewDefaultDelegate(), 80, 30)
	menu.Title = "Employee Tracker"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.SetShowHelp(false)
	menu.DisableQuitKeybindings()
	a.menu = menu
	return a
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.menu.SetSize(max(20, msg.Width-6), max(10, msg.Height-6))
		if a.form != nil {
			a.form.setSize(msg.Width, msg.Height)
		}
		return a, nil

	case ModeChangedMsg:
		if msg.Mode == repository.ModeOffline {
			a.setNotice("Database unavailable, continuing with in-memory data", true)
		}
		return a, nil

	case formMsg:
		a.form = msg.form
		if a.width > 0 {
			a.form.setSize(a.width, a.height)
		}
		a.state = stateForm
		return a, nil

	case noticeMsg:
		a.toMenu()
		a.setNotice(msg.text, false)
		return a, nil

	case tableMsg:
		a.showTable(msg.table)
		return a, nil

	case failedMsg:
		a.logger.Warn("operation failed",
			slog.String("action", msg.action),
			slog.Any("error", msg.err),
		)
		a.toMenu()
		a.setNotice(describeError(msg.err), true)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc":
			if a.state != stateMenu {
				a.toMenu()
				return a, nil
			}
		case "q":
			switch a.state {
			case stateMenu:
				return a, tea.Quit
			case stateResult:
				a.toMenu()
				return a, nil
			}
		case "enter":
			switch a.state {
			case stateMenu:
				return a.selectAction()
			case stateResult:
				a.toMenu()
				return a, nil
			}
		}
	}

	var cmd tea.Cmd
	switch a.state {
	case stateMenu:
		a.menu, cmd = a.menu.Update(msg)
	case stateForm:
		var done bool
		done, cmd = a.form.Update(msg)
		if done {
			f := a.form
			a.toMenu()
			return a, f.submit(f.values)
		}
	case stateResult:
		a.result, cmd = a.result.Update(msg)
	}
	return a, cmd
}

// selectAction запускает выбранный пункт меню
func (a *App) selectAction() (tea.Model, tea.Cmd) {
	idx := a.menu.Index()
	if idx < 0 || idx >= len(a.actions) {
		return a, nil
	}
	act := a.actions[idx]
	a.logger.Info("menu action selected", slog.String("action", act.title))
	a.notice = ""

	if act.run == nil {
		return a, tea.Quit
	}
	return a, act.run()
}

func (a *App) toMenu() {
	a.state = stateMenu
	a.form = nil
}

func (a *App) setNotice(text string, isErr bool) {
	a.notice = text
	a.noticeErr = isErr
}

func (a *App) showTable(t report.Table) {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	columns := make([]table.Column, len(t.Headers))
	for i, h := range t.Headers {
		columns[i] = table.Column{Title: h, Width: widths[i] + 1}
	}
	rows := make([]table.Row, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = table.Row(row)
	}

	height := len(rows) + 1
	if a.height > 0 {
		height = min(height, max(3, a.height-8))
	}

	a.result = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	a.caption = t.Title
	a.form = nil
	a.state = stateResult
}

func (a *App) View() string {
	var content, help string
	switch a.state {
	case stateMenu:
		content = a.menu.View()
		help = "↑/↓ move · enter select · q quit"
	case stateForm:
		content = a.form.View()
		help = "enter confirm · esc back to menu"
	case stateResult:
		content = titleStyle.Render(a.caption) + "\n\n" + a.result.View()
		help = "↑/↓ scroll · enter/esc back to menu"
	}

	var b strings.Builder
	b.WriteString(frameStyle.Render(content))
	b.WriteString("\n")
	b.WriteString(a.statusLine())
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(help))
	return b.String()
}

func (a *App) statusLine() string {
	badge := connectedStyle.Render("CONNECTED")
	if a.modes.Mode() == repository.ModeOffline {
		badge = offlineStyle.Render("OFFLINE")
	}
	if a.notice == "" {
		return badge
	}
	style := noticeStyle
	if a.noticeErr {
		style = errorStyle
	}
	return badge + " " + style.Render(a.notice)
}

// describeError переводит ошибку в понятное пользователю сообщение
func describeError(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return "Invalid input: " + verr.Reason
	case errors.Is(err, domain.ErrNotFound):
		return "Not found: " + err.Error()
	case errors.Is(err, domain.ErrBackendUnavailable):
		return "Storage unavailable, see the log for details"
	default:
		return "Unexpected error: " + err.Error()
	}
}
