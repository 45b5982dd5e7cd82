package tui

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/employee-tracker/internal/service"
)

const (
	maxNameLen    = 30
	pickerWidth   = 60
	pickerHeight  = 14
	noneOptionID  = 0
	noneOptionTag = "None"
)

// option - элемент списка выбора
type option struct {
	id    int64
	label string
}

func (o option) Title() string       { return o.label }
func (o option) Description() string { return "" }
func (o option) FilterValue() string { return o.label }

type stepKind int

const (
	stepText stepKind = iota
	stepPick
)

// step - один вопрос формы: ввод текста или выбор из списка
type step struct {
	kind   stepKind
	key    string
	prompt string
	check  func(string) error
	input  textinput.Model
	picker list.Model
}

func textStep(key, prompt string, check func(string) error) step {
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 64
	// Курсор без мигания
	in.Cursor.SetMode(cursor.CursorStatic)
	return step{kind: stepText, key: key, prompt: prompt, check: check, input: in}
}

func pickStep(key, prompt string, options []option) step {
	items := make([]list.Item, len(options))
	for i, o := range options {
		items[i] = o
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	picker := list.New(items, delegate, pickerWidth, pickerHeight)
	picker.SetShowTitle(false)
	picker.SetShowStatusBar(false)
	picker.SetFilteringEnabled(false)
	picker.SetShowHelp(false)
	picker.DisableQuitKeybindings()
	return step{kind: stepPick, key: key, prompt: prompt, picker: picker}
}

// formValues - ответы, собранные формой
type formValues struct {
	text   map[string]string
	ids    map[string]int64
	labels map[string]string
}

func (v formValues) optionalID(key string) *int64 {
	id := v.ids[key]
	if id == noneOptionID {
		return nil
	}
	return &id
}

// form проводит пользователя по шагам и по завершении вызывает submit
type form struct {
	title   string
	steps   []step
	current int
	values  formValues
	errMsg  string
	submit  func(formValues) tea.Cmd
}

func newForm(title string, steps ...step) *form {
	f := &form{
		title:  title,
		steps:  steps,
		values: formValues{text: map[string]string{}, ids: map[string]int64{}, labels: map[string]string{}},
	}
	f.focus()
	return f
}

func (f *form) focus() {
	if f.current < len(f.steps) && f.steps[f.current].kind == stepText {
		f.steps[f.current].input.Focus()
	}
}

func (f *form) setSize(width, height int) {
	for i := range f.steps {
		if f.steps[i].kind == stepPick {
			f.steps[i].picker.SetSize(max(20, width-6), max(5, height-10))
		}
	}
}

// Update обрабатывает сообщение; done означает, что все шаги пройдены
func (f *form) Update(msg tea.Msg) (done bool, cmd tea.Cmd) {
	st := &f.steps[f.current]

	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		switch st.kind {
		case stepText:
			value := strings.TrimSpace(st.input.Value())
			if st.check != nil {
				if err := st.check(value); err != nil {
					f.errMsg = err.Error()
					return false, nil
				}
			}
			f.values.text[st.key] = value
		case stepPick:
			picked, ok := st.picker.SelectedItem().(option)
			if !ok {
				return false, nil
			}
			f.values.ids[st.key] = picked.id
			f.values.labels[st.key] = picked.label
		}

		f.errMsg = ""
		st.input.Blur()
		f.current++
		if f.current == len(f.steps) {
			return true, nil
		}
		f.focus()
		return false, nil
	}

	switch st.kind {
	case stepText:
		st.input, cmd = st.input.Update(msg)
	case stepPick:
		st.picker, cmd = st.picker.Update(msg)
	}
	return false, cmd
}

func (f *form) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(f.title))
	b.WriteString("\n\n")

	for i := 0; i < f.current; i++ {
		st := f.steps[i]
		answer := f.values.text[st.key]
		if st.kind == stepPick {
			answer = f.values.labels[st.key]
		}
		fmt.Fprintf(&b, "%s %s\n", hintStyle.Render(st.prompt), answer)
	}

	if f.current < len(f.steps) {
		st := f.steps[f.current]
		b.WriteString(promptStyle.Render(st.prompt))
		b.WriteString("\n")
		if st.kind == stepText {
			b.WriteString(st.input.View())
		} else {
			b.WriteString(st.picker.View())
		}
		b.WriteString("\n")
	}

	if f.errMsg != "" {
		b.WriteString(errorStyle.Render(f.errMsg))
		b.WriteString("\n")
	}
	return b.String()
}

func checkName(s string) error {
	if s == "" {
		return errors.New("Please enter a value.")
	}
	if utf8.RuneCountInString(s) > maxNameLen {
		return fmt.Errorf("Must be at most %d characters.", maxNameLen)
	}
	return nil
}

func checkSalary(s string) error {
	if _, err := service.ParseSalary(s); err != nil {
		return errors.New("Please enter a positive amount with at most two decimals.")
	}
	return nil
}
