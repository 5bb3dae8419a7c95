// Package tui is a terminal client for the task server. It keeps no
// state of its own; every action round-trips through the JSON API.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tasktrove/internal/model"
)

type mode int

const (
	modeList mode = iota
	modeAdd
)

// statusFilters cycles in this order when the filter key is pressed.
var statusFilters = []string{"pending", "due_today", "overdue", "upcoming", "done", "all"}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	urgentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	metaStyle    = lipgloss.NewStyle().Faint(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("120")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Faint(true)
)

type tickMsg time.Time

type Model struct {
	client *Client
	cfg    Config

	tasks  []model.Task
	cursor int
	mode   mode
	input  textinput.Model
	status string
	filter string

	confirmDel bool
	pendingDel *model.Task

	focusTask    model.TaskID
	focusTitle   string
	focusStarted time.Time
	focusActive  bool
}

func NewModel(client *Client, cfg Config) Model {
	ti := textinput.New()
	ti.Placeholder = "buy milk tomorrow #errands @shopping p1"
	ti.CharLimit = 256
	ti.Width = 48

	m := Model{
		client: client,
		cfg:    cfg,
		input:  ti,
		mode:   modeList,
		filter: strings.ToLower(cfg.DefaultFilter),
		status: "Press 'a' to add, space to toggle, 'f' to cycle filters.",
	}
	m.reload()
	return m
}

func (m *Model) reload() {
	status := m.filter
	if status == "all" {
		status = ""
	}
	tasks, err := m.client.ListTasks(status)
	if err != nil {
		m.status = fmt.Sprintf("load failed: %v", err)
		return
	}
	m.tasks = tasks
	m.cursor = clampCursor(m.cursor, len(m.tasks))
}

func (m Model) Init() tea.Cmd {
	return focusTick()
}

func focusTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		if m.mode == modeAdd {
			return m.updateAddMode(msg.String(), msg)
		}
		return m.updateListMode(msg.String())
	case tickMsg:
		return m, focusTick()
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			m.status = "Nothing to add"
			return m, nil
		}
		task, err := m.client.QuickAdd(text)
		if err != nil {
			m.status = fmt.Sprintf("add failed: %v", err)
			return m, nil
		}
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		m.reload()
		for i, t := range m.tasks {
			if t.ID == task.ID {
				m.cursor = clampCursor(i, len(m.tasks))
				break
			}
		}
		m.status = fmt.Sprintf("Added %q", task.Title)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down:
		if len(m.tasks) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case m.cfg.Keys.Up:
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.tasks))
		}
	case m.cfg.Keys.Add:
		m.mode = modeAdd
		m.input.Focus()
		m.status = "Quick add: title, #project, @label, p1-p4, a date"
	case m.cfg.Keys.Filter:
		m.filter = nextFilter(m.filter)
		m.cursor = 0
		m.reload()
		m.status = "Filter: " + m.filter
	case m.cfg.Keys.Toggle:
		if len(m.tasks) == 0 {
			return m, nil
		}
		return m.toggleCurrent()
	case m.cfg.Keys.Delete:
		if len(m.tasks) == 0 {
			return m, nil
		}
		t := m.tasks[m.cursor]
		m.confirmDel = true
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete %q? y/n", t.Title)
	case m.cfg.Keys.Focus:
		return m.toggleFocus()
	}
	return m, nil
}

func (m Model) toggleCurrent() (tea.Model, tea.Cmd) {
	t := m.tasks[m.cursor]
	if t.Done {
		if _, err := m.client.Reopen(t.ID); err != nil {
			m.status = fmt.Sprintf("reopen failed: %v", err)
			return m, nil
		}
		m.reload()
		m.status = "Reopened task"
		return m, nil
	}
	res, err := m.client.Complete(t.ID)
	if err != nil {
		m.status = fmt.Sprintf("complete failed: %v", err)
		return m, nil
	}
	m.reload()
	if res.Rescheduled {
		m.status = fmt.Sprintf("Done. Next occurrence %s", res.NextDue)
	} else {
		m.status = "Completed task"
	}
	return m, nil
}

func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focusActive {
		minutes, err := m.client.FocusStop()
		if err != nil {
			m.status = fmt.Sprintf("focus stop failed: %v", err)
			return m, nil
		}
		m.focusActive = false
		m.status = fmt.Sprintf("Focus logged: %d min on %q", minutes, m.focusTitle)
		return m, nil
	}
	if len(m.tasks) == 0 {
		m.status = "No task to focus on"
		return m, nil
	}
	t := m.tasks[m.cursor]
	sess, err := m.client.FocusStart(t.ID, m.cfg.FocusMinutes)
	if err != nil {
		m.status = fmt.Sprintf("focus start failed: %v", err)
		return m, nil
	}
	m.focusActive = true
	m.focusTask = t.ID
	m.focusTitle = t.Title
	m.focusStarted = time.Now()
	m.status = fmt.Sprintf("Focusing on %q for %d min", t.Title, sess.PlannedMinutes)
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
		m.confirmDel = false
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.confirmDel = false
			return m, nil
		}
		if err := m.client.Delete(m.pendingDel.ID); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			m.confirmDel = false
			m.pendingDel = nil
			return m, nil
		}
		m.confirmDel = false
		m.pendingDel = nil
		m.reload()
		m.status = "Deleted task"
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("TaskTrove"))
	b.WriteString(metaStyle.Render("  filter: " + m.filter))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(metaStyle.Render("No tasks here. Press 'a' to add one."))
		b.WriteString("\n")
	} else {
		today := time.Now().Format("2006-01-02")
		for i, t := range m.tasks {
			cursor := "  "
			if m.cursor == i && m.mode == modeList {
				cursor = cursorStyle.Render("> ")
			}

			checkbox := "[ ]"
			if t.Done {
				checkbox = "[x]"
			}

			title := t.Title
			switch {
			case t.Done:
				title = doneStyle.Render(title)
			case t.DueDate != nil && *t.DueDate < today:
				title = overdueStyle.Render(title)
			case t.Priority == model.PriorityUrgent:
				title = urgentStyle.Render(title)
			}

			extras := make([]string, 0, 3)
			if t.DueDate != nil {
				extras = append(extras, "due "+*t.DueDate)
			}
			if t.IsRecurring() {
				extras = append(extras, "repeats")
			}
			if t.Priority.Valid() && t.Priority != model.PriorityLow {
				extras = append(extras, fmt.Sprintf("p%d", t.Priority))
			}

			b.WriteString(fmt.Sprintf("%s%s %s", cursor, checkbox, title))
			if len(extras) > 0 {
				b.WriteString(metaStyle.Render("  (" + strings.Join(extras, ", ") + ")"))
			}
			b.WriteString("\n")
		}
	}

	if m.focusActive {
		elapsed := int(time.Since(m.focusStarted).Round(time.Second).Seconds())
		b.WriteString("\n")
		b.WriteString(focusStyle.Render(fmt.Sprintf("focus %02d:%02d %s", elapsed/60, elapsed%60, m.focusTitle)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.mode == modeAdd {
		b.WriteString("Add: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func renderHelp(k Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s delete • %s filter • %s focus • %s quit",
		k.Up, k.Down, k.Add, k.Toggle, k.Delete, k.Filter, k.Focus, k.Quit)
}

func nextFilter(cur string) string {
	for i, f := range statusFilters {
		if f == cur {
			return statusFilters[(i+1)%len(statusFilters)]
		}
	}
	return statusFilters[0]
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
