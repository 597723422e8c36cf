// Package ui is the interactive dashboard: pick a category, run the
// stopwatch, save the session and attach a memo.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tomokot1225-ops/sagyo-mania/pkg/model"
	"github.com/tomokot1225-ops/sagyo-mania/pkg/registry"
	"github.com/tomokot1225-ops/sagyo-mania/pkg/store"
	"github.com/tomokot1225-ops/sagyo-mania/pkg/timer"
)

type screen int

const (
	screenCategories screen = iota
	screenSubs
	screenRunning
	screenMemo
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#4B7DC3")).
			Padding(0, 1)

	timerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#04B575"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7DC6F"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4B7DC3")).
			Padding(1, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	cursorGlyph = "> "
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the dashboard program state. It owns the timer session; nothing
// else mutates it.
type Model struct {
	st      *store.Store
	reg     *registry.Registry
	session *timer.Session

	screen   screen
	cats     []model.Category
	cursor   int
	selected model.Category
	memo     textinput.Model
	savedID  int64

	status string
	errMsg string
	width  int
}

// NewModel builds the dashboard over an open store and registry.
func NewModel(st *store.Store, reg *registry.Registry) Model {
	memo := textinput.New()
	memo.Placeholder = "何を行いましたか？"
	memo.CharLimit = 200

	return Model{
		st:      st,
		reg:     reg,
		session: timer.New(nil),
		cats:    reg.Categories(),
		memo:    memo,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		if m.session.Running() {
			return m, tickCmd()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case screenCategories:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.cats)-1 {
				m.cursor++
			}
		case "enter", " ":
			m.selected = m.cats[m.cursor]
			m.cursor = 0
			m.screen = screenSubs
		}

	case screenSubs:
		subs := m.selected.Subs
		switch msg.String() {
		case "q", "esc":
			m.screen = screenCategories
			m.cursor = 0
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(subs)-1 {
				m.cursor++
			}
		case "enter", " ":
			sub := model.Unclassified
			if len(subs) > 0 {
				sub = subs[m.cursor]
			}
			m.session.Start(m.selected.Name, sub)
			m.errMsg = ""
			m.status = ""
			m.screen = screenRunning
			return m, tickCmd()
		}

	case screenRunning:
		switch msg.String() {
		case "enter", " ", "s":
			return m.stopAndSave()
		case "c":
			m.session.Cancel()
			m.status = "計測を破棄しました。"
			m.screen = screenCategories
			m.cursor = 0
		}

	case screenMemo:
		switch msg.String() {
		case "enter":
			if memo := m.memo.Value(); memo != "" {
				if err := m.st.UpdateMemo(m.savedID, memo); err != nil {
					m.errMsg = fmt.Sprintf("メモ保存エラー: %v", err)
				}
			}
			m.memo.Reset()
			m.memo.Blur()
			m.status = "保存しました。"
			m.screen = screenCategories
			m.cursor = 0
		case "esc":
			// The entry is already saved; abandoning the prompt only
			// leaves the memo empty.
			m.memo.Reset()
			m.memo.Blur()
			m.status = "保存しました（メモなし）。"
			m.screen = screenCategories
			m.cursor = 0
		default:
			var cmd tea.Cmd
			m.memo, cmd = m.memo.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// stopAndSave is the two-phase save: append with an empty memo first so the
// duration is durable, then prompt for the memo and patch it in.
func (m Model) stopAndSave() (tea.Model, tea.Cmd) {
	candidate := m.session.Stop()
	id, err := m.st.Append(candidate)
	if err != nil {
		m.errMsg = fmt.Sprintf("保存エラー: %v", err)
		m.screen = screenCategories
		m.cursor = 0
		return m, nil
	}
	m.savedID = id
	m.memo.Focus()
	m.screen = screenMemo
	return m, textinput.Blink
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("⏱  作業マニア"))
	b.WriteString("\n\n")

	switch m.screen {
	case screenCategories:
		b.WriteString("カテゴリーを選択:\n\n")
		for i, cat := range m.cats {
			cursor := "  "
			if i == m.cursor {
				cursor = cursorGlyph
			}
			bullet := lipgloss.NewStyle().Foreground(lipgloss.Color(cat.Color)).Render("●")
			b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, bullet, cat.Name))
		}
		b.WriteString("\n" + helpStyle.Render("↑/↓ 移動 • enter 選択 • q 終了"))

	case screenSubs:
		b.WriteString(fmt.Sprintf("%s の小カテゴリー:\n\n", m.selected.Name))
		if len(m.selected.Subs) == 0 {
			b.WriteString(fmt.Sprintf("%s%s\n", cursorGlyph, model.Unclassified))
		}
		for i, sub := range m.selected.Subs {
			cursor := "  "
			if i == m.cursor {
				cursor = cursorGlyph
			}
			b.WriteString(fmt.Sprintf("%s%s\n", cursor, sub))
		}
		b.WriteString("\n" + helpStyle.Render("enter 計測開始 • esc 戻る"))

	case screenRunning:
		category, subCategory := m.session.Category()
		elapsed := formatElapsed(m.session.Observe())
		b.WriteString(boxStyle.Render(fmt.Sprintf(
			"計測中: %s / %s\n\n%s",
			category, subCategory,
			timerStyle.Render(elapsed),
		)))
		b.WriteString("\n\n" + helpStyle.Render("enter 終了して保存 • c 破棄"))

	case screenMemo:
		b.WriteString("内容（メモ）:\n\n")
		b.WriteString(m.memo.View())
		b.WriteString("\n\n" + helpStyle.Render("enter 保存 • esc メモなしで閉じる"))
	}

	if m.errMsg != "" {
		b.WriteString("\n\n" + errorStyle.Render(m.errMsg))
	} else if m.status != "" {
		b.WriteString("\n\n" + statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}

func formatElapsed(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// Run starts the dashboard program.
func Run(st *store.Store, reg *registry.Registry) error {
	p := tea.NewProgram(NewModel(st, reg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
