// Package tui is a terminal reader for one thread, driving a thread view
// session with bubbletea.
package tui

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/studychannel/studychannel/internal/constant"
	"github.com/studychannel/studychannel/internal/render"
	"github.com/studychannel/studychannel/internal/threadview"
)

const requestTimeout = 10 * time.Second

// Messages
type (
	refreshedMsg struct{ err error }
	likedMsg     struct {
		id  string
		err error
	}
	submittedMsg struct{ err error }
)

type state int

const (
	stateLoading state = iota
	stateBrowsing
	stateComposing
)

type Model struct {
	state   state
	session *threadview.Session
	title   string

	view   render.View
	rows   []*render.ViewNode
	cursor int

	input   textinput.Model
	spinner spinner.Model
	width   int
	height  int
}

func NewModel(session *threadview.Session, title string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	in := textinput.New()
	in.Placeholder = "返信を入力"
	in.CharLimit = constant.MAX_COMMENT_LENGTH

	return Model{
		state:   stateLoading,
		session: session,
		title:   title,
		input:   in,
		spinner: s,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh)
}

func (m Model) refresh() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	return refreshedMsg{err: m.session.Refresh(ctx)}
}

func (m Model) like(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		return likedMsg{id: id, err: m.session.Like(ctx, id)}
	}
}

func (m Model) submit(content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		_, err := m.session.SubmitReply(ctx, content, nil)
		return submittedMsg{err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.state == stateComposing {
			return m.updateComposing(msg)
		}
		if m.state == stateBrowsing {
			return m.updateBrowsing(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case refreshedMsg:
		m.state = stateBrowsing
		m.sync()
		return m, nil

	case likedMsg, submittedMsg:
		m.sync()
		return m, nil
	}

	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	current := m.current()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case " ", "enter":
		if current != nil && current.Toggle != nil {
			m.session.ToggleChildren(current.ID)
			m.sync()
		}
	case "r":
		if current != nil {
			m.session.SetReplyTarget(current.ID)
			m.sync()
		}
	case "esc":
		m.session.ResetReplyTarget()
		m.sync()
	case "l":
		if current != nil {
			return m, m.like(current.ID)
		}
	case "c":
		m.state = stateComposing
		m.session.ClearNotice()
		m.input.Reset()
		return m, m.input.Focus()
	case "R":
		return m, m.refresh
	}

	return m, nil
}

func (m Model) updateComposing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateBrowsing
		m.input.Blur()
		return m, nil
	case "enter":
		content := m.input.Value()
		m.state = stateBrowsing
		m.input.Blur()
		return m, m.submit(content)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// sync re-renders the session and rebuilds the visible rows, keeping the
// cursor on the same comment when it is still visible.
func (m *Model) sync() {
	var currentID string
	if c := m.current(); c != nil {
		currentID = c.ID
	}

	m.view = m.session.View()
	m.rows = visibleRows(m.view.Nodes)

	m.cursor = 0
	for i, row := range m.rows {
		if row.ID == currentID {
			m.cursor = i
			break
		}
	}
}

func (m Model) current() *render.ViewNode {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor]
}

func visibleRows(nodes []*render.ViewNode) []*render.ViewNode {
	var rows []*render.ViewNode
	stack := make([]*render.ViewNode, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, nodes[i])
	}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Hidden {
			continue
		}
		rows = append(rows, n)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}

	return rows
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	if m.state == stateLoading {
		b.WriteString(m.spinner.View() + " 読み込み中...\n")
		return b.String()
	}

	if m.view.Empty {
		b.WriteString(metaStyle.Render(m.view.EmptyMessage))
		b.WriteString("\n")
	}

	for i, row := range m.rows {
		line := renderRow(row)
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.view.Banner != nil {
		b.WriteString(bannerStyle.Render(m.view.Banner.Text))
		b.WriteString("\n")
	}

	if m.state == stateComposing {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if notice := m.session.Notice(); notice != "" {
		b.WriteString(noticeStyle.Render(notice))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("j/k: 移動  space: 開閉  r: 返信先  esc: 戻す  l: いいね  c: 書く  R: 更新  q: 終了"))
	return b.String()
}

var moderationLabel = map[render.ModerationKind]string{
	render.ModerationReport:          "通報",
	render.ModerationRequestDeletion: "削除依頼",
}

func renderRow(n *render.ViewNode) string {
	indent := strings.Repeat("  ", n.Depth)

	marker := "  "
	if n.Selected {
		marker = selectedStyle.Render("▶ ")
	}

	header := fmt.Sprintf("%d %s %s", n.Number, authorStyle.Render(n.Author), metaStyle.Render(n.RelTime))
	body := html.UnescapeString(strings.ReplaceAll(n.BodyHTML, "<br>", " "))
	if len(n.Images) > 0 {
		body += metaStyle.Render(fmt.Sprintf(" [画像 %d]", len(n.Images)))
	}

	line := indent + marker + header + "  " + body + "  " + likeStyle.Render(fmt.Sprintf("♥ %d", n.LikeCount))
	line += metaStyle.Render("  " + moderationLabel[n.Moderation])
	if n.Toggle != nil {
		state := "▾"
		if !n.Toggle.Expanded {
			state = "▸"
		}
		line += metaStyle.Render(" " + state + " " + n.Toggle.Label)
	}

	return line
}
