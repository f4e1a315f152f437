// Copyright 2026 The Wechaty Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yuk320/wechaty/lib/ref"
	"github.com/yuk320/wechaty/room"
)

// eventBuffer is the capacity of the provider-event → bubbletea
// bridge channel.
const eventBuffer = 64

// sendTimeout bounds each outgoing SayText call.
const sendTimeout = 5 * time.Second

// roomListWidth is the fixed width of the left pane.
const roomListWidth = 24

// timelineMsg appends one rendered line to a room's timeline.
type timelineMsg struct {
	roomID ref.RoomID
	line   string
}

// retitleMsg updates a room's title in the list pane after a topic
// change.
type retitleMsg struct {
	roomID ref.RoomID
	title  string
}

// sendResultMsg reports an asynchronous SayText completing.
type sendResultMsg struct {
	err error
}

// roomEntry pairs a room handle with its display title.
type roomEntry struct {
	room  *room.Room
	title string
}

// KeyMap defines the console's key bindings.
type KeyMap struct {
	NextRoom     key.Binding
	PreviousRoom key.Binding
	Send         key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	Quit         key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	NextRoom: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next room"),
	),
	PreviousRoom: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-Tab", "previous room"),
	),
	Send: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "send"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "scroll down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("C-c", "quit"),
	),
}

var (
	listStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	timelineStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	activeRoomStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	titleStyle      = lipgloss.NewStyle().Bold(true)
	promptStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("105"))
	statusStyle     = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// model is the console's bubbletea model: a room list, the active
// room's timeline in a viewport, and a single-line message input.
type model struct {
	rooms     []roomEntry
	active    int
	timelines map[ref.RoomID][]string

	events <-chan tea.Msg

	keys     KeyMap
	input    textinput.Model
	viewport viewport.Model

	width  int
	height int
	sized  bool

	status    string
	statusErr bool
}

func newModel(rooms []roomEntry, events <-chan tea.Msg) model {
	input := textinput.New()
	input.Prompt = "> "
	input.PromptStyle = promptStyle
	input.Placeholder = "message"
	input.Focus()
	return model{
		rooms:     rooms,
		timelines: make(map[ref.RoomID][]string),
		events:    events,
		keys:      DefaultKeyMap,
		input:     input,
	}
}

// Init implements tea.Model: arm the provider event listener and the
// input cursor.
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, listenForEvent(m.events))
}

// listenForEvent blocks until the bridge channel delivers a message,
// then hands it to the update loop. Re-armed after every delivery.
func listenForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		message, ok := <-events
		if !ok {
			return nil
		}
		return message
	}
}

// Update implements tea.Model.
func (m model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return m.handleKey(message)

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.sized = true
		m.layout()
		return m, nil

	case timelineMsg:
		m.appendLine(message.roomID, message.line)
		return m, listenForEvent(m.events)

	case retitleMsg:
		for i := range m.rooms {
			if m.rooms[i].room.ID() == message.roomID {
				m.rooms[i].title = message.title
			}
		}
		return m, listenForEvent(m.events)

	case sendResultMsg:
		if message.err != nil {
			m.status = fmt.Sprintf("send failed: %v", message.err)
			m.statusErr = true
		} else {
			m.status = "sent"
			m.statusErr = false
		}
		return m, nil
	}

	// Everything else (cursor blink ticks in particular) belongs to
	// the text input.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(message)
	return m, cmd
}

func (m model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(message, m.keys.NextRoom):
		m.active = (m.active + 1) % len(m.rooms)
		m.syncTimeline()
		return m, nil

	case key.Matches(message, m.keys.PreviousRoom):
		m.active = (m.active - 1 + len(m.rooms)) % len(m.rooms)
		m.syncTimeline()
		return m, nil

	case key.Matches(message, m.keys.ScrollUp):
		m.viewport.SetYOffset(m.viewport.YOffset - 3)
		return m, nil

	case key.Matches(message, m.keys.ScrollDown):
		m.viewport.SetYOffset(m.viewport.YOffset + 3)
		return m, nil

	case key.Matches(message, m.keys.Send):
		body := strings.TrimSpace(m.input.Value())
		if body == "" {
			return m, nil
		}
		m.input.Reset()
		entry := m.rooms[m.active]
		m.appendLine(entry.room.ID(), chatLine(time.Now(), "me", body))
		return m, sendText(entry.room, body)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(message)
	return m, cmd
}

// sendText routes the input line through the active room. The
// provider call runs off the render loop.
func sendText(r *room.Room, body string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		return sendResultMsg{err: r.SayText(ctx, body)}
	}
}

func (m *model) appendLine(roomID ref.RoomID, line string) {
	m.timelines[roomID] = append(m.timelines[roomID], line)
	if m.rooms[m.active].room.ID() == roomID {
		m.syncTimeline()
	}
}

// syncTimeline rewrites the viewport with the active room's lines and
// pins the view to the newest message.
func (m *model) syncTimeline() {
	if !m.sized {
		return
	}
	lines := m.timelines[m.rooms[m.active].room.ID()]
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

// layout distributes the window between the panes: room list fixed
// width, timeline takes the rest, one input row and one status row at
// the bottom.
func (m *model) layout() {
	contentHeight := m.height - 4
	if contentHeight < 1 {
		contentHeight = 1
	}
	timelineWidth := m.width - roomListWidth - 6
	if timelineWidth < 10 {
		timelineWidth = 10
	}
	m.viewport.Width = timelineWidth
	m.viewport.Height = contentHeight
	m.input.Width = m.width - 6
	m.syncTimeline()
}

// View implements tea.Model.
func (m model) View() string {
	if !m.sized {
		return "loading..."
	}

	var list strings.Builder
	list.WriteString(titleStyle.Render("rooms"))
	list.WriteString("\n\n")
	for i, entry := range m.rooms {
		if i == m.active {
			list.WriteString(activeRoomStyle.Render("> " + entry.title))
		} else {
			list.WriteString("  " + entry.title)
		}
		list.WriteString("\n")
	}

	left := listStyle.
		Width(roomListWidth).
		Height(m.viewport.Height).
		Render(list.String())
	right := timelineStyle.
		Width(m.viewport.Width + 2).
		Height(m.viewport.Height).
		Render(titleStyle.Render(m.rooms[m.active].title) + "\n" + m.viewport.View())

	status := m.status
	if m.statusErr {
		status = errorStyle.Render(status)
	} else {
		status = statusStyle.Render(status)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		m.input.View(),
		status,
	)
}
