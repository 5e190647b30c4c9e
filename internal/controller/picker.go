package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "livesync.dev/pkg/livesync/internal/model"
	"livesync.dev/pkg/livesync/pkg"
)

// ErrSelectionCancelled is returned when the picker is left without confirming.
var ErrSelectionCancelled = errors.New("selection cancelled")

var (
	pickerTitleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	pickerCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	pickerHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// RolloutSelection is the outcome of the interactive picker.
type RolloutSelection struct {
	Targets []string
	Deep    bool
}

type pickerKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	ToggleAll key.Binding
	Deep      key.Binding
	Confirm   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newPickerKeyMap() pickerKeyMap {
	return pickerKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "select")),
		ToggleAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select/unselect all")),
		Deep:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "include subpages")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "roll out")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Confirm, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Toggle, k.ToggleAll, k.Deep},
		{k.Confirm, k.Help, k.Quit},
	}
}

type pickerRow struct {
	item   m.RolloutItem
	parent int // -1 for a live copy of the source itself
	label  string
}

// pickerModel is a checkbox tree of live copies. Checking a live copy also checks the copies
// nested below it and the copies it is nested in; unchecking clears only its own subtree.
type pickerModel struct {
	source    string
	rows      []pickerRow
	checked   []bool
	cursor    int
	deep      bool
	keys      pickerKeyMap
	help      help.Model
	confirmed bool
	quitting  bool
}

func newPickerModel(source string, nodes []m.LiveCopyNode, deep bool, now time.Time) pickerModel {
	labels := make(map[string]string)

	var walk func(nodes []m.LiveCopyNode)
	walk = func(nodes []m.LiveCopyNode) {
		for _, node := range nodes {
			labels[node.Path] = liveCopyLabel(node, now)
			walk(node.LiveCopies)
		}
	}
	walk(nodes)

	items := m.Flatten(nodes)
	index := make(map[string]int, len(items))
	rows := make([]pickerRow, 0, len(items))

	for i, item := range items {
		parent := -1
		if p, ok := index[item.Master]; ok && item.Depth > 0 {
			parent = p
		}

		index[item.Target] = i
		rows = append(rows, pickerRow{item: item, parent: parent, label: labels[item.Target]})
	}

	return pickerModel{
		source:  source,
		rows:    rows,
		checked: make([]bool, len(rows)),
		deep:    deep,
		keys:    newPickerKeyMap(),
		help:    help.New(),
	}
}

// liveCopyLabel is the path of node followed by its state and last synchronization.
func liveCopyLabel(node m.LiveCopyNode, now time.Time) string {
	label := node.Path

	switch {
	case node.IsNew:
		label += " " + newStyle.Render("[new]")
	case node.AutoRolloutTrigger:
		label += " " + autoStyle.Render("[auto]")
	}

	return label + " " + autoStyle.Render(pkg.LastSyncLabel(node.LastSyncedAt, now))
}

func (pm pickerModel) Init() tea.Cmd {
	return nil
}

func (pm pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.help.Width = msg.Width
		return pm, nil

	case tea.KeyMsg:
		return pm.handleKeyPress(msg)
	}

	return pm, nil
}

func (pm pickerModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, pm.keys.Quit):
		pm.quitting = true
		return pm, tea.Quit

	case key.Matches(msg, pm.keys.Confirm):
		if !pm.hasSelection() {
			return pm, nil
		}

		pm.confirmed = true
		pm.quitting = true

		return pm, tea.Quit

	case key.Matches(msg, pm.keys.Up):
		if pm.cursor > 0 {
			pm.cursor--
		}

	case key.Matches(msg, pm.keys.Down):
		if pm.cursor < len(pm.rows)-1 {
			pm.cursor++
		}

	case key.Matches(msg, pm.keys.Toggle):
		pm.toggle(pm.cursor)

	case key.Matches(msg, pm.keys.ToggleAll):
		pm.setAll(!pm.hasSelection())

	case key.Matches(msg, pm.keys.Deep):
		pm.deep = !pm.deep

	case key.Matches(msg, pm.keys.Help):
		pm.help.ShowAll = !pm.help.ShowAll
	}

	return pm, nil
}

func (pm *pickerModel) toggle(i int) {
	if i < 0 || i >= len(pm.rows) {
		return
	}

	pm.checked = slices.Clone(pm.checked)
	value := !pm.checked[i]
	pm.checked[i] = value

	for j := i + 1; j < len(pm.rows) && pm.nestedBelow(j, i); j++ {
		pm.checked[j] = value
	}

	if value {
		for p := pm.rows[i].parent; p >= 0; p = pm.rows[p].parent {
			pm.checked[p] = true
		}
	}
}

func (pm *pickerModel) setAll(value bool) {
	pm.checked = slices.Clone(pm.checked)
	for i := range pm.checked {
		pm.checked[i] = value
	}
}

// nestedBelow reports whether row j is a nested live copy of row i at any depth.
func (pm pickerModel) nestedBelow(j, i int) bool {
	for p := pm.rows[j].parent; p >= 0; p = pm.rows[p].parent {
		if p == i {
			return true
		}
	}

	return false
}

func (pm pickerModel) hasSelection() bool {
	return slices.Contains(pm.checked, true)
}

// selection returns the checked targets in tree order.
func (pm pickerModel) selection() RolloutSelection {
	targets := make([]string, 0, len(pm.rows))
	for i, row := range pm.rows {
		if pm.checked[i] {
			targets = append(targets, row.item.Target)
		}
	}

	return RolloutSelection{Targets: targets, Deep: pm.deep}
}

func (pm pickerModel) View() string {
	if pm.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(pickerTitleStyle.Render("Roll out " + pm.source))
	b.WriteString("\n")

	for i, row := range pm.rows {
		cursor := "  "
		if i == pm.cursor {
			cursor = pickerCursorStyle.Render("> ")
		}

		fmt.Fprintf(&b, "%s%s%s %s\n", cursor, strings.Repeat("  ", row.item.Depth), checkbox(pm.checked[i]), row.label)
	}

	fmt.Fprintf(&b, "\n%s include subpages\n", checkbox(pm.deep))

	if !pm.hasSelection() {
		b.WriteString(pickerHintStyle.Render("Select at least one live copy to roll out"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(pm.help.View(pm.keys))
	b.WriteString("\n")

	return b.String()
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}

	return "[ ]"
}

// PickRolloutTargets lets the user check the live copies to roll out from nodes.
// It returns ErrSelectionCancelled when the picker is left without confirming.
func PickRolloutTargets(ctx context.Context, in io.Reader, out io.Writer, source string, nodes []m.LiveCopyNode, deep bool) (RolloutSelection, error) {
	model := newPickerModel(source, nodes, deep, time.Now())

	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))

	final, err := program.Run()
	if err != nil {
		return RolloutSelection{}, err
	}

	result, ok := final.(pickerModel)
	if !ok || !result.confirmed {
		return RolloutSelection{}, ErrSelectionCancelled
	}

	return result.selection(), nil
}
