package ui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// pickerRows is how many items the picker shows at once.
const pickerRows = 8

// PickerItem is one entry shown in the interactive picker.
type PickerItem struct {
	Label    string // token symbol
	SubLabel string // token name, shown dimmed
	Value    string // returned on selection
}

// rank scores how well the item matches filter; -1 is no match.
// Symbol prefix beats symbol substring beats a name match.
func (it PickerItem) rank(filter string) int {
	if filter == "" {
		return 0
	}
	f := strings.ToLower(filter)
	label := strings.ToLower(it.Label)
	switch {
	case strings.HasPrefix(label, f):
		return 0
	case strings.Contains(label, f):
		return 1
	case strings.Contains(strings.ToLower(it.SubLabel), f):
		return 2
	}
	return -1
}

// pickerModel filters as the user types and scrolls a fixed window over
// the matches.
type pickerModel struct {
	title    string
	items    []PickerItem
	filter   string
	cursor   int
	offset   int
	selected *PickerItem
	quitting bool
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) visible() []PickerItem {
	type scored struct {
		item PickerItem
		rank int
	}
	var hits []scored
	for _, it := range m.items {
		if r := it.rank(m.filter); r >= 0 {
			hits = append(hits, scored{it, r})
		}
	}
	slices.SortStableFunc(hits, func(a, b scored) int { return a.rank - b.rank })
	out := make([]PickerItem, len(hits))
	for i, h := range hits {
		out[i] = h.item
	}
	return out
}

func (m *pickerModel) move(delta, n int) {
	m.cursor = max(0, min(m.cursor+delta, n-1))
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+pickerRows {
		m.offset = m.cursor - pickerRows + 1
	}
}

func (m *pickerModel) refilter(f string) {
	m.filter = f
	m.cursor, m.offset = 0, 0
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	vis := m.visible()

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyUp, tea.KeyShiftTab:
		m.move(-1, len(vis))
	case tea.KeyDown, tea.KeyTab:
		m.move(1, len(vis))
	case tea.KeyPgUp:
		m.move(-pickerRows, len(vis))
	case tea.KeyPgDown:
		m.move(pickerRows, len(vis))
	case tea.KeyEnter:
		if len(vis) > 0 {
			item := vis[m.cursor]
			m.selected = &item
			return m, tea.Quit
		}
	case tea.KeyBackspace:
		if r := []rune(m.filter); len(r) > 0 {
			m.refilter(string(r[:len(r)-1]))
		}
	case tea.KeyRunes:
		m.refilter(m.filter + string(key.Runes))
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s\n", StyleTitle.Render("  "+m.title))
	fmt.Fprintf(&sb, "%s%s\n\n", StyleMeta.Render("  search: "), StyleValue.Render(m.filter+"▏"))

	vis := m.visible()
	if len(vis) == 0 {
		sb.WriteString(StyleMeta.Render("    no match") + "\n")
	}
	end := min(m.offset+pickerRows, len(vis))
	for i := m.offset; i < end; i++ {
		item := vis[i]
		line := fmt.Sprintf("%-8s %s", item.Label, StyleMeta.Render(item.SubLabel))
		if i == m.cursor {
			sb.WriteString(StyleSelected.Render("  ▸ "+line) + "\n")
			continue
		}
		sb.WriteString("    " + line + "\n")
	}
	if len(vis) > pickerRows {
		sb.WriteString(StyleMeta.Render(fmt.Sprintf("    %d-%d of %d", m.offset+1, end, len(vis))) + "\n")
	}

	sb.WriteString("\n" + StyleMeta.Render("  type to search · ↑/↓ move · enter select · esc cancel") + "\n")
	return sb.String()
}

// PickItem runs the picker and returns the chosen item's Value, or "" if
// the user cancels. It errors only when the terminal UI fails.
func PickItem(title string, items []PickerItem) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("no items to pick from")
	}

	final, err := tea.NewProgram(pickerModel{title: title, items: items}, tea.WithAltScreen()).Run()
	if err != nil {
		return "", fmt.Errorf("picker: %w", err)
	}
	fm := final.(pickerModel)
	if fm.quitting || fm.selected == nil {
		return "", nil
	}
	return fm.selected.Value, nil
}
