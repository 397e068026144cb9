package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"
)

type pickerKind int

const (
	pickLanguage pickerKind = iota + 1
	pickVoice
)

func (k pickerKind) String() string {
	switch k {
	case pickLanguage:
		return "Language"
	case pickVoice:
		return "Voice"
	default:
		return ""
	}
}

// pickerItems implements fuzzy.Source over display labels.
type pickerItems []pickerItem

type pickerItem struct {
	value string
	label string
}

func (p pickerItems) String(i int) string { return p[i].label }
func (p pickerItems) Len() int            { return len(p) }

// picker is a fuzzy finder over languages or voices.
type picker struct {
	kind    pickerKind
	input   textinput.Model
	items   pickerItems
	matches fuzzy.Matches
	cursor  int
}

func newPicker(kind pickerKind, items pickerItems, current string) *picker {
	ti := textinput.New()
	ti.Prompt = "Find: "
	ti.Placeholder = "type to filter"
	ti.CharLimit = 64
	ti.Focus()

	p := &picker{kind: kind, input: ti, items: items}
	p.filter()
	for i, m := range p.matches {
		if p.items[m.Index].value == current {
			p.cursor = i
			break
		}
	}
	return p
}

func (p *picker) filter() {
	term := strings.TrimSpace(p.input.Value())
	if term == "" {
		p.matches = make(fuzzy.Matches, len(p.items))
		for i, it := range p.items {
			p.matches[i] = fuzzy.Match{Str: it.label, Index: i}
		}
	} else {
		p.matches = fuzzy.FindFrom(term, p.items)
	}
	if p.cursor >= len(p.matches) {
		p.cursor = max(len(p.matches)-1, 0)
	}
}

// selected returns the value under the cursor.
func (p *picker) selected() (string, bool) {
	if len(p.matches) == 0 {
		return "", false
	}
	return p.items[p.matches[p.cursor].Index].value, true
}

func (p *picker) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "ctrl+p", "ctrl+k":
		if p.cursor > 0 {
			p.cursor--
		}
		return nil
	case "down", "ctrl+n", "ctrl+j":
		if p.cursor < len(p.matches)-1 {
			p.cursor++
		}
		return nil
	}

	var cmd tea.Cmd
	prev := p.input.Value()
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != prev {
		p.cursor = 0
		p.filter()
	}
	return cmd
}

func (p *picker) view(width, rows int) string {
	var b strings.Builder
	b.WriteString(activeLabelStyle.Render(p.kind.String()))
	b.WriteString(p.input.View())
	b.WriteString("\n\n")

	if len(p.matches) == 0 {
		b.WriteString(subtleStyle.Render("  no matches"))
		return pickerStyle.Render(b.String())
	}

	// keep the cursor in view
	start := 0
	if p.cursor >= rows {
		start = p.cursor - rows + 1
	}
	end := min(start+rows, len(p.matches))

	for i := start; i < end; i++ {
		m := p.matches[i]
		line := highlightMatch(runewidth.Truncate(m.Str, width-4, "…"), m.MatchedIndexes)
		if i == p.cursor {
			b.WriteString(selectedItemStyle.Render("> "))
			b.WriteString(selectedItemStyle.Render(line))
		} else {
			b.WriteString("  " + line)
		}
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	if n := len(p.matches); n > rows {
		b.WriteString(subtleStyle.Render("\n  " + strconv.Itoa(p.cursor+1) + "/" + strconv.Itoa(n)))
	}
	return pickerStyle.Render(b.String())
}

// highlightMatch underlines the matched characters. MatchedIndexes are
// byte offsets into the original label.
func highlightMatch(s string, idx []int) string {
	if len(idx) == 0 {
		return s
	}
	hit := make(map[int]bool, len(idx))
	for _, i := range idx {
		hit[i] = true
	}

	var b strings.Builder
	for i, r := range s {
		if hit[i] {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
