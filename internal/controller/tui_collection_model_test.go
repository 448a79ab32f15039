package controller

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func TestAnimateScroll_Edges(t *testing.T) {
	if got := animateScroll("hello", 0, 0); got != "" {
		t.Fatalf("animateScroll width 0 = %q, want empty", got)
	}

	if got := animateScroll("hi", 5, 0); got != "hi" {
		t.Fatalf("animateScroll short text = %q, want hi", got)
	}

	if got := animateScroll("abcdef", 3, 0); got != "ab…" {
		t.Fatalf("animateScroll pause = %q, want ab…", got)
	}

	got := animateScroll("abcdef", 3, 10)
	if got == "ab…" || len([]rune(got)) != 3 {
		t.Fatalf("animateScroll scrolled = %q, want len 3 and not truncated", got)
	}
}

func TestTruncateToWidth(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"hello", 0, ""},
		{"hello", 10, "hello"},
		{"hello", 1, "…"},
		{"hello", 2, "h…"},
	}

	for _, tt := range tests {
		if got := truncateToWidth(tt.text, tt.width); got != tt.want {
			t.Fatalf("truncateToWidth(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestCollectionItem_FilterValue(t *testing.T) {
	item := collectionItem{label: "a.ipynb::Cell1::test_x", kind: kindTest}
	if got := item.FilterValue(); !strings.Contains(got, "test_x") || !strings.Contains(got, kindTest) {
		t.Fatalf("FilterValue() = %q", got)
	}
}

func TestCollectionModel_HandleCollectionMsgAndView(t *testing.T) {
	model := newCollectionModel()
	if got := model.View(); got != "Collecting notebooks…\n" {
		t.Fatalf("View() before render = %q", got)
	}

	model = model.handleCollectionMsg(newCollectionMsg(sampleResults()))
	if !model.rendered || model.notebooks != 2 || len(model.items) != 4 {
		t.Fatalf("handleCollectionMsg did not set state")
	}

	if model.lastSelected != 0 {
		t.Fatalf("lastSelected = %d, want 0", model.lastSelected)
	}

	model.width = 100
	model.height = 25

	view := model.View()
	for _, want := range []string{"ipynb2 Collection", "Notebooks:", "test_add", "q quit"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q\n%s", want, view)
		}
	}

	if got := model.countKind(kindTest); got != 2 {
		t.Fatalf("countKind(test) = %d, want 2", got)
	}
}

func TestCollectionModel_Update(t *testing.T) {
	model := newCollectionModel()

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	model = updated.(collectionModel)

	if model.width != 90 || model.height != 30 {
		t.Fatalf("window size not applied: %dx%d", model.width, model.height)
	}

	updated, cmd := model.Update(tickMsg(time.Now()))
	model = updated.(collectionModel)

	if cmd != nil || model.animOffset != 0 {
		t.Fatalf("tick before render should be ignored")
	}

	updated, _ = model.Update(newCollectionMsg(sampleResults()))
	model = updated.(collectionModel)

	updated, cmd = model.Update(tickMsg(time.Now()))
	model = updated.(collectionModel)

	if cmd == nil || model.animOffset != 1 {
		t.Fatalf("tick after render should advance animation")
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model = updated.(collectionModel)

	if model.itemList.Index() != 1 || model.lastSelected != 1 || model.animOffset != 0 {
		t.Fatalf("selection change should reset animation, index=%d offset=%d", model.itemList.Index(), model.animOffset)
	}

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}

	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
}

func TestCollectionDelegate_Render(t *testing.T) {
	model := newCollectionModel()
	model = model.handleCollectionMsg(newCollectionMsg(sampleResults()))
	model.itemList.SetWidth(80)

	var buf bytes.Buffer

	model.delegate.Render(&buf, model.itemList, 0, model.itemList.Items()[0])
	if !strings.Contains(buf.String(), "test_add") {
		t.Fatalf("Render(selected) = %q", buf.String())
	}

	buf.Reset()
	model.delegate.Render(&buf, model.itemList, 3, model.itemList.Items()[3])

	if !strings.Contains(buf.String(), "broken.ipynb") || !strings.Contains(buf.String(), kindError) {
		t.Fatalf("Render(error) = %q", buf.String())
	}

	buf.Reset()
	model.delegate.Render(&buf, model.itemList, 0, cellRun{})

	if buf.Len() != 0 {
		t.Fatalf("Render(foreign item) wrote %q", buf.String())
	}

	if model.itemList.FilterState() != list.Unfiltered {
		t.Fatal("list should start unfiltered")
	}
}
