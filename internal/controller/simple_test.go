package controller

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	m "github.com/mouse-blink/ipynb2/internal/model"
	"github.com/spf13/cobra"
)

func TestMain(mainT *testing.M) {
	color.NoColor = true

	os.Exit(mainT.Run())
}

func newSimpleUIForTest() (*SimpleUI, *bytes.Buffer) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	return NewSimpleUI(cmd), &buf
}

func assertContainsAll(t *testing.T, output string, wants ...string) {
	t.Helper()

	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, output)
		}
	}
}

func sampleResults() []m.NotebookResult {
	a := m.CellAddress{Notebook: "nb/a.ipynb", Cell: 3}

	return []m.NotebookResult{
		{
			Path:  "nb/a.ipynb",
			Tests: []m.CellAddress{a},
			Items: []m.TestItem{
				{Address: a, Name: "test_add", Line: 2},
				{Address: a, Name: "TestAdd::test_zero", Line: 6},
			},
			CellErrors: map[int]error{0: errors.New("syntax at line 1")},
		},
		{Path: "nb/broken.ipynb", Err: errors.New("invalid notebook format")},
	}
}

func TestSimpleUI_DisplayCollection_PrintsItemsAndTable(t *testing.T) {
	ui, buf := newSimpleUIForTest()

	if err := ui.DisplayCollection(sampleResults()); err != nil {
		t.Fatalf("DisplayCollection() error = %v", err)
	}

	assertContainsAll(t, buf.String(),
		"nb/a.ipynb::Cell3::test_add",
		"nb/a.ipynb::Cell3::TestAdd::test_zero",
		"TOTAL NOTEBOOKS 2",
		"ERROR nb/broken.ipynb: invalid notebook format",
		"SKIPPED nb/a.ipynb::Cell0: syntax at line 1",
	)
}

func TestSimpleUI_DisplayModule(t *testing.T) {
	ui, buf := newSimpleUIForTest()

	module := m.Module{
		Address: m.CellAddress{Notebook: "a.ipynb", Cell: 1},
		Setup:   []m.Source{m.NewSource("x = 1\n")},
		Test:    m.NewSource("def test_x():\n    assert x == 1"),
	}

	if err := ui.DisplayModule(module); err != nil {
		t.Fatalf("DisplayModule() error = %v", err)
	}

	want := "x = 1\ndef test_x():\n    assert x == 1\n"
	if got := buf.String(); got != want {
		t.Fatalf("DisplayModule() output = %q, want %q", got, want)
	}
}

func TestSimpleUI_DisplayMagics(t *testing.T) {
	ui, buf := newSimpleUIForTest()

	reports := []m.MagicReport{
		{Address: m.CellAddress{Notebook: "a.ipynb", Cell: 0}, Class: m.ClassCode, Lines: []int{1, 3}, Names: []string{"get_ipython"}},
		{Address: m.CellAddress{Notebook: "a.ipynb", Cell: 2}, Class: m.ClassCode},
		{Address: m.CellAddress{Notebook: "bad.ipynb", Cell: -1}, Err: errors.New("boom")},
	}

	if err := ui.DisplayMagics(reports); err != nil {
		t.Fatalf("DisplayMagics() error = %v", err)
	}

	output := buf.String()
	assertContainsAll(t, output, "a.ipynb::Cell0", "1,3", "get_ipython", "ERROR bad.ipynb: boom")

	if strings.Contains(output, "a.ipynb::Cell2") {
		t.Fatalf("cells without magics should be omitted\noutput:\n%s", output)
	}
}

func TestSimpleUI_DisplayExport(t *testing.T) {
	ui, buf := newSimpleUIForTest()

	entries := []m.ExportEntry{
		{File: "test_a_cell3.py", Notebook: "nb/a.ipynb", Cell: 3, LineOffset: 4},
	}

	if err := ui.DisplayExport("out", entries); err != nil {
		t.Fatalf("DisplayExport() error = %v", err)
	}

	assertContainsAll(t, buf.String(), "test_a_cell3.py", "nb/a.ipynb::Cell3", "TOTAL MODULES 1", "Exported to out")
}

func TestSimpleUI_RunFlow(t *testing.T) {
	ui, buf := newSimpleUIForTest()

	if err := ui.Start(WithRunMode()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ui.DisplayConcurrencyInfo(2, 0, 1)
	ui.DisplayUpcomingRuns(2)
	ui.DisplayStartingRun(m.CellAddress{Notebook: "a.ipynb", Cell: 1}, 0)
	ui.DisplayCompletedRun(m.RunResult{Address: m.CellAddress{Notebook: "a.ipynb", Cell: 1}, Status: m.Passed, Output: "1 passed"})
	ui.DisplayCompletedRun(m.RunResult{
		Address: m.CellAddress{Notebook: "a.ipynb", Cell: 3},
		Status:  m.Failed,
		Output:  "FAILED test_a_cell3.py::test_x",
		Err:     errors.New("runner exited with code 1"),
	})
	ui.Wait()
	ui.Close()

	output := buf.String()
	assertContainsAll(t, output,
		"Running with 2 worker(s), shard 0/1",
		"Upcoming test cells: 2",
		"PASSED   a.ipynb::Cell1",
		"FAILED   a.ipynb::Cell3",
		"FAILED test_a_cell3.py::test_x",
		"runner exited with code 1",
		"2 cell(s): passed 1, failed 1, errored 0",
	)

	if strings.Contains(output, "1 passed") {
		t.Fatalf("output of passing cells should not be printed\noutput:\n%s", output)
	}
}

func TestSimpleUI_RunWithoutTests(t *testing.T) {
	ui, buf := newSimpleUIForTest()

	if err := ui.Start(WithRunMode()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ui.DisplayCompletedRun(m.RunResult{
		Address: m.CellAddress{Notebook: "a.ipynb", Cell: 2},
		Status:  m.NoTests,
		Output:  "no tests ran in 0.01s",
		Err:     errors.New("no tests collected from a.ipynb::Cell2"),
	})
	ui.Wait()

	assertContainsAll(t, buf.String(),
		"NO TESTS a.ipynb::Cell2",
		"no tests collected from a.ipynb::Cell2",
		"1 cell(s): passed 0, failed 0, errored 0",
		"1 cell(s) without tests",
	)
}

func TestSimpleUI_WaitInCollectModePrintsNothing(t *testing.T) {
	ui, buf := newSimpleUIForTest()

	if err := ui.Start(WithCollectMode()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ui.Wait()

	if buf.Len() != 0 {
		t.Fatalf("Wait() in collect mode wrote %q", buf.String())
	}
}
