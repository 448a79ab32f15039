package controller

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	m "github.com/mouse-blink/ipynb2/internal/model"
	"github.com/olekukonko/tablewriter"
)

var (
	passedColor  = color.New(color.FgGreen, color.Bold)
	failedColor  = color.New(color.FgRed, color.Bold)
	erroredColor = color.New(color.FgYellow, color.Bold)
	pathColor    = color.New(color.FgCyan)
	faintColor   = color.New(color.Faint)
)

func statusLabel(status m.TestStatus) string {
	label := strings.ToUpper(status.String())

	switch status {
	case m.Passed:
		return passedColor.Sprint(label)
	case m.Failed:
		return failedColor.Sprint(label)
	case m.NoTests:
		return faintColor.Sprint(label)
	default:
		return erroredColor.Sprint(label)
	}
}

func newTable(buf *bytes.Buffer, header []string, alignments ...int) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	if len(alignments) > 0 {
		table.SetColumnAlignment(alignments)
	}

	return table
}

// itemLabel renders a test item the way pytest prints node ids.
func itemLabel(item m.TestItem) string {
	return item.Address.Display() + "::" + item.Name
}

func writeCollection(w io.Writer, results []m.NotebookResult) {
	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"Notebook", "Test cells", "Tests", "Errors"},
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER)

	cells, items, failures := 0, 0, 0

	for _, result := range results {
		for _, item := range result.Items {
			_, _ = fmt.Fprintln(w, itemLabel(item))
		}

		errs := len(result.CellErrors)
		if result.Err != nil {
			errs++
		}

		cells += len(result.Tests)
		items += len(result.Items)
		failures += errs

		table.Append([]string{
			string(result.Path),
			strconv.Itoa(len(result.Tests)),
			strconv.Itoa(len(result.Items)),
			strconv.Itoa(errs),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Notebooks %d", len(results)),
		strconv.Itoa(cells),
		strconv.Itoa(items),
		strconv.Itoa(failures),
	})
	table.Render()

	_, _ = fmt.Fprintf(w, "\n%s", tableBuffer.String())

	writeCollectionErrors(w, results)
}

func writeCollectionErrors(w io.Writer, results []m.NotebookResult) {
	for _, result := range results {
		if result.Err != nil {
			_, _ = fmt.Fprintf(w, "%s %s: %v\n", failedColor.Sprint("ERROR"), pathColor.Sprint(result.Path), result.Err)
		}

		indices := make([]int, 0, len(result.CellErrors))
		for index := range result.CellErrors {
			indices = append(indices, index)
		}

		sort.Ints(indices)

		for _, index := range indices {
			addr := m.CellAddress{Notebook: result.Path, Cell: index}
			_, _ = fmt.Fprintf(w, "%s %s: %v\n", erroredColor.Sprint("SKIPPED"), pathColor.Sprint(addr.Display()), result.CellErrors[index])
		}
	}
}

func writeModule(w io.Writer, module m.Module) {
	text := module.Text()
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	_, _ = io.WriteString(w, text)
}

func writeMagics(w io.Writer, reports []m.MagicReport) {
	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"Cell", "Class", "Lines", "Names"},
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT)

	flagged := 0

	for _, report := range reports {
		if report.Err != nil {
			label := string(report.Address.Notebook)
			if report.Address.Cell >= 0 {
				label = report.Address.Display()
			}

			_, _ = fmt.Fprintf(w, "%s %s: %v\n", failedColor.Sprint("ERROR"), pathColor.Sprint(label), report.Err)

			continue
		}

		if len(report.Lines) == 0 {
			continue
		}

		flagged += len(report.Lines)

		table.Append([]string{
			report.Address.Display(),
			report.Class.String(),
			joinInts(report.Lines),
			strings.Join(report.Names, ", "),
		})
	}

	table.SetFooter([]string{"Flagged lines", "", strconv.Itoa(flagged), ""})
	table.Render()

	_, _ = fmt.Fprintf(w, "\n%s", tableBuffer.String())
}

func writeExport(w io.Writer, dir m.Path, entries []m.ExportEntry) {
	var tableBuffer bytes.Buffer

	table := newTable(&tableBuffer, []string{"Module", "Cell", "Line offset"},
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER)

	for _, entry := range entries {
		addr := m.CellAddress{Notebook: entry.Notebook, Cell: entry.Cell}
		table.Append([]string{string(entry.File), addr.Display(), strconv.Itoa(entry.LineOffset)})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Modules %d", len(entries)), "", ""})
	table.Render()

	_, _ = fmt.Fprintf(w, "\n%s", tableBuffer.String())
	_, _ = fmt.Fprintf(w, "Exported to %s\n", pathColor.Sprint(dir))
}

func writeRunSummary(w io.Writer, results []m.RunResult) {
	counts := make(map[m.TestStatus]int)
	for _, result := range results {
		counts[result.Status]++
	}

	_, _ = fmt.Fprintf(w, "\n%d cell(s): %s %d, %s %d, %s %d\n",
		len(results),
		passedColor.Sprint("passed"), counts[m.Passed],
		failedColor.Sprint("failed"), counts[m.Failed],
		erroredColor.Sprint("errored"), counts[m.Errored],
	)

	if counts[m.NoTests] > 0 {
		_, _ = fmt.Fprintf(w, "%d cell(s) without tests\n", counts[m.NoTests])
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}

	return strings.Join(parts, ",")
}
