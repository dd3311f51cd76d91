package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/farmdash/internal/client/client"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var (
	activeColor   = color.New(color.FgGreen)
	inactiveColor = color.New(color.FgHiBlack)
	errorColor    = color.New(color.FgRed, color.Bold)
	noticeColor   = color.New(color.FgCyan)
)

func statusLabel(active bool) string {
	if active {
		return activeColor.Sprint("active")
	}
	return inactiveColor.Sprint("inactive")
}

// renderTable writes rows under headers. Columns listed in rightAligned are
// aligned right, the rest left.
func renderTable(w io.Writer, headers []string, rows [][]string, rightAligned ...int) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
		if len(rightAligned) > 0 {
			per := make([]tw.Align, len(headers))
			for i := range per {
				per[i] = tw.AlignLeft
			}
			for _, c := range rightAligned {
				if c >= 0 && c < len(per) {
					per[c] = tw.AlignRight
				}
			}
			cfg.Row.Alignment.PerColumn = per
		}
	})

	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// renderDetail writes label/value pairs as a two-column table.
func renderDetail(w io.Writer, pairs [][2]string) error {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p[0], p[1]})
	}
	return renderTable(w, []string{"Field", "Value"}, rows)
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorText(err))
}

// errorText is the colored line shown for a failed command. Transport
// failures get a hint pointing at the API address.
func errorText(err error) string {
	text := errorColor.Sprint("error: " + client.UserMessage(err))
	if client.IsNetworkError(err) {
		text += "\n" + noticeColor.Sprint("hint: check --api-base-url and your network connection")
	}
	return text
}

func printNotice(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, noticeColor.Sprintf(format, args...))
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
