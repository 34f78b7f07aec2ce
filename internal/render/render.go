// Package render draws evaluation results for terminals.
package render

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/vk/gridcalc/internal/api"
	"github.com/vk/gridcalc/internal/celladdr"
)

var (
	colorFail = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	colorMute = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	colorPass = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
)

// IsTerminal reports whether f is attached to a TTY.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ShouldUseColor honours NO_COLOR, CLICOLOR and CLICOLOR_FORCE before
// falling back to TTY detection.
func ShouldUseColor(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	if _, ok := os.LookupEnv("CLICOLOR_FORCE"); ok {
		return true
	}
	return IsTerminal(f)
}

// Table renders resp as a bordered grid with column letters and row
// numbers. Failed cells show their error code.
func Table(w io.Writer, resp *api.EvaluateResponse, color bool) error {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	header := r.NewStyle().Bold(true).Foreground(colorMute).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	failed := cell.Foreground(colorFail)

	cols := 0
	if len(resp.Result) > 0 {
		cols = len(resp.Result[0])
	}
	headers := make([]string, cols+1)
	for c := range cols {
		headers[c+1] = celladdr.ColumnName(c)
	}

	rows := make([][]string, len(resp.Result))
	for i, row := range resp.Result {
		rows[i] = make([]string, cols+1)
		rows[i][0] = strconv.Itoa(i + 1)
		for c := range row {
			rows[i][c+1] = cellText(resp, i, c)
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.NewStyle().Foreground(colorMute)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow || col == 0:
				return header
			case resp.Result[row][col-1] == nil:
				return failed
			}
			return cell
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	return summary(w, r, resp)
}

func cellText(resp *api.EvaluateResponse, row, col int) string {
	if v := resp.Result[row][col]; v != nil {
		return strconv.FormatFloat(*v, 'g', 10, 64)
	}
	if row < len(resp.Errors) && col < len(resp.Errors[row]) && resp.Errors[row][col] != nil {
		return resp.Errors[row][col].Code
	}
	return "#ERR!"
}

func summary(w io.Writer, r *lipgloss.Renderer, resp *api.EvaluateResponse) error {
	if resp.Success {
		_, err := fmt.Fprintln(w, r.NewStyle().Foreground(colorPass).Render("✓ all cells evaluated"))
		return err
	}
	var sb strings.Builder
	sb.WriteString(r.NewStyle().Foreground(colorFail).Bold(true).Render("✗ " + resp.Error))
	sb.WriteByte('\n')
	for _, row := range resp.Errors {
		for _, e := range row {
			if e == nil {
				continue
			}
			fmt.Fprintf(&sb, "  %-4s %-8s %s\n", e.Cell, e.Code, e.Message)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
