// Package ui renders CLI output: highlighted SQL, result tables, boxes and
// markdown.
package ui

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
	"github.com/satishbabariya/sqlphrase/internal/core/procedure"
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle   = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(SecondaryColor)

	keywordColor     = color.New(color.FgCyan, color.Bold)
	placeholderColor = color.New(color.FgYellow)
	argsColor        = color.New(color.FgHiBlack)
)

var (
	keywordPattern     = regexp.MustCompile(`\b(?:SELECT|DISTINCT|FROM|WHERE|AND|OR|NOT|IN|IS|NULL|LIKE|ILIKE|BINARY|REGEXP|BETWEEN|ESCAPE|JOIN|INNER|LEFT|RIGHT|FULL|OUTER|CROSS|ON|AS|GROUP|BY|ORDER|ASC|DESC|LIMIT|OFFSET|INSERT|INTO|VALUES|DEFAULT|RETURNING|UPDATE|SET|DELETE|CREATE|ALTER|DROP|RENAME|TO|TABLE|INDEX|UNIQUE|PRIMARY|KEY|FOREIGN|REFERENCES|CASCADE|RESTRICT|COLUMN|ADD|IF|EXISTS|BEGIN|COMMIT|ROLLBACK|SAVEPOINT|RELEASE|PRAGMA)\b`)
	placeholderPattern = regexp.MustCompile(`\$\d+|\?`)
)

// Highlight colors SQL keywords and placeholders. Quoted identifiers and
// string literals are left alone.
func Highlight(sql string) string {
	if color.NoColor {
		return sql
	}
	var b strings.Builder
	for i, segment := range splitQuoted(sql) {
		if i%2 == 1 {
			b.WriteString(segment)
			continue
		}
		segment = keywordPattern.ReplaceAllStringFunc(segment, func(s string) string { return keywordColor.Sprint(s) })
		segment = placeholderPattern.ReplaceAllStringFunc(segment, func(s string) string { return placeholderColor.Sprint(s) })
		b.WriteString(segment)
	}
	return b.String()
}

// splitQuoted splits sql into segments alternating between unquoted and
// quoted text, starting with an unquoted one.
func splitQuoted(sql string) []string {
	var segments []string
	start := 0
	var quote byte
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case quote == 0 && (c == '\'' || c == '"' || c == '`'):
			segments = append(segments, sql[start:i])
			start, quote = i, c
		case quote != 0 && c == quote:
			segments = append(segments, sql[start:i+1])
			start, quote = i+1, 0
		}
	}
	// an unterminated quote leaves the tail at an odd index
	return append(segments, sql[start:])
}

// Printer writes CLI output to one destination.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a printer writing to out, or stdout when out is nil.
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out}
}

// Statement prints the SQL of stmt and, when present, its args.
func (p *Printer) Statement(stmt fragment.Statement) {
	fmt.Fprintln(p.out, Highlight(stmt.SQL))
	if len(stmt.Args) > 0 {
		fmt.Fprintln(p.out, argsColor.Sprintf("-- args: %v", stmt.Args))
	}
}

// Header prints a boxed title with a subtitle.
func (p *Printer) Header(title, subtitle string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(title), MutedStyle.Render(subtitle)))
	fmt.Fprintln(p.out, box)
}

// Success prints a success message
func (p *Printer) Success(format string, args ...interface{}) {
	fmt.Fprintln(p.out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func (p *Printer) Warning(format string, args ...interface{}) {
	fmt.Fprintln(p.out, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// Error prints an error message
func (p *Printer) Error(format string, args ...interface{}) {
	fmt.Fprintln(p.out, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// Rows prints rows as a table with columns in name order.
func (p *Printer) Rows(rows []procedure.Row) error {
	if len(rows) == 0 {
		fmt.Fprintln(p.out, MutedStyle.Render("(no rows)"))
		return nil
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(Table(rows)).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out, out)
	return nil
}

// Table converts rows to table data with a header row. Columns are the
// union of the row keys in name order; NULL prints as NULL.
func Table(rows []procedure.Row) pterm.TableData {
	seen := make(map[string]bool)
	var header []string
	for _, row := range rows {
		for col := range row {
			if !seen[col] {
				seen[col] = true
				header = append(header, col)
			}
		}
	}
	sort.Strings(header)

	data := pterm.TableData{header}
	for _, row := range rows {
		line := make([]string, len(header))
		for i, col := range header {
			if row.IsNull(col) {
				line[i] = "NULL"
				continue
			}
			line[i] = row.String(col)
		}
		data = append(data, line)
	}
	return data
}

// Markdown renders markdown for the terminal.
func (p *Printer) Markdown(content string) error {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	out, err := r.Render(content)
	if err != nil {
		return err
	}
	fmt.Fprint(p.out, out)
	return nil
}

// Confirm asks a yes/no question on the terminal.
func Confirm(message string) (bool, error) {
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: message}, &ok); err != nil {
		return false, err
	}
	return ok, nil
}
