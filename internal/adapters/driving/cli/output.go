package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
)

// printer writes command output, styled only when stdout is a terminal.
type printer struct {
	out    io.Writer
	styled bool

	title lipgloss.Style
	label lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
	muted lipgloss.Style
}

func newPrinter(out io.Writer) *printer {
	p := &printer{out: out}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.styled = true
	}

	p.title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	p.label = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")).Width(10)
	p.ok = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	p.warn = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
	p.fail = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	p.muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	return p
}

func (p *printer) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

func (p *printer) Title(text string) {
	fmt.Fprintln(p.out, p.render(p.title, text))
}

func (p *printer) Field(label, value string) {
	if !p.styled {
		fmt.Fprintf(p.out, "  %-10s%s\n", label+":", value)
		return
	}
	fmt.Fprintf(p.out, "  %s%s\n", p.label.Render(label+":"), value)
}

func (p *printer) OK(format string, args ...any) {
	fmt.Fprintln(p.out, p.render(p.ok, fmt.Sprintf(format, args...)))
}

func (p *printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.out, p.render(p.warn, fmt.Sprintf(format, args...)))
}

func (p *printer) Fail(format string, args ...any) {
	fmt.Fprintln(p.out, p.render(p.fail, fmt.Sprintf(format, args...)))
}

func (p *printer) Muted(format string, args ...any) {
	fmt.Fprintln(p.out, p.render(p.muted, fmt.Sprintf(format, args...)))
}

// Table prints rows under headers.
func (p *printer) Table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	if p.styled {
		t = t.BorderStyle(p.muted).StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	}
	fmt.Fprintln(p.out, t.String())
}

// Report prints the summary of one generated report.
func (p *printer) Report(r *domain.GeneratedReport) {
	p.OK("Rendered %s (%s)", r.ReportName, r.ReportType)
	p.Field("Run", r.RunID)
	p.Field("Score", fmt.Sprintf("%.0f (%s)", r.HealthScore, r.HealthBand))
	p.Field("Document", r.DocumentPath)
	p.Field("Metadata", r.MetadataPath)
}
