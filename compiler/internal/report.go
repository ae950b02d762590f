package internal

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorReset  = "\x1b[0m"
)

type Diagnostic struct {
	Pass     string `yaml:"pass"`
	Severity string `yaml:"severity"`
	Line     int    `yaml:"line"`
	Message  string `yaml:"message"`
	Name     string `yaml:"name,omitempty"`
	Source   string `yaml:"source,omitempty"`
}

// Report is the printable result of one analysis run.
type Report struct {
	RunID       string       `yaml:"run_id"`
	Program     string       `yaml:"program"`
	Errors      int          `yaml:"errors"`
	Warnings    int          `yaml:"warnings"`
	Skipped     []string     `yaml:"skipped,omitempty"`
	Diagnostics []Diagnostic `yaml:"diagnostics"`
}

// NewReport flattens analysis into a report. source holds the program lines, used to echo the offending line.
func NewReport(analysis *Analysis, source []string, cfg *Config) *Report {
	report := &Report{
		RunID:   uuid.NewString(),
		Program: analysis.Program.Name,
		Skipped: analysis.Skipped,
	}
	add := func(pass string, errs ...*SemanticError) {
		for _, e := range errs {
			if e == nil {
				continue
			}
			if e.IsWarning() {
				report.Warnings++
				if !cfg.Warnings {
					continue
				}
			} else {
				report.Errors++
			}
			d := Diagnostic{Pass: pass, Severity: e.Severity.String(), Line: e.Line, Message: e.Message, Name: e.Name}
			if cfg.EchoSource && e.Line >= 1 && e.Line <= len(source) {
				d.Source = source[e.Line-1]
			}
			report.Diagnostics = append(report.Diagnostics, d)
		}
	}
	add(passSymbolTable, analysis.BuilderErrors...)
	add(passScope, analysis.ScopeErrors...)
	add(passType, analysis.TypeErrors...)
	add(passEntryPoint, analysis.EntryPointError)
	add(passContext, analysis.ContextErrors...)
	return report
}

func (report *Report) HasErrors() bool {
	return report.Errors > 0
}

func (report *Report) Write(w io.Writer, cfg *Config) error {
	if cfg.Format == FormatYAML {
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return err
		}
		return encoder.Close()
	}
	return report.writeText(w, useColor(cfg.Color, w))
}

func (report *Report) writeText(w io.Writer, color bool) error {
	for _, d := range report.Diagnostics {
		header := fmt.Sprintf("semantic %s at line %d", d.Severity, d.Line)
		if color {
			c := colorRed
			if d.Severity == SeverityWarning.String() {
				c = colorYellow
			}
			header = c + header + colorReset
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", header, d.Message); err != nil {
			return err
		}
		if d.Source != "" {
			if _, err := fmt.Fprintf(w, "Line %d: %s\n", d.Line, d.Source); err != nil {
				return err
			}
		}
	}
	for _, pass := range report.Skipped {
		if _, err := fmt.Fprintf(w, "skipped %s pass\n", pass); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s: %d error(s), %d warning(s)\n", report.Program, report.Errors, report.Warnings)
	return err
}

// useColor decides whether the text report is coloured. In auto mode only terminals get colours.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
