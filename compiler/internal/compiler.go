package internal

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

var logger = log.New(io.Discard, "", 0)

// SetLogOutput routes the progress log of the compiler, it's discarded by default.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Analysis holds everything the semantic passes found for one program.
type Analysis struct {
	Program         *Program
	Tables          *Tables
	BuilderErrors   []*SemanticError
	ScopeErrors     []*SemanticError
	TypeErrors      []*SemanticError
	EntryPointError *SemanticError
	ContextErrors   []*SemanticError
	// Skipped names the passes that didn't run because an earlier one failed.
	Skipped []string
}

// Errors returns every diagnostic in pass order, warnings included.
func (analysis *Analysis) Errors() []*SemanticError {
	var errs []*SemanticError
	errs = append(errs, analysis.BuilderErrors...)
	errs = append(errs, analysis.ScopeErrors...)
	errs = append(errs, analysis.TypeErrors...)
	if analysis.EntryPointError != nil {
		errs = append(errs, analysis.EntryPointError)
	}
	errs = append(errs, analysis.ContextErrors...)
	return errs
}

func (analysis *Analysis) HasErrors() bool {
	return countErrors(analysis.Errors()) > 0
}

const (
	passSymbolTable = "symbol table"
	passScope       = "scope"
	passType        = "type"
	passEntryPoint  = "entry point"
	passContext     = "context"
)

// Analyze runs the semantic passes over program in order. Every pass runs unless stopAtFirstFailingPass
// is set and an earlier pass reported an error.
func Analyze(program *Program, stopAtFirstFailingPass bool) *Analysis {
	analysis := &Analysis{Program: program}
	failed := func(errs []*SemanticError) bool {
		return stopAtFirstFailingPass && countErrors(errs) > 0
	}

	logger.Println("compiler: start building symbol table")
	diagnostics := &Diagnostics{}
	analysis.Tables = BuildSymbolTables(program, diagnostics)
	analysis.BuilderErrors = diagnostics.Errors()
	if failed(analysis.BuilderErrors) {
		analysis.Skipped = []string{passScope, passType, passEntryPoint, passContext}
		return analysis
	}

	logger.Println("compiler: start scope checker")
	diagnostics = &Diagnostics{}
	CheckScopes(program, analysis.Tables, diagnostics)
	analysis.ScopeErrors = diagnostics.Errors()
	if failed(analysis.ScopeErrors) {
		analysis.Skipped = []string{passType, passEntryPoint, passContext}
		return analysis
	}

	logger.Println("compiler: start type checker")
	diagnostics = &Diagnostics{}
	CheckTypes(program, analysis.Tables, diagnostics)
	analysis.TypeErrors = diagnostics.Errors()
	if failed(analysis.TypeErrors) {
		analysis.Skipped = []string{passEntryPoint, passContext}
		return analysis
	}

	logger.Println("compiler: start entry point validation")
	analysis.EntryPointError = ValidateEntryPoint(program)
	if stopAtFirstFailingPass && analysis.EntryPointError != nil {
		analysis.Skipped = []string{passContext}
		return analysis
	}

	logger.Println("compiler: start context validation")
	diagnostics = &Diagnostics{}
	ValidateContext(program, diagnostics)
	analysis.ContextErrors = diagnostics.Errors()
	return analysis
}

// Compile parses the IC file at path, together with the library when cfg names one, analyzes it and writes
// the report to out.
func Compile(path string, cfg *Config, out io.Writer) (*Report, error) {
	logger.Println("compiler: start parser at path: " + path)
	if !isICFile(path) {
		return nil, fmt.Errorf("%s is not an IC file", path)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	parser := &Parser{}
	program, err := parser.ParseProgram(filepath.Base(path), bytes.NewReader(source))
	if err != nil {
		return nil, err
	}
	if cfg.Library != "" {
		logger.Println("compiler: start parser for library: " + cfg.Library)
		library, err := parseLibraryFile(cfg.Library)
		if err != nil {
			return nil, err
		}
		program.Classes = append([]*ClassAst{library}, program.Classes...)
	}
	analysis := Analyze(program, cfg.StopAtFirstFailingPass)
	if cfg.DumpSymtab {
		fmt.Fprintln(out, analysis.Tables.Global.Dump(analysis.Tables.Types))
		fmt.Fprintln(out, analysis.Tables.Types.String())
	}
	report := NewReport(analysis, strings.Split(string(source), "\n"), cfg)
	if err := report.Write(out, cfg); err != nil {
		return nil, err
	}
	return report, nil
}

func parseLibraryFile(path string) (*ClassAst, error) {
	rd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading library %s: %w", path, err)
	}
	defer rd.Close()
	parser := &Parser{}
	return parser.ParseLibrary(rd)
}
