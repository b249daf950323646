// Package depm manages compilation units: one source module together with the
// manifest configuration that governs how it is rendered.
package depm

import (
	"os"
	"path/filepath"

	"pyrite/ast"
	"pyrite/codegen"
	"pyrite/generate"
	"pyrite/report"
)

// Unit represents a single compilation unit.  Every pipeline phase that runs
// over the unit reports through the unit's own reporter: nothing about a unit
// is process-global.
type Unit struct {
	// The absolute path of the unit's source file.
	AbsPath string

	// The manifest configuration governing the unit.
	Config *Config

	// The unit's diagnostics collector.
	Reporter *report.Reporter

	// The unit's node graph.
	Graph *ast.Graph

	// The root module of the unit.  Populated by a front end.
	Module *ast.Module
}

// Frontend builds the typed node graph of a unit from its source text.  The
// front end reports through the unit's reporter and returns false if the unit
// cannot proceed to rendering.
type Frontend interface {
	// Name returns the name of the front end for driver messages.
	Name() string

	// Parse populates u.Module and u.Graph from u.AbsPath.
	Parse(u *Unit) bool
}

// NewUnit creates a compilation unit for the given source path and manifest.
func NewUnit(absPath string, cfg *Config, logLevel int) *Unit {
	rep := report.NewReporter(absPath, filepath.Base(absPath), logLevel)

	return &Unit{
		AbsPath:  absPath,
		Config:   cfg,
		Reporter: rep,
		Graph:    ast.NewGraph(ast.StageSemantic, rep),
	}
}

// Compile renders the unit for the target named by its manifest.  A fatal
// diagnostic anywhere in rendering unwinds to this boundary: the text
// produced so far is discarded and ok is false.
func (u *Unit) Compile() (out string, ok bool) {
	func() {
		defer u.Reporter.CatchUnit()

		switch u.Config.Target {
		case TargetPython:
			out = codegen.Print(codegen.TargetPython, u.Module, u.Graph, u.Reporter)
		case TargetC:
			out = codegen.Print(codegen.TargetC, u.Module, u.Graph, u.Reporter)
		case TargetLLVM:
			out = generate.NewGenerator(u.Graph, u.Reporter).Generate(u.Module).String()
		default:
			u.Reporter.ICE("unit configured with unknown target `%s`", u.Config.Target)
		}
	}()

	if !u.Reporter.ShouldProceed() {
		return "", false
	}

	return out, true
}

// WriteOutput writes rendered text to the unit's configured output path.
func (u *Unit) WriteOutput(text string) error {
	if err := os.MkdirAll(filepath.Dir(u.Config.OutputPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(u.Config.OutputPath, []byte(text), 0o644)
}
