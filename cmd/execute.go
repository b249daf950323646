// Package cmd is the top-level "driver" package: it parses command-line
// arguments, loads the unit manifest, and runs the rendering pipeline over a
// registered front end.
package cmd

import (
	"os"
	"path/filepath"

	"pyrite/depm"
	"pyrite/report"

	"github.com/ComedicChimera/olive"
)

// Version is the current driver version string.
const Version = "0.1.0"

// logLevels maps log level selector values to reporter log levels.
var logLevels = map[string]int{
	"silent":  report.LogLevelSilent,
	"error":   report.LogLevelError,
	"warn":    report.LogLevelWarn,
	"verbose": report.LogLevelVerbose,
}

// frontend is the registered front end, if any.  Embedders register one
// before calling Execute; the stock driver renders pre-built graphs only.
var frontend depm.Frontend

// RegisterFrontend installs the front end the build command parses with.
func RegisterFrontend(f depm.Frontend) {
	frontend = f
}

// Execute is the main entry point for the `pyrite` CLI utility.
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("pyrite", "pyrite is a tool for translating annotated numerical kernels", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false,
		[]string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "render a unit for its configured target", true)
	buildCmd.AddPrimaryArg("unit-path", "the path to the unit directory", true)
	buildCmd.AddStringArg("source", "s", "the path to the source file of the unit", false)

	cli.AddSubcommand("version", "print the pyrite version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.DisplayFatal(err.Error())
		os.Exit(1)
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		if !execBuildCommand(subResult, result.Arguments["loglevel"].(string)) {
			os.Exit(1)
		}
	case "version":
		report.DisplayInfoMessage("Version", Version)
	}
}

// execBuildCommand executes the build subcommand.  It returns false if the
// unit failed to render.
func execBuildCommand(result *olive.ArgParseResult, loglevel string) bool {
	logLevel := logLevels[loglevel]

	// get the primary argument: the unit path
	unitRelPath, _ := result.PrimaryArg()
	unitAbsPath, err := filepath.Abs(unitRelPath)
	if err != nil {
		report.DisplayFatal("unable to resolve unit path: %s", err.Error())
		return false
	}

	// load the unit manifest
	cfg, err := depm.LoadConfig(unitAbsPath)
	if err != nil {
		report.DisplayFatal(err.Error())
		return false
	}

	// resolve the source file of the unit
	srcPath := filepath.Join(unitAbsPath, cfg.Name+".py")
	if srcArgVal, ok := result.Arguments["source"]; ok {
		srcPath = srcArgVal.(string)
		if !filepath.IsAbs(srcPath) {
			srcPath = filepath.Join(unitAbsPath, srcPath)
		}
	}

	unit := depm.NewUnit(srcPath, cfg, logLevel)

	// a stock driver has nothing to build the node graph with
	if frontend == nil {
		report.DisplayFatal("no front end registered; unit `%s` cannot be parsed", cfg.Name)
		return false
	}

	if !frontend.Parse(unit) {
		return false
	}

	out, ok := unit.Compile()
	if !ok {
		return false
	}

	if err := unit.WriteOutput(out); err != nil {
		report.DisplayFatal("unable to write output for unit `%s`: %s", cfg.Name, err.Error())
		return false
	}

	if logLevel >= report.LogLevelVerbose {
		report.DisplayInfoMessage("Done", cfg.OutputPath)
	}

	return true
}
