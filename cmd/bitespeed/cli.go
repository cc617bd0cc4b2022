package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Apoorv-2711/bitespeed/internal/config"
	"github.com/Apoorv-2711/bitespeed/internal/core/flow"
	"github.com/Apoorv-2711/bitespeed/internal/infrastructure/logging"
	"github.com/Apoorv-2711/bitespeed/internal/infrastructure/metrics"
	"github.com/Apoorv-2711/bitespeed/pkg/serialization"
	"github.com/Apoorv-2711/bitespeed/pkg/validation"
)

// Exit codes
const (
	exitFailure = 1
	exitUsage   = 2
)

// ExitError is an error carrying the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...interface{}) error {
	return &ExitError{Code: exitUsage, Message: fmt.Sprintf(format, args...)}
}

func failure(format string, args ...interface{}) error {
	return &ExitError{Code: exitFailure, Message: fmt.Sprintf(format, args...)}
}

const usage = `bitespeed - check chatbot flow documents

Usage:
  bitespeed <command> [options] [FILE]

Commands:
  validate   Run the save checks over a flow document
  cycles     Report whether a flow document contains a cycle
  connect    Ask whether a new edge may be drawn in a flow document
  convert    Re-encode a flow document (json, yaml, msgpack; .gz or .zst)
  types      List the available node types
  version    Print version information

FILE formats are chosen by extension: .json .yaml .yml .msgpack, optionally
followed by .gz or .zst.
`

// command is one subcommand; it receives the remaining arguments.
type command func(out io.Writer, args []string, logger *zap.Logger) error

var commands = map[string]command{
	"validate": runValidate,
	"cycles":   runCycles,
	"connect":  runConnect,
	"convert":  runConvert,
	"types":    runTypes,
}

// run encapsulates the CLI logic for easier testing and error handling.
func run(out io.Writer, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprint(out, usage)
		return nil
	}
	if args[0] == "version" {
		fmt.Fprintf(out, "bitespeed %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		return usageError("unknown command %q\n\n%s", args[0], usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return usageError("%v", err)
	}
	logger, err := logging.New(cfg)
	if err != nil {
		return usageError("%v", err)
	}
	defer func() { _ = logger.Sync() }()

	return cmd(out, args[1:], logger.Named(args[0]))
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// parse parses args and returns the single FILE argument.
func parse(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return "", &ExitError{Code: 0}
		}
		return "", usageError("%v", err)
	}
	if fs.NArg() != 1 {
		return "", usageError("%s: expected exactly one FILE argument", fs.Name())
	}
	return fs.Arg(0), nil
}

// loadFlow reads and structurally checks a flow document.
func loadFlow(path string, logger *zap.Logger) (*flow.Graph, error) {
	g, err := readFlow(path, logger)
	if err != nil {
		return nil, err
	}
	if err := checkDocument(nil, path, g); err != nil {
		return nil, err
	}
	return g, nil
}

// readFlow decodes a flow document using the encoding its name selects.
func readFlow(path string, logger *zap.Logger) (*flow.Graph, error) {
	s, err := serialization.ForPath(path)
	if err != nil {
		return nil, usageError("%v", err)
	}

	var g flow.Graph
	if err := s.ReadFile(path, &g); err != nil {
		return nil, failure("%v", err)
	}
	logger.Debug("flow document read",
		zap.String("path", path),
		zap.String("encoding", s.Name()),
		zap.Int("node_count", len(g.Nodes)),
		zap.Int("edge_count", len(g.Edges)))
	return &g, nil
}

// checkDocument runs the structural checks. With a non-nil jsonOut the
// field errors are written there as JSON instead of into the exit message.
func checkDocument(jsonOut io.Writer, path string, g *flow.Graph) error {
	err := validation.ValidateDocument(g, nil)
	if err == nil {
		return nil
	}

	var verrs validation.ValidationErrors
	if !errors.As(err, &verrs) {
		return failure("%s: %v", path, err)
	}
	if jsonOut != nil {
		data, merr := validation.MarshalValidationErrors(verrs)
		if merr != nil {
			return failure("%s: %v", path, merr)
		}
		fmt.Fprintln(jsonOut, string(data))
		return &ExitError{Code: exitFailure}
	}
	return failure("%s: malformed flow document:\n  %s", path, strings.Join(verrs.Messages(), "\n  "))
}

func runValidate(out io.Writer, args []string, logger *zap.Logger) error {
	fs := newFlagSet("validate", out)
	asJSON := fs.Bool("json", false, "Print the result as JSON.")
	path, err := parse(fs, args)
	if err != nil {
		return err
	}

	g, err := readFlow(path, logger)
	if err != nil {
		return err
	}
	var jsonOut io.Writer
	if *asJSON {
		jsonOut = out
	}
	if err := checkDocument(jsonOut, path, g); err != nil {
		return err
	}

	res := validation.ValidateGraph(g)
	metrics.IncValidations()
	if !res.IsValid {
		metrics.ValidationFailed("cli")
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else if res.IsValid {
		fmt.Fprintf(out, "%s: flow is valid\n", path)
	} else {
		for _, msg := range res.Errors {
			fmt.Fprintf(out, "%s: %s\n", path, msg)
		}
	}

	if !res.IsValid {
		return &ExitError{Code: exitFailure}
	}
	return nil
}

func runCycles(out io.Writer, args []string, logger *zap.Logger) error {
	fs := newFlagSet("cycles", out)
	path, err := parse(fs, args)
	if err != nil {
		return err
	}

	g, err := loadFlow(path, logger)
	if err != nil {
		return err
	}

	if validation.GraphHasCycles(g) {
		fmt.Fprintf(out, "%s: flow contains a cycle\n", path)
		return &ExitError{Code: exitFailure}
	}
	fmt.Fprintf(out, "%s: no cycles\n", path)
	return nil
}

func runConnect(out io.Writer, args []string, logger *zap.Logger) error {
	fs := newFlagSet("connect", out)
	source := fs.String("source", "", "Source node ID.")
	sourceHandle := fs.String("source-handle", "", "Source handle; empty is the absent port.")
	target := fs.String("target", "", "Target node ID.")
	targetHandle := fs.String("target-handle", "", "Target handle; empty is the absent port.")
	path, err := parse(fs, args)
	if err != nil {
		return err
	}
	if *source == "" || *target == "" {
		return usageError("connect: -source and -target are required")
	}

	g, err := loadFlow(path, logger)
	if err != nil {
		return err
	}

	if reason := validation.CheckConnection(*source, *sourceHandle, *target, *targetHandle, g.Edges); reason != nil {
		metrics.ConnectionAttempt(metrics.OutcomeRejected)
		fmt.Fprintf(out, "rejected: %v\n", reason)
		return &ExitError{Code: exitFailure}
	}
	metrics.ConnectionAttempt(metrics.OutcomeAccepted)
	fmt.Fprintln(out, "allowed")
	return nil
}

func runConvert(out io.Writer, args []string, logger *zap.Logger) error {
	fs := newFlagSet("convert", out)
	output := fs.String("o", "", "Output file; its extension picks the encoding.")
	path, err := parse(fs, args)
	if err != nil {
		return err
	}
	if *output == "" {
		return usageError("convert: -o is required")
	}

	dst, err := serialization.ForPath(*output)
	if err != nil {
		return usageError("%v", err)
	}
	g, err := loadFlow(path, logger)
	if err != nil {
		return err
	}

	data, err := dst.Serialize(g)
	if err != nil {
		return failure("encode %s: %v", *output, err)
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		return failure("write %s: %v", *output, err)
	}
	logger.Info("flow converted", zap.String("from", path), zap.String("to", *output), zap.String("encoding", dst.Name()))
	fmt.Fprintf(out, "wrote %s (%s, %d bytes)\n", *output, dst.Name(), len(data))
	return nil
}

func runTypes(out io.Writer, args []string, _ *zap.Logger) error {
	fs := newFlagSet("types", out)
	asJSON := fs.Bool("json", false, "Print the table as JSON.")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return usageError("%v", err)
	}

	types := flow.NodeTypes()
	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(types)
	}
	for _, t := range types {
		fmt.Fprintf(out, "%-10s %-10s %s\n", t.Type, t.Label, t.Description)
	}
	return nil
}
