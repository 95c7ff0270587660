// Package main provides the CLI entrypoint for xpathbind.
//
// Commands:
//   - check: statically checks xpath directives in Go packages
//   - eval: evaluates an XPath expression against a document
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"xpathbind/internal/analyze"
	"xpathbind/internal/common"
	"xpathbind/internal/diagnostic"
	"xpathbind/internal/mapping"
	"xpathbind/query"
)

const usage = `xpathbind - declarative XPath to struct binding

Usage:
  xpathbind check [-v] [-overlay file] <packages...>
  xpathbind eval [-html] [-shape string|node|nodeset] [-dump] -expr <xpath> [file]
`

var errFindings = errors.New("check found errors")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	level := new(slog.LevelVar)
	if l, err := parseLevel(cfg.LogLevel); err == nil {
		level.Set(l)
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	switch args[0] {
	case "check":
		err = runCheck(cfg, log, args[1:], stdout, stderr)
	case "eval":
		err = runEval(cfg, log, args[1:], stdin, stdout, stderr)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errFindings):
		return 1
	case errors.Is(err, flag.ErrHelp):
		return 2
	default:
		log.Error("command failed", slog.String("command", args[0]), slog.Any("error", err))
		return 1
	}
}

func runCheck(cfg Config, log *slog.Logger, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "also list checked types")
	overlay := fs.String("overlay", cfg.Overlay, "YAML overlay file to lint")
	if err := fs.Parse(args); err != nil {
		return err
	}

	patterns := fs.Args()
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	log.Debug("loading packages", slog.Any("patterns", patterns))

	pkgs, err := analyze.LoadPackages("", patterns...)
	if err != nil {
		return err
	}

	diags := analyze.Check(pkgs)

	if *overlay != "" {
		mf, err := mapping.LoadFile(*overlay)
		if err != nil {
			return err
		}
		diags.Merge(*mapping.Lint(mf))
	}

	printDiagnostics(stdout, diags, *verbose)

	log.Debug("check finished",
		slog.Int("packages", len(pkgs)),
		slog.Int("errors", len(diags.Errors)),
		slog.Int("warnings", len(diags.Warnings)))

	if diags.HasErrors() {
		return fmt.Errorf("%w: %d", errFindings, len(diags.Errors))
	}

	return nil
}

func printDiagnostics(w io.Writer, diags *diagnostic.Diagnostics, verbose bool) {
	for _, d := range diags.All() {
		if d.Severity == diagnostic.DiagnosticInfo && !verbose {
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", d.Severity, d)
	}
}

// nodeView is the dumped form of a matched node.
type nodeView struct {
	Name string
	Text string
}

type resultView struct {
	Shape  string
	String string
	Found  bool
	Nodes  []nodeView
}

func runEval(cfg Config, log *slog.Logger, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(stderr)
	html := fs.Bool("html", cfg.Format == "html", "parse input as HTML")
	shapeName := fs.String("shape", query.ShapeString.String(), "result shape: string, node or nodeset")
	dump := fs.Bool("dump", false, "dump the result structure")
	expr := fs.String("expr", "", "XPath expression")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *expr == "" {
		return errors.New("-expr is required")
	}

	shape, err := query.ParseShape(*shapeName)
	if err != nil {
		return err
	}

	in := stdin
	if path, ok := common.First(fs.Args()); ok {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	parse := query.ParseXML
	if *html {
		parse = query.ParseHTML
	}

	root, err := parse(in)
	if err != nil {
		return err
	}

	res, err := query.XPath{}.Evaluate(*expr, root, shape)
	if err != nil {
		return err
	}

	log.Debug("evaluated", slog.String("expr", *expr), slog.String("shape", shape.String()), slog.Int("nodes", len(res.Nodes)))

	view := resultView{Shape: res.Shape.String(), String: res.String, Found: res.Found}
	if res.Found {
		view.Nodes = append(view.Nodes, nodeView{Name: res.Node.Name(), Text: res.Node.Text()})
	}
	for _, n := range res.Nodes {
		view.Nodes = append(view.Nodes, nodeView{Name: n.Name(), Text: n.Text()})
	}

	if *dump {
		cs := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		cs.Fdump(stdout, view)
		return nil
	}

	switch shape {
	case query.ShapeString:
		fmt.Fprintln(stdout, res.String)
	default:
		if len(view.Nodes) == 0 {
			fmt.Fprintln(stdout, "<no match>")
		}
		for _, n := range view.Nodes {
			fmt.Fprintf(stdout, "%s\t%s\n", n.Name, strings.TrimSpace(n.Text))
		}
	}

	return nil
}
