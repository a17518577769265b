// Command udfconv converts UDF documents to DOCX, PDF or Markdown and
// serves the same conversion over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/tsawler/udf"
	"github.com/tsawler/udf/config"
	"github.com/tsawler/udf/format"
	"github.com/tsawler/udf/model"
	"github.com/tsawler/udf/server"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `udfconv - convert UDF documents

usage:
  udfconv [-config file] [-to docx|pdf|md] [-o output] <input.udf>
  udfconv [-config file] -dump <input.udf>
  udfconv serve [-config file] [-listen addr]

The output format defaults to the extension of -o, then to pdf. The output
file defaults to the input name with the new extension; "-o -" writes to
standard output. Nothing is written when the conversion fails.

Settings are read from the config file and UDF_* environment variables.
`)
}

// run executes the command line and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "serve" {
		return cmdServe(args[1:], stderr)
	}
	return cmdConvert(args, stdout, stderr)
}

// loadConfig reads path, or the environment alone when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.FromEnvironment()
	}
	return config.LoadConfig(path)
}

func cmdConvert(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("udfconv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }
	cfgPath := fs.String("config", "", "YAML config file")
	to := fs.String("to", "", "output format: docx, pdf or md")
	out := fs.String("o", "", "output file, - for standard output")
	dump := fs.Bool("dump", false, "print the resolved paragraphs instead of converting")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		printUsage(stderr)
		return 2
	}
	input := fs.Arg(0)

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	logger := cfg.NewLogger(stderr)
	conv := udf.Open(input).WithConfig(cfg).Logger(logger)

	if *dump {
		doc, err := conv.Document()
		if err != nil {
			fmt.Fprintf(stderr, "parse failed: %v\n", err)
			return 1
		}
		dumpDocument(stdout, doc)
		return 0
	}

	f, outPath, err := resolveOutput(input, *to, *out)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	data, warnings, err := conv.Bytes(f)
	if err != nil {
		fmt.Fprintf(stderr, "conversion failed: %v\n", err)
		return 1
	}
	for _, w := range warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}

	if outPath == "-" {
		if _, err := stdout.Write(data); err != nil {
			fmt.Fprintf(stderr, "write: %v\n", err)
			return 1
		}
		return 0
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		fmt.Fprintf(stderr, "write: %v\n", err)
		return 1
	}
	logger.Info("converted", "input", input, "output", outPath, "format", f.String(), "warnings", len(warnings))
	return 0
}

// resolveOutput picks the output format and path from the flags.
func resolveOutput(input, to, out string) (format.Format, string, error) {
	var f format.Format
	switch {
	case to != "":
		var err error
		if f, err = format.Parse(to); err != nil {
			return format.Unknown, "", err
		}
	case out != "" && out != "-":
		if f = format.Detect(out); f == format.Unknown {
			return format.Unknown, "", fmt.Errorf("cannot tell the output format of %s; use -to", out)
		}
	default:
		f = format.PDF
	}

	if out == "" {
		out = strings.TrimSuffix(input, filepath.Ext(input)) + f.Extension()
	}
	return f, out, nil
}

func cmdServe(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "YAML config file")
	listen := fs.String("listen", "", "listen address (overrides the config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}

	logger := cfg.NewLogger(stderr)
	slog.SetDefault(logger)

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("server", "error", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server", "error", err)
		return 1
	}
	return 0
}

// dumpDocument prints the resolved model: every block with its runs, the
// gaps between them included.
func dumpDocument(w io.Writer, doc *model.Document) {
	pf := doc.PageFormat
	fmt.Fprintf(w, "content: %d characters\n", doc.Len())
	fmt.Fprintf(w, "page: %s margins l=%g r=%g t=%g b=%g\n",
		pf.Orientation, pf.LeftMargin, pf.RightMargin, pf.TopMargin, pf.BottomMargin)
	if doc.Background != nil {
		fmt.Fprintf(w, "background: %s\n", doc.Background.Source)
	}

	if doc.Header != nil {
		dumpGroup(w, doc, doc.Header)
	}
	for i, el := range doc.Elements {
		switch b := el.(type) {
		case *model.Paragraph:
			fmt.Fprintf(w, "[%d] paragraph", i)
			dumpParagraph(w, doc, b, "  ")
		case *model.Table:
			fmt.Fprintf(w, "[%d] table columns=%d border=%s rows=%d\n", i, b.ColumnCount, b.Border, len(b.Rows))
			for ri, row := range b.Rows {
				for ci := range row.Cells {
					for pi := range row.Cells[ci].Paragraphs {
						fmt.Fprintf(w, "  (%d,%d) paragraph", ri, ci)
						dumpParagraph(w, doc, &row.Cells[ci].Paragraphs[pi], "    ")
					}
				}
			}
		case *model.PageBreak:
			fmt.Fprintf(w, "[%d] page break\n", i)
		}
	}
	if doc.Footer != nil {
		dumpGroup(w, doc, doc.Footer)
	}
}

func dumpGroup(w io.Writer, doc *model.Document, g *model.BlockGroup) {
	fmt.Fprintf(w, "%s:", g.Kind)
	if g.Background != nil {
		fmt.Fprintf(w, " background=#%s", g.Background.Hex())
	}
	fmt.Fprintln(w)
	for i := range g.Paragraphs {
		fmt.Fprint(w, "  paragraph")
		dumpParagraph(w, doc, &g.Paragraphs[i], "    ")
	}
}

func dumpParagraph(w io.Writer, doc *model.Document, p *model.Paragraph, indent string) {
	fmt.Fprintf(w, " align=%s spacing=%g\n", p.Alignment, model.NormalizeLineSpacing(p.LineSpacing))
	for _, r := range p.Runs {
		fmt.Fprintf(w, "%s%-5s", indent, r.RunType())
		if s, ok := model.SpanOf(r); ok {
			fmt.Fprintf(w, " %d+%d", s.Offset, s.Length)
		}
		switch run := r.(type) {
		case *model.ImageRun:
			fmt.Fprintf(w, " %gx%g %d bytes\n", run.Width, run.Height, len(run.Payload))
		case *model.FieldRun:
			fmt.Fprintf(w, " %s %q\n", run.Name, doc.RunText(run))
		default:
			fmt.Fprintf(w, " %q\n", doc.RunText(r))
		}
	}
}
