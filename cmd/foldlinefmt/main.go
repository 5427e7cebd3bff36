// Command foldlinefmt is a demo harness for the foldline layout engine. It
// is deliberately not a language formatter: it has no parser or lexer (the
// core's Non-goals exclude those), so it reflows plain-text paragraphs —
// just enough structure to drive Group/Choice/Indent through the resolver
// and renderer end to end: a flag.FlagSet with the usual
// -cpuprofile/-memprofile pprof wiring, and a run(args, stdin, stdout,
// stderr) shape that keeps main itself untestable-but-trivial.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/foldline/foldline/cost"
	"github.com/foldline/foldline/internal/bench"
	"github.com/foldline/foldline/internal/version"
	"github.com/foldline/foldline/layout"
	"github.com/foldline/foldline/renderer"
	"github.com/foldline/foldline/writer"
)

func main() {
	if err := run(os.Args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(args []string, r io.Reader, w io.Writer, wErr io.Writer) error {
	flags := flag.NewFlagSet(args[0], flag.ExitOnError)
	flags.SetOutput(wErr)
	width := flags.Int("width", 80, "maximum line width")
	indentUnit := flags.Int("indent", 4, "columns per indent level")
	resolverName := flags.String("resolver", "pareto", "layout resolver to use: 'pareto' or 'trycatch'")
	colourMode := flags.String("colour", "auto", "colour output: 'auto', 'always' or 'never'")
	debug := flags.Bool("debug", false, "emit debug logging of resolver statistics")
	showVersion := flags.Bool("version", false, "print the module version and exit")
	cpuProfile := flags.String("cpuprofile", "", "write cpu profile to `file`")
	memProfile := flags.String("memprofile", "", "write memory profile to `file`")

	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	if *showVersion {
		_, err := fmt.Fprintln(w, version.Version())
		return err
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(wErr, &slog.HandlerOptions{Level: level}))

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	var colour writer.ColourMode
	switch *colourMode {
	case "always":
		colour = writer.Always
	case "never":
		colour = writer.Never
	case "auto":
		colour = writer.Auto
	default:
		return fmt.Errorf("invalid -colour=%q: must be 'auto', 'always' or 'never'", *colourMode)
	}

	paragraphs, err := readParagraphs(r)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	doc := layout.NewDoc(*width).WithIndentUnit(*indentUnit)
	for i, p := range paragraphs {
		if i > 0 {
			doc.Break(2)
		}
		buildParagraph(doc, p)
	}

	fd, useColour := uintptr(0), false
	if f, ok := w.(*os.File); ok {
		fd = f.Fd()
		useColour = writer.ResolveColour(colour, fd)
	}

	var out renderer.Writer
	unit := strings.Repeat(" ", *indentUnit)
	if useColour {
		out = writer.NewStyled(w, unit)
	} else {
		out = writer.NewPlain(w, unit)
	}

	beforeLen := doc.Arena().Len()
	start := time.Now()
	switch *resolverName {
	case "pareto":
		err = doc.Render(out, cost.Overflow{})
	case "trycatch":
		err = doc.RenderTryCatch(out)
	default:
		return fmt.Errorf("invalid -resolver=%q: must be 'pareto' or 'trycatch'", *resolverName)
	}
	bench.Report(log, *resolverName, doc.Arena(), start, beforeLen)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			return fmt.Errorf("could not create memory profile: %w", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("could not write memory profile: %w", err)
		}
	}

	return nil
}

// readParagraphs splits r into paragraphs: runs of non-blank lines,
// separated by one or more blank lines. Each paragraph is returned as its
// whitespace-split words.
func readParagraphs(r io.Reader) ([][]string, error) {
	var paragraphs [][]string
	var current []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, current)
				current = nil
			}
			continue
		}
		current = append(current, strings.Fields(line)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, current)
	}
	return paragraphs, nil
}

// buildParagraph reflows one paragraph's words as a single Group: the
// resolver chooses, for the paragraph as a whole, between the flattened
// single-line rendering and the naturally broken one, softline by softline.
func buildParagraph(doc *layout.Doc, words []string) {
	doc.Group(func(d *layout.Doc) {
		for i, word := range words {
			if i > 0 {
				d.Choice(
					func(c *layout.Doc) { c.Space() },
					func(c *layout.Doc) { c.Break(1) },
				)
			}
			d.Text(word)
		}
	})
}
