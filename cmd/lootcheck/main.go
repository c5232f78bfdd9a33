// lootfilter/cmd/lootcheck/main.go

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mitchellh/colorstring"

	"rgehrsitz/lootfilter/pkg/compiler"
	"rgehrsitz/lootfilter/pkg/item"
	"rgehrsitz/lootfilter/pkg/logging"
	"rgehrsitz/lootfilter/pkg/rules"
	"rgehrsitz/lootfilter/pkg/runtime"
)

const (
	exitOK     = 0
	exitErrors = 1
	exitUsage  = 2
)

type options struct {
	itemsFile string
	keywords  bool
	lines     bool
	index     bool
	color     string
	logLevel  string
	areaLevel int
	filter    string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("lootcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.itemsFile, "items", "", "YAML item fixture to evaluate against the filter")
	fs.BoolVar(&opts.keywords, "keywords", false, "List the filter language keywords and exit")
	fs.BoolVar(&opts.lines, "lines", false, "Print every source line with its classification")
	fs.BoolVar(&opts.index, "index", false, "Print which rules test each item property")
	fs.StringVar(&opts.color, "color", "auto", "Colored output: auto, always or never")
	fs.StringVar(&opts.logLevel, "log-level", "fatal", "Log level")
	fs.IntVar(&opts.areaLevel, "area-level", 0, "Area level assumed for items without one")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: lootcheck [flags] <filter file>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch opts.color {
	case "auto", "always", "never":
	default:
		return opts, fmt.Errorf("invalid -color value %q", opts.color)
	}
	if !opts.keywords {
		if fs.NArg() != 1 {
			fs.Usage()
			return opts, fmt.Errorf("expected exactly one filter file")
		}
		opts.filter = fs.Arg(0)
	}
	return opts, nil
}

func colorizer(mode string, tty bool) colorstring.Colorize {
	return colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: mode == "never" || (mode == "auto" && !tty),
		Reset:   true,
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, isTerminal(os.Stdout)))
}

func run(args []string, stdout, stderr io.Writer, tty bool) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if err := logging.ConfigureLogger(opts.logLevel, "console"); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	c := colorizer(opts.color, tty)

	if opts.keywords {
		printKeywords(stdout, c)
		return exitOK
	}

	source, err := os.ReadFile(opts.filter)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	engine := runtime.NewEngine(runtime.EngineOptions{AreaLevel: opts.areaLevel})
	res, _ := engine.Load(string(source))

	if opts.lines {
		printLines(stdout, c, strings.Split(string(source), "\n"), res.LineTypes)
	}
	printDiagnostics(stdout, c, res)
	if opts.index {
		printIndex(stdout, c, res.RuleSet)
	}

	if opts.itemsFile != "" {
		items, err := item.LoadItemsFile(opts.itemsFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitUsage
		}
		printEvaluations(stdout, c, engine, items)
	}

	if !res.OK() {
		return exitErrors
	}
	return exitOK
}

func printKeywords(w io.Writer, c colorstring.Colorize) {
	for _, class := range []compiler.KeywordClass{compiler.ClassVisibility, compiler.ClassFilter, compiler.ClassModifier, compiler.ClassMeta} {
		fmt.Fprintln(w, c.Color("[bold]"+class.String()+"[reset]"))
		for _, kw := range compiler.Keywords() {
			if kw.Class == class {
				fmt.Fprintf(w, "  %s\n", kw.Usage())
			}
		}
	}
}

var lineTypeColors = map[compiler.LineType]string{
	compiler.Comment:    "[dark_gray]",
	compiler.Visibility: "[cyan]",
	compiler.Filter:     "[green]",
	compiler.Modifier:   "[magenta]",
	compiler.Error:      "[red]",
}

func printLines(w io.Writer, c colorstring.Colorize, lines []string, types []compiler.LineType) {
	for i, lt := range types {
		label := fmt.Sprintf("%-10s", lt)
		if color, ok := lineTypeColors[lt]; ok {
			label = c.Color(color + label)
		}
		fmt.Fprintf(w, "%4d %s| %s\n", i+1, label, strings.TrimRight(lines[i], "\r"))
	}
}

func printDiagnostics(w io.Writer, c colorstring.Colorize, res compiler.Result) {
	for _, d := range res.Errors {
		fmt.Fprintf(w, "%s %s\n", c.Color("[red]error:"), d.Message())
	}
	for _, d := range res.Warnings {
		fmt.Fprintf(w, "%s %s\n", c.Color("[yellow]warning:"), d.Message())
	}

	summary := fmt.Sprintf("%d rules, %d errors, %d warnings", len(res.RuleSet), len(res.Errors), len(res.Warnings))
	if res.OK() {
		fmt.Fprintln(w, c.Color("[green]"+summary))
	} else {
		fmt.Fprintln(w, c.Color("[red]"+summary))
	}
}

func printIndex(w io.Writer, c colorstring.Colorize, rs rules.RuleSet) {
	index, _ := compiler.GenerateIndices(rs)
	props := make([]string, 0, len(index))
	for p := range index {
		props = append(props, string(p))
	}
	sort.Strings(props)

	for _, p := range props {
		var lines []string
		for _, idx := range index[rules.Property(p)] {
			lines = append(lines, fmt.Sprint(rs[idx].FirstLine()+1))
		}
		fmt.Fprintf(w, "%s lines %s\n", c.Color("[bold]"+p+":"), strings.Join(lines, ", "))
	}
}

func printEvaluations(w io.Writer, c colorstring.Colorize, engine *runtime.Engine, items []item.Item) {
	batch := make([]*item.Item, len(items))
	for i := range items {
		batch[i] = &items[i]
	}
	rs := engine.RuleSet()

	for i, ev := range engine.EvaluateAll(batch) {
		var verdict string
		switch {
		case !ev.Matched():
			verdict = c.Color("[dark_gray]no match")
		case ev.Presentation.Visible:
			verdict = c.Color("[green]Show")
		default:
			verdict = c.Color("[red]Hide")
		}

		var lines []string
		for _, idx := range ev.Applied {
			lines = append(lines, fmt.Sprint(rs[idx].FirstLine()+1))
		}
		if len(lines) > 0 {
			verdict += " (line " + strings.Join(lines, ", ") + ")"
		}
		fmt.Fprintf(w, "%s: %s%s\n", batch[i].DisplayName(), verdict, describe(ev.Presentation))
	}
}

func describe(p item.Presentation) string {
	var parts []string
	if p.TextColor != nil {
		parts = append(parts, "text "+p.TextColor.String())
	}
	if p.BorderColor != nil {
		parts = append(parts, "border "+p.BorderColor.String())
	}
	if p.BackgroundColor != nil {
		parts = append(parts, "background "+p.BackgroundColor.String())
	}
	if p.FontSize != 0 {
		parts = append(parts, fmt.Sprintf("font %d", p.FontSize))
	}
	if p.AlertSound != nil {
		parts = append(parts, fmt.Sprintf("sound %s@%d", p.AlertSound.ID, p.AlertSound.Volume))
	}
	if p.CustomAlertSound != "" {
		parts = append(parts, "sound "+p.CustomAlertSound)
	}
	if p.DropSoundDisabled {
		parts = append(parts, "silent")
	}
	if p.MapIcon != nil {
		parts = append(parts, fmt.Sprintf("icon %d %s %s", p.MapIcon.Size, p.MapIcon.Color, p.MapIcon.Shape))
	}
	if p.Beam != nil {
		parts = append(parts, "beam "+p.Beam.Color)
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, ", ") + "]"
}
