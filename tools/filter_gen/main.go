// lootfilter/tools/filter_gen/main.go

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/schollz/progressbar/v3"

	"rgehrsitz/lootfilter/pkg/item"
	"rgehrsitz/lootfilter/pkg/lootgen"
)

type options struct {
	rules       int
	items       int
	output      string
	itemsOutput string
	seed        uint64
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("filter_gen", flag.ContinueOnError)
	fs.IntVar(&opts.rules, "rules", 1000, "Number of rules to generate")
	fs.IntVar(&opts.items, "items", 0, "Number of sample items to generate")
	fs.StringVar(&opts.output, "output", "generated.filter", "Filter output file name")
	fs.StringVar(&opts.itemsOutput, "items-output", "generated_items.yaml", "Item fixture output file name")
	fs.Uint64Var(&opts.seed, "seed", 0, "Random seed (0 picks one)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.rules < 0 || opts.items < 0 {
		return opts, fmt.Errorf("counts must not be negative")
	}
	return opts, nil
}

// writeFilter streams n generated rules to w, ticking the progress bar per rule.
func writeFilter(w io.Writer, f *gofakeit.Faker, n int, bar *progressbar.ProgressBar) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# generated filter, %d rules\n", n)
	for i := 0; i < n; i++ {
		bw.WriteString("\n")
		bw.WriteString(lootgen.Rule(f))
		bar.Add(1)
	}
	return bw.Flush()
}

func writeItems(w io.Writer, f *gofakeit.Faker, n int, bar *progressbar.ProgressBar) error {
	items := make([]item.Item, n)
	for i := range items {
		items[i] = lootgen.Item(f)
		bar.Add(1)
	}
	return item.WriteItems(w, items)
}

func newBar(n int, description string, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
}

func generate(opts options, progress io.Writer) error {
	f := gofakeit.New(opts.seed)

	file, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("creating filter file: %w", err)
	}
	defer file.Close()
	if err := writeFilter(file, f, opts.rules, newBar(opts.rules, "rules", progress)); err != nil {
		return fmt.Errorf("writing filter: %w", err)
	}

	if opts.items == 0 {
		return nil
	}
	itemsFile, err := os.Create(opts.itemsOutput)
	if err != nil {
		return fmt.Errorf("creating item file: %w", err)
	}
	defer itemsFile.Close()
	if err := writeItems(itemsFile, f, opts.items, newBar(opts.items, "items", progress)); err != nil {
		return fmt.Errorf("writing items: %w", err)
	}
	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if err := generate(opts, os.Stderr); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated filter with %d rules. Saved to %s\n", opts.rules, opts.output)
	if opts.items > 0 {
		fmt.Printf("Generated %d items. Saved to %s\n", opts.items, opts.itemsOutput)
	}
}
