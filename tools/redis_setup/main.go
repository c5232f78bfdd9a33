// lootfilter/tools/redis_setup/main.go

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"rgehrsitz/lootfilter/pkg/item"
	"rgehrsitz/lootfilter/pkg/store"
)

func main() {
	addr := flag.String("redis", "localhost:6379", "Redis address")
	itemsFile := flag.String("items", "", "YAML item fixture to seed (built-in samples when empty)")
	publish := flag.Bool("publish", false, "Publish an update for every seeded item")
	flag.Parse()

	ctx := context.Background()
	st, err := store.NewRedisStore(*addr, "", 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	items := sampleItems()
	if *itemsFile != "" {
		if items, err = item.LoadItemsFile(*itemsFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if _, err := seedItems(ctx, st, items, *publish, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	startCLI(ctx, st, os.Stdin, os.Stdout)
}

func sampleItems() []item.Item {
	return []item.Item{
		{ID: "exalted", Name: "Exalted Orb", ItemLevel: 1, DropLevel: 35, ItemClass: "Stackable Currency",
			BaseType: "Exalted Orb", Width: 1, Height: 1, StackSize: 1},
		{ID: "circlet", Name: "Doom Veil", ItemLevel: 84, DropLevel: 69, Rarity: item.Rare, ItemClass: "Helmets",
			BaseType: "Hubris Circlet", Width: 2, Height: 2, Identified: true, Influence: []string{"Shaper"}, Sockets: []string{"BBG", "R"}},
		{ID: "strand", Name: "Strand Map", ItemLevel: 75, DropLevel: 70, ItemClass: "Maps",
			BaseType: "Strand Map", Width: 1, Height: 1, MapTier: 5},
	}
}

func seedItems(ctx context.Context, st store.Store, items []item.Item, publish bool, out io.Writer) ([]string, error) {
	ids := make([]string, 0, len(items))
	for i := range items {
		id, err := st.SaveItem(ctx, &items[i])
		if err != nil {
			return ids, err
		}
		fmt.Fprintf(out, "Saved %s (%s)\n", store.ItemKey(id), items[i].DisplayName())
		if publish {
			if err := st.PublishItemUpdate(ctx, id); err != nil {
				return ids, err
			}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func startCLI(ctx context.Context, st store.Store, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Enter command (publish <id>, show <id>, list [pattern] or exit): ")
		if !scanner.Scan() {
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "exit" {
			return
		}
		if err := processCommand(ctx, st, input, out); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

func processCommand(ctx context.Context, st store.Store, input string, out io.Writer) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return fmt.Errorf("invalid command")
	}

	switch {
	case parts[0] == "publish" && len(parts) == 2:
		if err := st.PublishItemUpdate(ctx, parts[1]); err != nil {
			return err
		}
		fmt.Fprintf(out, "Published update for %s\n", parts[1])
	case parts[0] == "show" && len(parts) == 2:
		p, err := st.GetPresentation(ctx, parts[1])
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("no presentation for %s", parts[1])
		}
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	case parts[0] == "list" && len(parts) <= 2:
		pattern := "*"
		if len(parts) == 2 {
			pattern = parts[1]
		}
		ids, err := st.ScanItems(ctx, pattern)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(out, id)
		}
	default:
		return fmt.Errorf("invalid command %q", input)
	}
	return nil
}
