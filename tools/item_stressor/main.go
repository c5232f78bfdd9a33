// lootfilter/tools/item_stressor/main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"rgehrsitz/lootfilter/pkg/logging"
	"rgehrsitz/lootfilter/pkg/lootgen"
	"rgehrsitz/lootfilter/pkg/store"
)

// stress saves and announces a random item every 1/rate seconds until ctx ends
// or limit items were sent. A limit of 0 means no limit.
func stress(ctx context.Context, st store.Store, f *gofakeit.Faker, rate, limit int) (int, error) {
	if rate < 1 {
		return 0, fmt.Errorf("rate must be positive, got %d", rate)
	}

	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	sent := 0
	for limit == 0 || sent < limit {
		select {
		case <-ctx.Done():
			return sent, nil
		case <-ticker.C:
		}

		it := lootgen.Item(f)
		id, err := st.SaveItem(ctx, &it)
		if err != nil {
			logging.Logger.Error().Err(err).Msg("Error saving item")
			continue
		}
		if err := st.PublishItemUpdate(ctx, id); err != nil {
			logging.Logger.Error().Err(err).Msg("Error publishing item update")
			continue
		}
		sent++
		logging.Logger.Debug().Str("id", id).Str("item", it.DisplayName()).Msg("Published item")
	}
	return sent, nil
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address")
	updateRate := flag.Int("rate", 10, "Number of item updates per second")
	count := flag.Int("count", 0, "Stop after this many items (0 runs until interrupted)")
	seed := flag.Uint64("seed", 0, "Random seed (0 picks one)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := store.NewRedisStore(*redisAddr, "", 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	fmt.Printf("Connected to Redis at %s\n", *redisAddr)
	fmt.Printf("Publishing items at a rate of %d per second\n", *updateRate)

	start := time.Now()
	sent, err := stress(ctx, st, gofakeit.New(*seed), *updateRate, *count)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Published %d items in %s\n", sent, time.Since(start).Round(time.Millisecond))
}
