// lootfilter/pkg/store/store.go

package store

import (
	"context"

	"github.com/redis/go-redis/v9"

	"rgehrsitz/lootfilter/pkg/item"
)

const (
	ItemPrefix         = "item:"
	PresentationPrefix = "presentation:"

	DefaultUpdateChannel = "loot_items"
	DefaultResultChannel = "loot_presentations"
)

// Store provides items to the engine and keeps the presentation it computed for
// them. GetItem and GetPresentation return nil without an error when the key is
// missing.
type Store interface {
	SaveItem(ctx context.Context, it *item.Item) (string, error)
	GetItem(ctx context.Context, id string) (*item.Item, error)
	MGetItems(ctx context.Context, ids ...string) (map[string]*item.Item, error)
	ScanItems(ctx context.Context, pattern string) ([]string, error)
	SavePresentation(ctx context.Context, id string, p item.Presentation) error
	GetPresentation(ctx context.Context, id string) (*item.Presentation, error)
	PublishItemUpdate(ctx context.Context, id string) error
	PublishPresentation(ctx context.Context, id string) error
	Subscribe(ctx context.Context, channels ...string) (*redis.PubSub, error)
}

func ItemKey(id string) string { return ItemPrefix + id }

func PresentationKey(id string) string { return PresentationPrefix + id }
