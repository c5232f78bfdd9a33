// lootfilter/pkg/store/redis_store.go

package store

import (
	"context"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"rgehrsitz/lootfilter/pkg/item"
	"rgehrsitz/lootfilter/pkg/logging"
)

var _ Store = (*RedisStore)(nil)

type RedisStore struct {
	client        *redis.Client
	updateChannel string
	resultChannel string
}

// NewRedisStore connects to the Redis server at addr and verifies the
// connection with a PING.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	logging.Logger.Info().Str("addr", addr).Int("db", db).Msg("Connecting to Redis")

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "connect to redis at %s", addr)
	}

	logging.Logger.Info().Msg("Successfully connected to Redis")
	return NewRedisStoreFromClient(client), nil
}

// NewRedisStoreFromClient wraps an existing client using the default channels.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:        client,
		updateChannel: DefaultUpdateChannel,
		resultChannel: DefaultResultChannel,
	}
}

// WithChannels overrides the update and result channels. Empty names keep the
// current value.
func (s *RedisStore) WithChannels(update, result string) *RedisStore {
	if update != "" {
		s.updateChannel = update
	}
	if result != "" {
		s.resultChannel = result
	}
	return s
}

func (s *RedisStore) UpdateChannel() string { return s.updateChannel }

func (s *RedisStore) ResultChannel() string { return s.resultChannel }

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// SaveItem stores the item under item:<id>, assigning a fresh UUID first when
// the item has none. It returns the ID used.
func (s *RedisStore) SaveItem(ctx context.Context, it *item.Item) (string, error) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	data, err := json.Marshal(it)
	if err != nil {
		return "", errors.Wrapf(err, "marshal item %s", it.ID)
	}
	if err := s.client.Set(ctx, ItemKey(it.ID), data, 0).Err(); err != nil {
		logging.Logger.Error().Err(err).Str("id", it.ID).Msg("Failed to save item")
		return "", errors.Wrapf(err, "save item %s", it.ID)
	}
	logging.Logger.Debug().Str("id", it.ID).Str("name", it.Name).Msg("Saved item")
	return it.ID, nil
}

func (s *RedisStore) GetItem(ctx context.Context, id string) (*item.Item, error) {
	data, err := s.client.Get(ctx, ItemKey(id)).Bytes()
	if err == redis.Nil {
		logging.Logger.Debug().Str("id", id).Msg("Item not found in Redis")
		return nil, nil
	} else if err != nil {
		logging.Logger.Error().Err(err).Str("id", id).Msg("Failed to get item from Redis")
		return nil, errors.Wrapf(err, "get item %s", id)
	}
	return decodeItem(id, data)
}

// MGetItems fetches several items in one round trip. Missing IDs map to nil.
func (s *RedisStore) MGetItems(ctx context.Context, ids ...string) (map[string]*item.Item, error) {
	if len(ids) == 0 {
		return map[string]*item.Item{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = ItemKey(id)
	}

	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "mget items")
	}

	items := make(map[string]*item.Item, len(ids))
	for i, result := range results {
		var data []byte
		switch v := result.(type) {
		case nil:
			items[ids[i]] = nil
			continue
		case string:
			data = []byte(v)
		case []byte:
			data = v
		default:
			return nil, errors.Errorf("unexpected value type %T for %s", v, keys[i])
		}
		it, err := decodeItem(ids[i], data)
		if err != nil {
			return nil, err
		}
		items[ids[i]] = it
	}
	return items, nil
}

// ScanItems returns the IDs of stored items whose ID matches the glob pattern.
func (s *RedisStore) ScanItems(ctx context.Context, pattern string) ([]string, error) {
	var (
		cursor uint64
		ids    []string
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, ItemKey(pattern), 100).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "scan items %q", pattern)
		}
		for _, key := range keys {
			ids = append(ids, strings.TrimPrefix(key, ItemPrefix))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return ids, nil
}

func (s *RedisStore) SavePresentation(ctx context.Context, id string, p item.Presentation) error {
	data, err := json.Marshal(p)
	if err != nil {
		return errors.Wrapf(err, "marshal presentation %s", id)
	}
	if err := s.client.Set(ctx, PresentationKey(id), data, 0).Err(); err != nil {
		logging.Logger.Error().Err(err).Str("id", id).Msg("Failed to save presentation")
		return errors.Wrapf(err, "save presentation %s", id)
	}
	return nil
}

func (s *RedisStore) GetPresentation(ctx context.Context, id string) (*item.Presentation, error) {
	data, err := s.client.Get(ctx, PresentationKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrapf(err, "get presentation %s", id)
	}
	var p item.Presentation
	if err := json.Unmarshal(data, &p); err != nil {
		logging.Logger.Error().Err(err).Str("id", id).Str("data", string(data)).Msg("Failed to unmarshal presentation")
		return nil, errors.Wrapf(err, "decode presentation %s", id)
	}
	return &p, nil
}

// PublishItemUpdate announces that item:<id> changed. The payload is the bare ID.
func (s *RedisStore) PublishItemUpdate(ctx context.Context, id string) error {
	return s.publish(ctx, s.updateChannel, id)
}

// PublishPresentation announces that presentation:<id> was rewritten.
func (s *RedisStore) PublishPresentation(ctx context.Context, id string) error {
	return s.publish(ctx, s.resultChannel, id)
}

func (s *RedisStore) publish(ctx context.Context, channel, id string) error {
	if err := s.client.Publish(ctx, channel, id).Err(); err != nil {
		logging.Logger.Error().Err(err).Str("channel", channel).Str("id", id).Msg("Failed to publish")
		return errors.Wrapf(err, "publish %s on %s", id, channel)
	}
	logging.Logger.Debug().Str("channel", channel).Str("id", id).Msg("Published")
	return nil
}

// Subscribe listens on the given channels, or the update channel when none are
// named. The subscription is confirmed before it is returned.
func (s *RedisStore) Subscribe(ctx context.Context, channels ...string) (*redis.PubSub, error) {
	if len(channels) == 0 {
		channels = []string{s.updateChannel}
	}
	logging.Logger.Info().Strs("channels", channels).Msg("Subscribing to Redis channels")

	pubsub := s.client.Subscribe(ctx, channels...)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, errors.Wrapf(err, "subscribe to %v", channels)
	}

	logging.Logger.Info().Strs("channels", channels).Msg("Successfully subscribed to Redis channels")
	return pubsub, nil
}

func decodeItem(id string, data []byte) (*item.Item, error) {
	var it item.Item
	if err := json.Unmarshal(data, &it); err != nil {
		logging.Logger.Error().Err(err).Str("id", id).Str("data", string(data)).Msg("Failed to unmarshal item data")
		return nil, errors.Wrapf(err, "decode item %s", id)
	}
	if it.ID == "" {
		it.ID = id
	}
	it.ResetPresentation()
	return &it, nil
}
