package cache

import (
	"context"
	"fmt"
	"time"

	"cr_war_stats/internal/app"

	"github.com/rs/zerolog/log"
)

// Store is the key-value surface the name resolver needs
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// ClanFetcher looks up a clan by tag
type ClanFetcher interface {
	GetClan(ctx context.Context, clanTag string) (*app.Clan, error)
}

// NameResolver returns clan display names, consulting the cache before the API.
// Cache failures fall back to the API; API failures are returned.
type NameResolver struct {
	api   ClanFetcher
	store Store
	ttl   time.Duration
}

// NewNameResolver creates a resolver. store may be nil to disable caching.
func NewNameResolver(api ClanFetcher, store Store, ttl time.Duration) *NameResolver {
	return &NameResolver{api: api, store: store, ttl: ttl}
}

func clanKey(tag string) string {
	return "cr:clan:name:" + app.NormalizeTag(tag)
}

// ClanName returns the display name of a clan
func (r *NameResolver) ClanName(ctx context.Context, clanTag string) (string, error) {
	key := clanKey(clanTag)

	if r.store != nil {
		name, ok, err := r.store.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("clan_tag", clanTag).Msg("Name cache read failed, falling back to API")
		} else if ok {
			return name, nil
		}
	}

	clan, err := r.api.GetClan(ctx, clanTag)
	if err != nil {
		return "", fmt.Errorf("failed to look up clan name: %w", err)
	}

	if r.store != nil {
		if err := r.store.Set(ctx, key, clan.Name, r.ttl); err != nil {
			log.Warn().Err(err).Str("clan_tag", clanTag).Msg("Name cache write failed")
		}
	}

	return clan.Name, nil
}
