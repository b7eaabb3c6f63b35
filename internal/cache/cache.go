package cache

import (
	"errors"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Alexrocks4325/puck-powerhouse-pro-sub001/internal/models"
)

const leagueKey = "league"

var ErrNotLoaded = errors.New("league not loaded")

// LoadFunc reads a fresh league when the cached one is missing or expired
type LoadFunc func() (*models.LeagueState, error)

// Cache holds the shared league. Access goes through With so that commands touching the
// league run one at a time.
type Cache struct {
	cache    *gocache.Cache
	mu       sync.Mutex
	duration time.Duration
	load     LoadFunc
}

func New(duration time.Duration, load LoadFunc) *Cache {
	return &Cache{
		cache:    gocache.New(duration, duration*2),
		duration: duration,
		load:     load,
	}
}

func (c *Cache) SetLeague(state *models.LeagueState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Set(leagueKey, state, c.duration)
}

// With runs fn against the cached league, loading it first if needed. Changes fn makes
// stay in the cache until it expires or is flushed.
func (c *Cache) With(fn func(state *models.LeagueState) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, err := c.leagueLocked()
	if err != nil {
		return err
	}
	return fn(state)
}

func (c *Cache) leagueLocked() (*models.LeagueState, error) {
	if v, found := c.cache.Get(leagueKey); found {
		return v.(*models.LeagueState), nil
	}
	if c.load == nil {
		return nil, ErrNotLoaded
	}
	state, err := c.load()
	if err != nil {
		return nil, err
	}
	c.cache.Set(leagueKey, state, c.duration)
	return state, nil
}

// Loaded reports whether a league is currently cached
func (c *Cache) Loaded() bool {
	_, found := c.cache.Get(leagueKey)
	return found
}

func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Flush()
}
