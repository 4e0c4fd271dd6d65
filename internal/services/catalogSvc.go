package services

import (
	"time"

	"github.com/amineamaach/simulators/iotSimulatorMQTT/internal/simulators"
	"github.com/jellydator/ttlcache/v3"
	"github.com/sirupsen/logrus"
)

const catalogCacheKey = "profiles"

// ProfileInfo describes one registered profile, with example output
// obtained by instantiating it with defaults.
type ProfileInfo struct {
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Parameters     map[string]any     `json:"parameters"`
	ExampleTopic   string             `json:"example_topic"`
	ExamplePayload simulators.Reading `json:"example_payload"`
}

// CatalogSvc answers profile discovery queries. Example payloads are
// randomized, so the assembled listing is cached with a short TTL
// instead of being regenerated on every request.
type CatalogSvc struct {
	log      *logrus.Logger
	registry *simulators.Registry
	cache    *ttlcache.Cache[string, []ProfileInfo]
}

func NewCatalogSvc(log *logrus.Logger, registry *simulators.Registry, ttl time.Duration) *CatalogSvc {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	cache := ttlcache.New(
		ttlcache.WithTTL[string, []ProfileInfo](ttl),
	)
	go cache.Start()
	return &CatalogSvc{log: log, registry: registry, cache: cache}
}

// ListProfiles describes every registered profile. A profile whose
// example generation fails yields a degraded placeholder entry; a
// single bad profile never aborts the listing.
func (c *CatalogSvc) ListProfiles() []ProfileInfo {
	if item := c.cache.Get(catalogCacheKey); item != nil {
		return item.Value()
	}

	names := c.registry.List()
	infos := make([]ProfileInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, c.describe(name))
	}

	c.cache.Set(catalogCacheKey, infos, ttlcache.DefaultTTL)
	return infos
}

// ProfileInfo describes a single profile by name.
func (c *CatalogSvc) ProfileInfo(name string) (ProfileInfo, error) {
	if _, err := c.registry.Resolve(name); err != nil {
		return ProfileInfo{}, err
	}
	return c.describe(name), nil
}

// Preview instantiates a profile with the caller's parameters and
// returns one generated reading, without publishing anything.
func (c *CatalogSvc) Preview(name string, params map[string]any) (simulators.Reading, error) {
	ctor, err := c.registry.Resolve(name)
	if err != nil {
		return nil, err
	}
	return ctor(params).Generate(), nil
}

func (c *CatalogSvc) describe(name string) (info ProfileInfo) {
	defer func() {
		if r := recover(); r != nil {
			c.log.WithFields(logrus.Fields{
				"Profile": name,
				"Panic":   r,
			}).Warnln("Couldn't build example data for profile 🔔")
			info = ProfileInfo{
				Name:           name,
				Description:    c.registry.Describe(name),
				Parameters:     map[string]any{},
				ExampleTopic:   name + "/example",
				ExamplePayload: simulators.Reading{"error": "could not generate example"},
			}
		}
	}()

	ctor, err := c.registry.Resolve(name)
	if err != nil {
		panic(err)
	}
	instance := ctor(nil)
	return ProfileInfo{
		Name:           name,
		Description:    c.registry.Describe(name),
		Parameters:     instance.Params(),
		ExampleTopic:   instance.Topic(),
		ExamplePayload: instance.Generate(),
	}
}

// Close stops the cache's expiration goroutine.
func (c *CatalogSvc) Close() {
	c.cache.Stop()
}
