package component

type API struct {
	Bind string `mapstructure:"bind"`
	// Catalog example payloads are cached for this many seconds before
	// being regenerated.
	CatalogTTL uint32 `mapstructure:"catalog_ttl"`
}

type Simulation struct {
	// Default publishing interval in seconds, used when a start request
	// leaves it unset.
	DefaultInterval uint32 `mapstructure:"default_interval"`
	// How many published records the in-memory history keeps.
	HistorySize int `mapstructure:"history_size"`
}
