package health

import "context"

// DBPinger checks counter store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ProviderCounter reports how many search providers are registered.
type ProviderCounter interface {
	Len() int
}
