// Package settings holds the small amount of admin-writable runtime
// configuration, persisted alongside the record list.
package settings

import (
	"context"
	"log"

	"attensync/internal/kv"
)

// relayURLKey is the durable key for the webhook URL override.
const relayURLKey = "attensync:gasUrl"

// Settings reads and writes runtime overrides on top of static defaults.
type Settings struct {
	store           kv.Store
	defaultRelayURL string
}

// New creates settings over the given backend. defaultRelayURL is served
// whenever no override has been saved.
func New(store kv.Store, defaultRelayURL string) *Settings {
	return &Settings{store: store, defaultRelayURL: defaultRelayURL}
}

// RelayURL returns the effective webhook URL. A stored empty string falls
// back to the default; an empty result disables the relay.
func (s *Settings) RelayURL(ctx context.Context) string {
	raw, ok, err := s.store.Get(ctx, relayURLKey)
	if err != nil {
		log.Printf("read %s failed: %v", relayURLKey, err)
		return s.defaultRelayURL
	}
	if !ok || len(raw) == 0 {
		return s.defaultRelayURL
	}
	return string(raw)
}

// SetRelayURL persists the override. Saving an empty string reverts to the
// default.
func (s *Settings) SetRelayURL(ctx context.Context, url string) error {
	return s.store.Set(ctx, relayURLKey, []byte(url))
}
