package app

import (
	"context"
	"log"
	"strings"
)

// DefaultPlayerName is used when the player declines to give a name.
const DefaultPlayerName = "Anonymous"

// PlayerStore remembers the display name used for leaderboard entries.
type PlayerStore struct {
	kv     KVStore
	prompt func() string
}

// NewPlayerStore builds a store; prompt may be nil.
func NewPlayerStore(kv KVStore, prompt func() string) *PlayerStore {
	return &PlayerStore{kv: kv, prompt: prompt}
}

// Name returns the persisted name, asking the prompt once when none is stored.
func (p *PlayerStore) Name(ctx context.Context) string {
	var name string
	found, err := getJSON(ctx, p.kv, PlayerNameKey, &name)
	if err != nil {
		log.Printf("load player name: %v", err)
	}
	if found && name != "" {
		return name
	}

	if p.prompt != nil {
		name = strings.TrimSpace(p.prompt())
	}
	if name == "" {
		name = DefaultPlayerName
	}
	if err := p.SetName(ctx, name); err != nil {
		log.Printf("save player name: %v", err)
	}
	return name
}

func (p *PlayerStore) SetName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultPlayerName
	}
	return setJSON(ctx, p.kv, PlayerNameKey, name)
}
