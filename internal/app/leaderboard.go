package app

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"quizdom/internal/domain"
)

// LeaderboardLimit caps both the persisted set and the remote fetch.
const LeaderboardLimit = 50

// LeaderboardFetcher reads the shared leaderboard from the backend.
type LeaderboardFetcher interface {
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

// LeaderboardStore ranks historical results. Reads go to the backend first and
// fall back to the locally persisted set; writes only touch the local set.
type LeaderboardStore struct {
	remote LeaderboardFetcher
	kv     KVStore

	mu sync.Mutex
}

// NewLeaderboardStore builds a store; remote may be nil for offline use.
func NewLeaderboardStore(remote LeaderboardFetcher, kv KVStore) *LeaderboardStore {
	return &LeaderboardStore{remote: remote, kv: kv}
}

// Load returns the remote leaderboard, or the local one when the backend is unreachable.
// The two sources are never merged.
func (s *LeaderboardStore) Load(ctx context.Context) []domain.LeaderboardEntry {
	if s.remote != nil {
		entries, err := s.remote.Leaderboard(ctx, LeaderboardLimit)
		if err == nil {
			return entries
		}
		log.Printf("leaderboard fetch failed, using local copy: %v", err)
	}

	entries, err := s.local(ctx)
	if err != nil {
		log.Printf("load local leaderboard: %v", err)
		return nil
	}
	return entries
}

// Record inserts an entry into the local set, keeps it sorted by score and capped.
func (s *LeaderboardStore) Record(ctx context.Context, entry domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.local(ctx)
	if err != nil {
		return nil, err
	}
	entries = append(entries, entry)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > LeaderboardLimit {
		entries = entries[:LeaderboardLimit]
	}
	if err := setJSON(ctx, s.kv, LeaderboardKey, entries); err != nil {
		return nil, fmt.Errorf("save leaderboard: %w", err)
	}
	return entries, nil
}

func (s *LeaderboardStore) local(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	var entries []domain.LeaderboardEntry
	if _, err := getJSON(ctx, s.kv, LeaderboardKey, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

var rankGlyphs = [...]string{"🥇", "🥈", "🥉"}

// Rank assigns medal glyphs to the top three and ordinal ranks to the rest.
func Rank(entries []domain.LeaderboardEntry) []domain.RankedEntry {
	ranked := make([]domain.RankedEntry, 0, len(entries))
	for i, e := range entries {
		rank := fmt.Sprintf("#%d", i+1)
		if i < len(rankGlyphs) {
			rank = rankGlyphs[i]
		}
		ranked = append(ranked, domain.RankedEntry{Position: i + 1, Rank: rank, Entry: e})
	}
	return ranked
}
