package app

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"

	"quizdom/internal/domain"
)

// SettingsForm carries raw settings input as typed by the player.
type SettingsForm struct {
	SoundEnabled     bool   `json:"soundEnabled"`
	TimerDuration    string `json:"timerDuration"`
	QuestionsPerQuiz string `json:"questionsPerQuiz"`
}

// SettingsStore keeps the process-wide settings and persists them locally.
type SettingsStore struct {
	kv KVStore

	mu      sync.RWMutex
	current domain.Settings
}

func NewSettingsStore(kv KVStore) *SettingsStore {
	return &SettingsStore{kv: kv, current: domain.DefaultSettings()}
}

// Load merges persisted values over the defaults; persisted keys win.
func (s *SettingsStore) Load(ctx context.Context) domain.Settings {
	merged := domain.DefaultSettings()
	if _, err := getJSON(ctx, s.kv, SettingsKey, &merged); err != nil {
		log.Printf("load settings: %v", err)
		merged = domain.DefaultSettings()
	}

	s.mu.Lock()
	s.current = merged
	s.mu.Unlock()
	return merged
}

// Current returns the in-memory settings.
func (s *SettingsStore) Current() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Save replaces all recognized fields from the form and persists them.
func (s *SettingsStore) Save(ctx context.Context, form SettingsForm) (domain.Settings, error) {
	timer, err := parsePositive("timerDuration", form.TimerDuration)
	if err != nil {
		return domain.Settings{}, err
	}
	count, err := parsePositive("questionsPerQuiz", form.QuestionsPerQuiz)
	if err != nil {
		return domain.Settings{}, err
	}

	next := domain.Settings{
		SoundEnabled:     form.SoundEnabled,
		TimerDuration:    timer,
		QuestionsPerQuiz: count,
	}
	if err := setJSON(ctx, s.kv, SettingsKey, next); err != nil {
		return domain.Settings{}, err
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return next, nil
}

func parsePositive(field, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, &domain.ValidationError{Field: field, Message: "must be a positive whole number"}
	}
	return n, nil
}
