package memory

import (
	"context"
	"testing"

	"quizdom/internal/app"
)

func TestSessionRegistryLifecycle(t *testing.T) {
	ctx := context.Background()
	registry := NewSessionRegistry()
	session := app.NewQuizSession(app.Config{Settings: app.NewSettingsStore(NewKVStore())})

	registry.Register(ctx, "client-1", session)
	if _, ok := registry.Get("client-1"); !ok {
		t.Fatalf("expected session present")
	}
	if registry.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", registry.Len())
	}

	registry.Unregister(ctx, "client-1")
	if _, ok := registry.Get("client-1"); ok {
		t.Fatalf("expected session removed")
	}

	registry.Register(ctx, "client-2", session)
	registry.CloseAll(ctx)
	if registry.Len() != 0 {
		t.Fatalf("expected registry emptied, got %d", registry.Len())
	}
}
