package app

import (
	"context"
	"sync"

	"quizdom/internal/domain"
)

// ScreenRouter tracks the visible screen and runs per-screen entry hooks.
type ScreenRouter struct {
	renderer Renderer

	mu      sync.RWMutex
	current domain.Screen
	hooks   map[domain.Screen]func(context.Context)
}

func NewScreenRouter(renderer Renderer) *ScreenRouter {
	if renderer == nil {
		renderer = discardRenderer{}
	}
	return &ScreenRouter{
		renderer: renderer,
		current:  domain.ScreenMainMenu,
		hooks:    make(map[domain.Screen]func(context.Context)),
	}
}

// Handle registers the entry hook for a screen, replacing any previous one.
func (r *ScreenRouter) Handle(screen domain.Screen, hook func(context.Context)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[screen] = hook
}

// Show makes screen the visible one and runs its hook, if any.
func (r *ScreenRouter) Show(ctx context.Context, screen domain.Screen) {
	r.mu.Lock()
	r.current = screen
	hook := r.hooks[screen]
	r.mu.Unlock()

	r.renderer.Render(domain.Event{Type: domain.EventScreen, Payload: domain.ScreenPayload{Screen: screen}})
	if hook != nil {
		hook(ctx)
	}
}

func (r *ScreenRouter) Current() domain.Screen {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}
