package bot

import (
	"log/slog"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/gatebot/internal/bot/event"
	"github.com/Proton-105/gatebot/internal/bot/handlers"
)

// Router dispatches every update to the handler registered for its kind.
// Kinds without a handler fall through to the Generic handler.
type Router struct {
	mu          sync.RWMutex
	routes      map[event.Kind]handlers.Handler
	middlewares []handlers.Middleware
	log         *slog.Logger
}

// NewRouter builds a Router with an empty route table.
func NewRouter(log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}

	return &Router{
		routes:      make(map[event.Kind]handlers.Handler, len(event.Kinds)),
		middlewares: make([]handlers.Middleware, 0),
		log:         log,
	}
}

// Handle registers h for kind, replacing any previous handler.
func (r *Router) Handle(kind event.Kind, h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[kind] = h
}

// Use appends a middleware to the chain. The first middleware added is the outermost.
func (r *Router) Use(mw handlers.Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, mw)
}

// Route classifies the update and runs the matching handler through the middleware chain.
func (r *Router) Route(c telebot.Context) error {
	if c == nil {
		return nil
	}

	kind := event.Classify(c)
	handler := r.handlerFor(kind)
	if handler == nil {
		r.log.Debug("no handler registered", slog.String("kind", kind.String()))
		return nil
	}

	return r.executeHandler(handler, c)
}

func (r *Router) handlerFor(kind event.Kind) handlers.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if h, ok := r.routes[kind]; ok && h != nil {
		return h
	}
	return r.routes[event.Generic]
}

func (r *Router) executeHandler(h handlers.Handler, c telebot.Context) error {
	wrapped := r.applyMiddlewares(h)
	if wrapped == nil {
		return nil
	}
	return wrapped(c)
}

// applyMiddlewares wraps the handler with all registered middlewares.
func (r *Router) applyMiddlewares(h handlers.Handler) handlers.Handler {
	if h == nil {
		return nil
	}

	middlewares := r.middlewaresSnapshot()
	wrapped := h
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}

	return wrapped
}

func (r *Router) middlewaresSnapshot() []handlers.Middleware {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.middlewares) == 0 {
		return nil
	}

	snapshot := make([]handlers.Middleware, len(r.middlewares))
	copy(snapshot, r.middlewares)
	return snapshot
}
