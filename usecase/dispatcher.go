package usecase

import (
	"context"
	"fmt"
	"sync"
)

// CommandHandler runs one named command against payload.
type CommandHandler func(ctx context.Context, payload interface{}) (interface{}, error)

// Dispatcher routes named commands to their handlers. The board registers one
// command per lifecycle action.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]CommandHandler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]CommandHandler)}
}

// Register binds handler to name, replacing any previous binding.
func (d *Dispatcher) Register(name string, handler CommandHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = handler
}

// Has reports whether a command named name is registered.
func (d *Dispatcher) Has(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.handlers[name]
	return ok
}

func (d *Dispatcher) Execute(ctx context.Context, name string, payload interface{}) (interface{}, error) {
	d.mu.RLock()
	handler, ok := d.handlers[name]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("command %s not registered", name)
	}
	return handler(ctx, payload)
}
