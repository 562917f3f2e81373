package activity

import "context"

// DefaultChannel tags events that do not specify one.
const DefaultChannel = "ordering"

// Config toggles activity emission.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter wraps Hooks with the configured defaults.
type Emitter struct {
	hooks Hooks
	cfg   Config
}

// NewEmitter builds an emitter. It is disabled when no hooks are given.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	return &Emitter{hooks: hooks, cfg: cfg}
}

// Enabled reports whether Emit forwards events.
func (e *Emitter) Enabled() bool {
	return e != nil && e.cfg.Enabled && len(e.hooks) > 0
}

// Emit forwards the event to the hooks when enabled.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if event.Channel == "" {
		event.Channel = e.cfg.Channel
	}
	return e.hooks.Notify(ctx, event)
}
