package activity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHook struct {
	events []Event
	err    error
}

func (h *recordingHook) Notify(_ context.Context, evt Event) error {
	h.events = append(h.events, evt)
	return h.err
}

func TestEmitterDefaultsChannelAndEmits(t *testing.T) {
	hook := &recordingHook{}
	em := NewEmitter(Hooks{hook}, Config{Enabled: true})
	require.True(t, em.Enabled())

	err := em.Emit(context.Background(), Event{
		Verb:       "ordering.positions.update",
		ObjectType: "collection",
		ObjectID:   "hero-banners",
	})
	require.NoError(t, err)
	require.Len(t, hook.events, 1)
	assert.Equal(t, DefaultChannel, hook.events[0].Channel)
	assert.False(t, hook.events[0].OccurredAt.IsZero())
}

func TestEmitterDisabledWithoutHooks(t *testing.T) {
	em := NewEmitter(nil, Config{Enabled: true})
	assert.False(t, em.Enabled())
	assert.NoError(t, em.Emit(context.Background(), Event{Verb: "x", ObjectType: "y", ObjectID: "z"}))
}

func TestEmitterDisabledByConfig(t *testing.T) {
	hook := &recordingHook{}
	em := NewEmitter(Hooks{hook}, Config{})
	require.NoError(t, em.Emit(context.Background(), Event{Verb: "x", ObjectType: "y", ObjectID: "z"}))
	assert.Empty(t, hook.events)
}

func TestEmitterJoinsHookErrors(t *testing.T) {
	first := &recordingHook{err: errors.New("sink down")}
	second := &recordingHook{}
	em := NewEmitter(Hooks{first, second}, Config{Enabled: true, Channel: "admin"})
	err := em.Emit(context.Background(), Event{Verb: "x", ObjectType: "y", ObjectID: "z"})
	require.Error(t, err)
	assert.Len(t, second.events, 1, "later hooks still run")
	assert.Equal(t, "admin", second.events[0].Channel)
}
