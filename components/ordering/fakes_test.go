package ordering

import (
	"context"
	"sync"
)

type fakeClient struct {
	mu          sync.Mutex
	items       []Item
	listErr     error
	updateErr   error
	listCalls   int
	updateCalls []UpdatePositionsInput
	// onUpdate runs before UpdatePositions returns, outside the lock.
	onUpdate func()
	// onList runs after List has read the items, outside the lock.
	onList func(call int)
}

func (c *fakeClient) List(_ context.Context, query ListQuery) ([]Item, error) {
	c.mu.Lock()
	c.listCalls++
	call := c.listCalls
	hook := c.onList
	if c.listErr != nil {
		err := c.listErr
		c.mu.Unlock()
		return nil, err
	}
	out := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		if query.Scope != "" && item.Scope != query.Scope {
			continue
		}
		out = append(out, item.Clone())
	}
	c.mu.Unlock()
	if hook != nil {
		hook(call)
	}
	return out, nil
}

func (c *fakeClient) setOnList(hook func(call int)) {
	c.mu.Lock()
	c.onList = hook
	c.mu.Unlock()
}

func (c *fakeClient) setItems(items []Item) {
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
}

func (c *fakeClient) UpdatePositions(_ context.Context, input UpdatePositionsInput) error {
	c.mu.Lock()
	c.updateCalls = append(c.updateCalls, input)
	hook := c.onUpdate
	err := c.updateErr
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	return err
}

func (c *fakeClient) setListErr(err error) {
	c.mu.Lock()
	c.listErr = err
	c.mu.Unlock()
}

func (c *fakeClient) calls() (int, []UpdatePositionsInput) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listCalls, append([]UpdatePositionsInput(nil), c.updateCalls...)
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (n *recordingNotifier) Notify(_ context.Context, notice Notice) {
	n.mu.Lock()
	n.notices = append(n.notices, notice)
	n.mu.Unlock()
}

func (n *recordingNotifier) last() (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notices) == 0 {
		return Notice{}, false
	}
	return n.notices[len(n.notices)-1], true
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (t *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	t.mu.Lock()
	t.events = append(t.events, event)
	t.mu.Unlock()
}

func (t *recordingTelemetry) names() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.events...)
}

func itemsABCD() []Item {
	return []Item{
		{ID: "A", Position: 1, Title: "A"},
		{ID: "B", Position: 2, Title: "B"},
		{ID: "C", Position: 3, Title: "C"},
		{ID: "D", Position: 4, Title: "D"},
	}
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}
