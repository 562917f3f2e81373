package ordering

import (
	"bytes"
	"context"
	"io"
	"testing"
)

type stubRenderer struct {
	lastTemplate string
	lastPayload  map[string]any
	err          error
}

func (r *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.lastTemplate = name
	if payload, ok := data.(map[string]any); ok {
		r.lastPayload = payload
	}
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("<html></html>"))
	}
	return "<html></html>", r.err
}

func TestControllerRenderTemplate(t *testing.T) {
	service := newSeededService(t, Options{})
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{
		Service:  service,
		Renderer: renderer,
	})

	var buf bytes.Buffer
	if err := controller.RenderTemplate(context.Background(), CollectionHeroBanners, &buf); err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if renderer.lastTemplate != "board.html" {
		t.Fatalf("expected board template to render, got %s", renderer.lastTemplate)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected rendered output")
	}
	scopes, ok := renderer.lastPayload["scopes"].([]map[string]any)
	if !ok || len(scopes) != 2 {
		t.Fatalf("expected two scopes, got %#v", renderer.lastPayload["scopes"])
	}
	if items := scopes[0]["items"].([]map[string]any); len(items) != 3 {
		t.Fatalf("expected three desktop items, got %d", len(items))
	}
}

func TestControllerUnknownCollection(t *testing.T) {
	controller := NewController(ControllerOptions{
		Service:  NewService(Options{Store: NewMemoryStore()}),
		Renderer: &stubRenderer{},
	})
	if err := controller.RenderTemplate(context.Background(), "carousels", io.Discard); err == nil {
		t.Fatalf("expected error for unknown collection")
	}
}
