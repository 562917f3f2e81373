package gorouter

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-reorder/components/ordering"
	"github.com/goliatone/go-reorder/components/ordering/httpapi"
)

// Config wires go-router with the ordered collection API, board and hooks.
type Config[T any] struct {
	Router     router.Router[T]
	API        httpapi.Executor
	Controller *ordering.Controller
	Broadcast  *ordering.BroadcastHook
	Verifier   httpapi.TokenVerifier
	BasePath   string
	Routes     RouteConfig
}

// RouteConfig customizes the relative paths of the endpoints.
type RouteConfig struct {
	Collection string
	Positions  string
	Item       string
	Refresh    string
	Board      string
	WebSocket  string
}

// Register mounts the REST, HTML and WebSocket routes on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.API == nil {
		return errors.New("gorouter: api executor is required")
	}
	routes := cfg.routes()
	base := cfg.BasePath
	if base == "" {
		base = "/api"
	}
	group := cfg.Router.Group(base)

	// Fixed paths go first so they are not captured as collection codes.
	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}
	if cfg.Controller != nil {
		group.Get(routes.Board, authorized(cfg.Verifier, func(ctx router.Context, reqCtx context.Context) error {
			var buf bytes.Buffer
			if err := cfg.Controller.RenderTemplate(reqCtx, ctx.Param("collection"), &buf); err != nil {
				return respondError(ctx, err)
			}
			ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
			return ctx.Send(buf.Bytes())
		}))
	}
	registerAPI(group, cfg.API, cfg.Verifier, routes)
	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, verifier httpapi.TokenVerifier, routes RouteConfig) {
	r.Get(routes.Collection, authorized(verifier, func(ctx router.Context, reqCtx context.Context) error {
		def, err := api.Collection(reqCtx, ctx.Param("collection"))
		if err != nil {
			return respondError(ctx, err)
		}
		scope := httpapi.ScopeFor(def, func(key string) string { return ctx.Query(key) })
		items, err := api.List(reqCtx, ordering.ListQuery{Collection: def.Code, Scope: scope})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, httpapi.EncodeItems(def, items))
	}))

	r.Put(routes.Positions, authorized(verifier, func(ctx router.Context, reqCtx context.Context) error {
		def, err := api.Collection(reqCtx, ctx.Param("collection"))
		if err != nil {
			return respondError(ctx, err)
		}
		scope := httpapi.ScopeFor(def, func(key string) string { return ctx.Query(key) })
		input, err := httpapi.DecodePositionsBody(def, scope, ctx.Body())
		if err != nil {
			return respondError(ctx, err)
		}
		if err := api.UpdatePositions(reqCtx, input); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	r.Post(routes.Collection, authorized(verifier, func(ctx router.Context, reqCtx context.Context) error {
		def, err := api.Collection(reqCtx, ctx.Param("collection"))
		if err != nil {
			return respondError(ctx, err)
		}
		input, err := httpapi.DecodeCreateItem(def, ctx.Body())
		if err != nil {
			return respondError(ctx, err)
		}
		item, err := api.CreateItem(reqCtx, input)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, item.ExportScope(def.PartitionKey))
	}))

	r.Delete(routes.Item, authorized(verifier, func(ctx router.Context, reqCtx context.Context) error {
		if err := api.DeleteItem(reqCtx, ctx.Param("collection"), ctx.Param("id")); err != nil {
			return respondError(ctx, err)
		}
		return ctx.NoContent(http.StatusNoContent)
	}))

	r.Post(routes.Refresh, authorized(verifier, func(ctx router.Context, reqCtx context.Context) error {
		def, err := api.Collection(reqCtx, ctx.Param("collection"))
		if err != nil {
			return respondError(ctx, err)
		}
		scope := httpapi.ScopeFor(def, func(key string) string { return ctx.Query(key) })
		if err := api.Refresh(reqCtx, httpapi.RefreshEvent(def, scope)); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "refreshed"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *ordering.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// authorized checks the bearer token and hands the handler a request context
// carrying the session and actor.
func authorized(verifier httpapi.TokenVerifier, next func(router.Context, context.Context) error) router.HandlerFunc {
	return router.WrapHandler(func(ctx router.Context) error {
		reqCtx, err := httpapi.Authorize(ctx.Context(), verifier, ctx.Header("Authorization"))
		if err != nil {
			ctx.SetHeader("WWW-Authenticate", "Bearer")
			return respondError(ctx, err)
		}
		return next(ctx, reqCtx)
	})
}

func respondError(ctx router.Context, err error) error {
	return ctx.JSON(httpapi.StatusFor(err), map[string]string{"error": err.Error()})
}

func (cfg Config[T]) routes() RouteConfig {
	return defaultRouteConfig(cfg.Routes)
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Collection == "" {
		routes.Collection = "/:collection"
	}
	if routes.Positions == "" {
		routes.Positions = "/:collection/positions/update"
	}
	if routes.Item == "" {
		routes.Item = "/:collection/:id"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/:collection/_refresh"
	}
	if routes.Board == "" {
		routes.Board = "/:collection/_board"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/_ws"
	}
	return routes
}
