package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-reorder/components/ordering"
)

// errMalformedBody marks request bodies that cannot be decoded at all.
var errMalformedBody = errors.New("httpapi: malformed request body")

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, errMalformedBody):
		return http.StatusBadRequest
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ordering.ErrUnknownCollection), errors.Is(err, ordering.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, ordering.ErrInvalidBatch),
		errors.Is(err, ordering.ErrInvalidScope),
		errors.Is(err, ordering.ErrInvalidFields):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ScopeFor reads the partition of a list request. The partition key of the
// collection is used as the query parameter name; "scope" is accepted too.
func ScopeFor(def ordering.CollectionDefinition, query func(string) string) string {
	if !def.Partitioned() {
		return ""
	}
	if v := strings.TrimSpace(query(def.PartitionKey)); v != "" {
		return v
	}
	return strings.TrimSpace(query("scope"))
}

// DecodePositionsBody validates and decodes a reorder body.
func DecodePositionsBody(def ordering.CollectionDefinition, scope string, body []byte) (ordering.UpdatePositionsInput, error) {
	positions, err := ordering.DecodePositions(body)
	if err != nil {
		return ordering.UpdatePositionsInput{}, fmt.Errorf("%w: %w", errMalformedBody, err)
	}
	return ordering.UpdatePositionsInput{
		Collection: def.Code,
		Scope:      scope,
		Positions:  positions,
	}, nil
}

// DecodeCreateItem reads a loosely typed item body. The partition key field,
// when present, becomes the scope; unknown keys are kept as fields.
func DecodeCreateItem(def ordering.CollectionDefinition, body []byte) (ordering.CreateItemInput, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return ordering.CreateItemInput{}, fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	input := ordering.CreateItemInput{Collection: def.Code}
	take := func(key string) (any, bool) {
		v, ok := raw[key]
		delete(raw, key)
		return v, ok
	}
	if v, ok := take("title"); ok {
		input.Title = fmt.Sprint(v)
	}
	if v, ok := take("image"); ok {
		input.Image = fmt.Sprint(v)
	}
	if v, ok := take("image_url"); ok && input.Image == "" {
		input.Image = fmt.Sprint(v)
	}
	if v, ok := take("is_active"); ok {
		flag, err := ordering.ParseFlag(v)
		if err != nil {
			return ordering.CreateItemInput{}, fmt.Errorf("%w: %v", errMalformedBody, err)
		}
		input.Active = flag
	}
	if v, ok := take("position"); ok && v != nil {
		pos, err := strconv.Atoi(strings.TrimSpace(fmt.Sprint(v)))
		if err != nil {
			return ordering.CreateItemInput{}, fmt.Errorf("%w: position: %v", errMalformedBody, err)
		}
		input.Position = &pos
	}
	if v, ok := take("scope"); ok && v != nil {
		input.Scope = fmt.Sprint(v)
	}
	if def.PartitionKey != "" {
		if v, ok := take(def.PartitionKey); ok && v != nil && input.Scope == "" {
			input.Scope = fmt.Sprint(v)
		}
	}
	delete(raw, "id")
	if len(raw) > 0 {
		input.Fields = raw
	}
	return input, nil
}

// EncodeItems exposes the scope under the partition key of the collection.
func EncodeItems(def ordering.CollectionDefinition, items []ordering.Item) []ordering.Item {
	out := make([]ordering.Item, len(items))
	for i, item := range items {
		out[i] = item.ExportScope(def.PartitionKey)
	}
	return out
}

// RefreshEvent builds the event sent by the refresh endpoint.
func RefreshEvent(def ordering.CollectionDefinition, scope string) ordering.CollectionEvent {
	return ordering.CollectionEvent{Collection: def.Code, Scope: scope, Reason: "refresh"}
}
