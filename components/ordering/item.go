package ordering

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Item is a single entry of an ordered collection (a banner, a featured image).
type Item struct {
	ID       string
	Position int
	Scope    string
	Title    string
	Image    string
	Active   Flag
	Fields   map[string]any
}

var knownItemKeys = map[string]struct{}{
	"id":        {},
	"position":  {},
	"scope":     {},
	"title":     {},
	"image":     {},
	"image_url": {},
	"is_active": {},
}

// Clone returns a copy whose Fields map is not shared with the receiver.
func (i Item) Clone() Item {
	if i.Fields != nil {
		fields := make(map[string]any, len(i.Fields))
		for k, v := range i.Fields {
			fields[k] = v
		}
		i.Fields = fields
	}
	return i
}

// MarshalJSON flattens Fields next to the known attributes.
func (i Item) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(i.Fields)+6)
	for k, v := range i.Fields {
		out[k] = v
	}
	out["id"] = i.ID
	out["position"] = i.Position
	out["is_active"] = bool(i.Active)
	if i.Scope != "" {
		out["scope"] = i.Scope
	}
	if i.Title != "" {
		out["title"] = i.Title
	}
	if i.Image != "" {
		out["image"] = i.Image
	}
	return json.Marshal(out)
}

// UnmarshalJSON normalizes loosely typed payloads: ids and positions may be
// strings or numbers, is_active may be a bool, 0/1 or a string.
func (i *Item) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("ordering: decode item: %w", err)
	}
	var item Item
	id, err := normalizeID(raw["id"])
	if err != nil {
		return err
	}
	item.ID = id
	if v, ok := raw["position"]; ok && v != nil {
		pos, err := normalizePosition(v)
		if err != nil {
			return err
		}
		item.Position = pos
	}
	item.Scope = stringValue(raw["scope"])
	item.Title = stringValue(raw["title"])
	item.Image = stringValue(raw["image"])
	if item.Image == "" {
		item.Image = stringValue(raw["image_url"])
	}
	if v, ok := raw["is_active"]; ok {
		flag, err := ParseFlag(v)
		if err != nil {
			return err
		}
		item.Active = flag
	}
	for k, v := range raw {
		if _, known := knownItemKeys[k]; known {
			continue
		}
		if item.Fields == nil {
			item.Fields = map[string]any{}
		}
		item.Fields[k] = v
	}
	*i = item
	return nil
}

// AdoptScope moves the partition key value out of Fields into Scope. Backends
// return the partition under its own name (device_type=mobile).
func (i *Item) AdoptScope(partitionKey string) {
	if partitionKey == "" || i.Fields == nil {
		return
	}
	v, ok := i.Fields[partitionKey]
	if !ok {
		return
	}
	if i.Scope == "" {
		i.Scope = stringValue(v)
	}
	delete(i.Fields, partitionKey)
	if len(i.Fields) == 0 {
		i.Fields = nil
	}
}

// ExportScope is the inverse of AdoptScope, used when encoding for a client
// that expects the partition key by name.
func (i Item) ExportScope(partitionKey string) Item {
	if partitionKey == "" || i.Scope == "" {
		return i
	}
	out := i.Clone()
	if out.Fields == nil {
		out.Fields = map[string]any{}
	}
	out.Fields[partitionKey] = i.Scope
	return out
}

func normalizeID(v any) (string, error) {
	switch id := v.(type) {
	case string:
		id = strings.TrimSpace(id)
		if id == "" {
			return "", errMissingItemID
		}
		return id, nil
	case json.Number:
		return id.String(), nil
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	case nil:
		return "", errMissingItemID
	default:
		return "", fmt.Errorf("ordering: unsupported id type %T", v)
	}
}

func normalizePosition(v any) (int, error) {
	switch p := v.(type) {
	case json.Number:
		n, err := strconv.Atoi(p.String())
		if err != nil {
			return 0, fmt.Errorf("ordering: invalid position %q: %w", p.String(), err)
		}
		return n, nil
	case float64:
		return int(p), nil
	case int:
		return p, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, fmt.Errorf("ordering: invalid position %q: %w", p, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("ordering: unsupported position type %T", v)
	}
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}
