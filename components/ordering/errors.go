package ordering

import "errors"

var (
	// ErrPersistFailed wraps the failure of a reorder persistence call. The
	// reconciler has already replaced its state with server data when it is
	// returned.
	ErrPersistFailed = errors.New("ordering: persisting positions failed")
	// ErrReorderInFlight is returned when a drop arrives while a previous
	// reorder of the same scope is still being persisted.
	ErrReorderInFlight = errors.New("ordering: reorder already in flight")
	// ErrUnknownCollection is returned for collections missing from the registry.
	ErrUnknownCollection = errors.New("ordering: unknown collection")
	// ErrItemNotFound is returned when an id does not exist in the collection.
	ErrItemNotFound = errors.New("ordering: item not found")
	// ErrInvalidBatch is returned when a positions batch would break the
	// 1..n sequence of a scope.
	ErrInvalidBatch = errors.New("ordering: invalid positions batch")
	// ErrInvalidScope is returned for scopes the collection does not declare.
	ErrInvalidScope = errors.New("ordering: invalid scope")
	// ErrInvalidFields is returned when item fields fail the collection schema.
	ErrInvalidFields = errors.New("ordering: invalid item fields")
	// ErrIndexOutOfRange is returned by Move for indexes outside the list.
	ErrIndexOutOfRange = errors.New("ordering: index out of range")

	errMissingStore      = errors.New("ordering: store not configured")
	errMissingClient     = errors.New("ordering: collection client not configured")
	errMissingCollection = errors.New("ordering: collection code is required")
	errMissingItemID     = errors.New("ordering: item id is required")
)
