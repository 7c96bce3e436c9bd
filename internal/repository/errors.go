package repository

import "errors"

// ErrMalformedDocument is returned when a stored JSONB document does not
// decode into its expected shape. A row carrying it is treated as unreadable
// rather than silently partially loaded.
var ErrMalformedDocument = errors.New("stored document is malformed")
