// Package store persists locations, hardware groups and accepted quotes in
// SQLite. Locations are stored as JSON documents so that floor plans keep
// their exact shape and ordering.
package store

import "errors"

var ErrNotFound = errors.New("not found")
