package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

// timeLayout is the RFC3339 format for storing times in SQLite
const timeLayout = time.RFC3339Nano
