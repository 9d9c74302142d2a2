package profile

import "errors"

var (
	// ErrUnavailable: remote load failed and no cached record exists. The
	// screen shows an explicit failure state instead of fabricated data.
	ErrUnavailable = errors.New("profile unavailable")
	// ErrSyncFailed: the remote leg of a save failed after the local cache
	// write succeeded. Warning grade, never rolled back.
	ErrSyncFailed = errors.New("profile sync failed")
)
