package signal

import "errors"

// ErrHubClosed is returned by Emit after Close.
var ErrHubClosed = errors.New("signal: hub is closed")
