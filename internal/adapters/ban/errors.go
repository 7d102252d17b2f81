package ban

import (
	"errors"
)

// ErrNotConfirmed marks an attempt the enforcement service did not confirm.
var ErrNotConfirmed = errors.New("ban not confirmed")
