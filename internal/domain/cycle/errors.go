package cycle

import "errors"

// ErrInvalidID indicates a cycle id that does not follow {yyyy}-{mm}-C1|C2.
var ErrInvalidID = errors.New("invalid cycle id")
