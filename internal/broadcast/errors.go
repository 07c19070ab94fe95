package broadcast

import "errors"

var errNoRelayer = errors.New("broadcast relayer is not configured")
