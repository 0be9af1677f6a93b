package model

import "time"

// Clock supplies the current time. Injected so quota day rollover is
// deterministic in tests.
type Clock interface {
	Now() time.Time
}
