package providers

import (
	"fmt"
	"time"

	"dmrmonitor/internal/structures"
)

// Clock returns the current time in the dashboard's configured zone.
type Clock func() time.Time

func NewClockProvider(conf *structures.Config) (Clock, error) {
	name := conf.Website.Timezone
	if name == "" {
		name = "UTC"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return func() time.Time { return time.Now().In(loc) }, nil
}
