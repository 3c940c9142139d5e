package appointments

import "time"

// busyRadius is how long an agent is considered occupied on either side of a
// visit. One millisecond under an hour, so back-to-back hourly slots land
// exactly on the open boundary and are allowed.
const busyRadius = 3599000 * time.Millisecond

// conflictWindow returns the open interval around t inside which another
// appointment for the same agent counts as a clash. Both bounds are
// exclusive; callers must compare with strict inequality.
func conflictWindow(t time.Time) (from, to time.Time) {
	return t.Add(-busyRadius), t.Add(busyRadius)
}
