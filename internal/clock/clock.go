package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System reads the wall clock in Location (UTC when nil).
type System struct {
	Location *time.Location
}

func NewSystem(loc *time.Location) System {
	return System{Location: loc}
}

func (c System) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

// Fixed always reports At.
type Fixed struct {
	At time.Time
}

func (c Fixed) Now() time.Time {
	return c.At
}
