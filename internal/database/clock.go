package database

import "time"

const dateLayout = "2006-01-02"

// Clock returns the current time; repositories stamp rows with its date
type Clock func() time.Time

func (c Clock) today() string {
	if c == nil {
		return time.Now().Format(dateLayout)
	}
	return c().Format(dateLayout)
}
