package usecase

import (
	"fmt"
	"sync/atomic"
	"time"
)

type sequenceIDs struct {
	prefix string
	next   atomic.Int64
}

func (g *sequenceIDs) NewID() (string, error) {
	return fmt.Sprintf("%s%d", g.prefix, g.next.Add(1)), nil
}

type failingIDs struct{ err error }

func (g failingIDs) NewID() (string, error) { return "", g.err }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
