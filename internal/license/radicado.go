package license

import (
	"fmt"
	"math/rand"
	"time"
)

// NewRadicado builds the human-readable tracking code assigned at intake:
// LIC-<year>-<6-digit timestamp suffix><3-digit random>. The code is stored
// under a unique index; the random tail keeps same-second submissions apart,
// collisions beyond that surface as a conflict from the insert.
func NewRadicado(now time.Time) string {
	suffix := now.Unix() % 1_000_000
	return fmt.Sprintf("LIC-%d-%06d%03d", now.Year(), suffix, rand.Intn(1000))
}
