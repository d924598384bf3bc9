// Package clock abstrae la hora actual para que los casos de uso sean deterministas en tests.
package clock

import "time"

// Clock fuente de tiempo.
type Clock interface {
	Now() time.Time
}

// System reloj real (UTC).
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed reloj fijo para tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }
