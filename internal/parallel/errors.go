// Package parallel holds small concurrency helpers shared by the factorial
// strategies.
package parallel

import "sync"

// ErrorCollector records the first non-nil error reported by any of a set of
// concurrent workers. The zero value is ready to use.
type ErrorCollector struct {
	mu  sync.Mutex
	err error
}

// SetError records err unless an error was already recorded. Nil is ignored.
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.mu.Unlock()
}

// Err returns the first recorded error, or nil.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
