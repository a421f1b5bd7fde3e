// Package clock provides a tiny time abstraction.
//
// Business code depends on Clocker instead of calling time.Now() directly, so
// expiry and token lifetimes can be tested with a Manual clock that only
// advances when the test says so.
package clock
