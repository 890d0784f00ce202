//go:build sqlite_vec && cgo

package cache

import (
	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

func init() {
	// Auto-register the real sqlite-vec extension for the cgo-backed driver.
	// Builds without this tag fall back to the pure-Go vec0 compat layer in
	// vec_compat.go.
	vec.Auto()
}
