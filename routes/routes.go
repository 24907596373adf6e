// Package routes holds the application's handlers and binds them to a router.
package routes

import "github.com/go-barry/bodensee/core"

// Register binds every application route. Order matters: the first
// matching registration wins.
func Register(r *core.Router) error {
	if err := r.Register("/hello/<name>", "GET", Hello); err != nil {
		return err
	}
	return r.Register("/api/bodensee", "GET", Bodensee)
}
