package users

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("user not found")

// User es la vista mínima del directorio de usuarios que necesita el flujo
// de solicitudes (nombres para joins, rol admin para ruteo de mensajes).
type User struct {
	ID       string
	Name     string
	LastName string
	Email    string
	IsAdmin  bool
}

func (u User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.LastName)
}

// Directory es de solo lectura: el alta de usuarios vive en el servicio de auth.
type Directory interface {
	Get(ctx context.Context, id string) (User, error)
	// FirstAdmin devuelve el admin más antiguo; ErrNotFound si no hay ninguno.
	FirstAdmin(ctx context.Context) (User, error)
}
