package swipes

import (
	"strings"
	"time"
)

// Action es la decisión del usuario sobre una mascota.
// @Enum like, pass
type Action string

const (
	ActionLike Action = "like"
	ActionPass Action = "pass"
)

func ParseAction(s string) (Action, bool) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionLike:
		return ActionLike, true
	case ActionPass:
		return ActionPass, true
	}
	return "", false
}

// Record es la última decisión de un usuario sobre una mascota.
// Volver a decidir sobre la misma mascota reemplaza el registro anterior.
type Record struct {
	PetID     string
	Action    Action
	Timestamp time.Time
}
