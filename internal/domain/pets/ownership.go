package pets

import "strings"

// authorize aplica la única regla de permisos: solo el dueño modifica o elimina.
func authorize(p Pet, requestingUserID string) error {
	uid := strings.TrimSpace(requestingUserID)
	if uid == "" || uid != p.OwnerID {
		return ErrForbidden
	}
	return nil
}

// IsOwnedBy indica si la mascota pertenece a userID.
func (p Pet) IsOwnedBy(userID string) bool {
	return authorize(p, userID) == nil
}

// Adoptable indica si la mascota puede ofrecerse a otros usuarios.
func (p Pet) Adoptable() bool {
	return p.IsActive && p.AdoptionStatus == StatusAvailable
}
