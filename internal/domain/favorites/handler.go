package favorites

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/me/favorites", func(fr chi.Router) {
		fr.Get("/", listFavoriteIDsHandler(svc))
		fr.Get("/pets", listFavoritePetsHandler(svc))
		fr.Put("/{petID}", addFavoriteHandler(svc))
		fr.Delete("/{petID}", removeFavoriteHandler(svc))
		fr.Post("/{petID}/toggle", toggleFavoriteHandler(svc))
	})
}

type favoriteStateResponse struct {
	PetID    string `json:"petId"`
	Favorite bool   `json:"favorite"`
}

// listFavoriteIDsHandler godoc
// @Summary IDs de mis favoritos
// @Tags favorites
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Success 200 {array} string
// @Failure 401 {string} string "unauthorized"
// @Router /me/favorites [get]
func listFavoriteIDsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, svc.IDs(r.Context(), userID))
	}
}

// listFavoritePetsHandler godoc
// @Summary Mis mascotas favoritas
// @Tags favorites
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Success 200 {array} object
// @Failure 401 {string} string "unauthorized"
// @Router /me/favorites/pets [get]
func listFavoritePetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, pets.JSONList(svc.Pets(r.Context(), userID)))
	}
}

// addFavoriteHandler godoc
// @Summary Marcar favorito
// @Description Idempotente.
// @Tags favorites
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} favoriteStateResponse
// @Failure 400 {string} string "invalid argument"
// @Failure 401 {string} string "unauthorized"
// @Router /me/favorites/{petID} [put]
func addFavoriteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		petID := chi.URLParam(r, "petID")
		if err := svc.Add(r.Context(), userID, petID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, favoriteStateResponse{PetID: petID, Favorite: true})
	}
}

// removeFavoriteHandler godoc
// @Summary Quitar favorito
// @Description Idempotente.
// @Tags favorites
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} favoriteStateResponse
// @Failure 400 {string} string "invalid argument"
// @Failure 401 {string} string "unauthorized"
// @Router /me/favorites/{petID} [delete]
func removeFavoriteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		petID := chi.URLParam(r, "petID")
		if err := svc.Remove(r.Context(), userID, petID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, favoriteStateResponse{PetID: petID, Favorite: false})
	}
}

// toggleFavoriteHandler godoc
// @Summary Alternar favorito
// @Tags favorites
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} favoriteStateResponse
// @Failure 400 {string} string "invalid argument"
// @Failure 401 {string} string "unauthorized"
// @Router /me/favorites/{petID}/toggle [post]
func toggleFavoriteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		petID := chi.URLParam(r, "petID")
		fav, err := svc.Toggle(r.Context(), userID, petID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, favoriteStateResponse{PetID: petID, Favorite: fav})
	}
}

func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
