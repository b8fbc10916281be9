package discovery

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-adoption/internal/domain/favorites"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/domain/swipes"
	"pet-adoption/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/me/discovery", queueHandler(svc))
	r.Post("/me/swipes", swipeHandler(svc))
	r.Get("/me/swipes", historyHandler(svc))
	r.Get("/me/stats", statsHandler(svc))
}

// RegisterDevRoutes expone el reset de la base local. Solo se monta si la config lo permite.
func RegisterDevRoutes(r chi.Router, svc *Service) {
	r.Post("/dev/reset", resetHandler(svc))
}

type swipeRequest struct {
	PetID  string `json:"petId"`
	Action string `json:"action"` // like | pass
}

type swipeResponse struct {
	PetID     string        `json:"petId"`
	Action    swipes.Action `json:"action"`
	Timestamp time.Time     `json:"timestamp"`
}

// queueHandler godoc
// @Summary Cola de descubrimiento
// @Description Mascotas disponibles de otros usuarios que el usuario aún no deslizó.
// @Tags discovery
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Success 200 {array} object
// @Failure 401 {string} string "unauthorized"
// @Router /me/discovery [get]
func queueHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, pets.JSONList(svc.Queue(r.Context(), userID)))
	}
}

// swipeHandler godoc
// @Summary Registrar swipe
// @Description Like o pass sobre una mascota. Un like también la agrega a favoritos.
// @Tags discovery
// @Accept json
// @Produce json
// @Param payload body swipeRequest true "Decisión"
// @Success 200 {object} swipeResponse
// @Failure 400 {string} string "invalid argument"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pet not found"
// @Router /me/swipes [post]
func swipeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req swipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rec, err := svc.Swipe(r.Context(), userID, req.PetID, req.Action)
		if err != nil {
			switch {
			case errors.Is(err, swipes.ErrInvalidArgument), errors.Is(err, favorites.ErrInvalidArgument):
				http.Error(w, "invalid argument", http.StatusBadRequest)
			case errors.Is(err, pets.ErrNotFound):
				http.Error(w, "pet not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, swipeResponse{PetID: rec.PetID, Action: rec.Action, Timestamp: rec.Timestamp})
	}
}

// historyHandler godoc
// @Summary Historial de swipes
// @Tags discovery
// @Produce json
// @Success 200 {array} swipeResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/swipes [get]
func historyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		history := svc.swipes.History(r.Context(), userID)
		out := make([]swipeResponse, 0, len(history))
		for _, rec := range history {
			out = append(out, swipeResponse{PetID: rec.PetID, Action: rec.Action, Timestamp: rec.Timestamp})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// statsHandler godoc
// @Summary Estadísticas del usuario
// @Tags discovery
// @Produce json
// @Success 200 {object} Stats
// @Failure 401 {string} string "unauthorized"
// @Router /me/stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, svc.Stats(r.Context(), userID))
	}
}

// resetHandler godoc
// @Summary Reiniciar base local (dev)
// @Tags dev
// @Success 204
// @Failure 500 {string} string "internal error"
// @Router /dev/reset [post]
func resetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Reset(r.Context()); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
