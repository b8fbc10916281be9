package accounts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /auth. throttle (puede ser nil) se aplica a login, registro y recuperación.
func RegisterRoutes(r chi.Router, svc *Service, throttle func(http.Handler) http.Handler) {
	if throttle == nil {
		throttle = func(next http.Handler) http.Handler { return next }
	}

	r.Route("/auth", func(ar chi.Router) {
		ar.With(throttle).Post("/login", loginHandler(svc))
		ar.With(throttle).Post("/register", registerHandler(svc))
		ar.With(throttle).Post("/forgot-password", forgotPasswordHandler(svc))
		ar.Post("/logout", logoutHandler(svc))
		ar.Get("/session", sessionHandler(svc))
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

type sessionResponse struct {
	Token     string       `json:"token"`
	User      userResponse `json:"user"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

type sessionStateResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *userResponse `json:"user,omitempty"`
}

// Mensajes para mostrar al usuario.
var userMessages = map[error]string{
	ErrInvalidInput:       "Datos inválidos",
	ErrInvalidCredentials: "Credenciales inválidas",
	ErrEmailTaken:         "El email ya está registrado",
	ErrUserNotFound:       "Email no encontrado",
}

// loginHandler godoc
// @Summary Iniciar sesión
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} sessionResponse
// @Failure 400 {string} string "Datos inválidos"
// @Failure 401 {string} string "Credenciales inválidas"
// @Failure 429 {object} map[string]string
// @Router /auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sess, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(sess))
	}
}

// registerHandler godoc
// @Summary Registrar usuario
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Datos de registro"
// @Success 201 {object} sessionResponse
// @Failure 400 {string} string "Datos inválidos"
// @Failure 409 {string} string "El email ya está registrado"
// @Router /auth/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sess, err := svc.Register(r.Context(), RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toSessionResponse(sess))
	}
}

// logoutHandler godoc
// @Summary Cerrar sesión
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func logoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context()); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// forgotPasswordHandler godoc
// @Summary Recuperar contraseña
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body forgotPasswordRequest true "Email"
// @Success 200 {object} map[string]string
// @Failure 404 {string} string "Email no encontrado"
// @Router /auth/forgot-password [post]
func forgotPasswordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forgotPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := svc.ForgotPassword(r.Context(), req.Email); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Se enviaron las instrucciones para restablecer la contraseña",
		})
	}
}

// sessionHandler godoc
// @Summary Sesión actual del dispositivo
// @Tags auth
// @Produce json
// @Success 200 {object} sessionStateResponse
// @Router /auth/session [get]
func sessionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !svc.IsAuthenticated(r.Context()) {
			writeJSON(w, http.StatusOK, sessionStateResponse{Authenticated: false})
			return
		}
		u, _ := svc.CurrentUser(r.Context())
		ur := toUserResponse(u)
		writeJSON(w, http.StatusOK, sessionStateResponse{Authenticated: true, User: &ur})
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

func toSessionResponse(s Session) sessionResponse {
	return sessionResponse{Token: s.Token, User: toUserResponse(s.User), ExpiresAt: s.ExpiresAt}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	for sentinel, m := range userMessages {
		if errors.Is(err, sentinel) {
			msg = m
			break
		}
	}

	switch {
	case errors.Is(err, ErrInvalidInput):
		status = http.StatusBadRequest
		if detail := strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": "); detail != err.Error() {
			msg += ": " + detail
		}
	case errors.Is(err, ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, ErrUserNotFound):
		status = http.StatusNotFound
	}

	http.Error(w, msg, status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
