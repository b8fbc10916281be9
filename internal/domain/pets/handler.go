package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-adoption/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listActivePetsHandler(svc))

		// Pool de adopción del usuario autenticado (excluye sus mascotas)
		pr.Get("/available", listAvailablePetsHandler(svc))
		pr.Get("/search", searchPetsHandler(svc))

		pr.Get("/{petID}", getPetHandler(svc))
		pr.Patch("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))
	})

	// Mis publicaciones
	r.Get("/me/pets", listMyPetsHandler(svc))
}

type createPetRequest struct {
	Name            string   `json:"name"`
	Breed           string   `json:"breed"`
	Age             string   `json:"age"` // "2 años", "6 meses"
	Description     string   `json:"description"`
	Location        string   `json:"location"`
	Gender          string   `json:"gender"` // Macho | Hembra
	Color           string   `json:"color"`
	Weight          string   `json:"weight"`
	Image           string   `json:"image"` // atajo para una sola imagen
	Images          []string `json:"images"`
	Vaccinated      *bool    `json:"vaccinated"`
	Sterilized      *bool    `json:"sterilized"`
	MedicalInfo     string   `json:"medicalInfo"`
	PersonalityTags []string `json:"personalityTags"`
	// Solo se usa si el token no trae email (modo dev).
	OwnerEmail string `json:"ownerEmail"`
	OwnerName  string `json:"ownerName"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name            *string   `json:"name"`
	Breed           *string   `json:"breed"`
	Age             *string   `json:"age"`
	Description     *string   `json:"description"`
	Location        *string   `json:"location"`
	Gender          *string   `json:"gender"`
	Color           *string   `json:"color"`
	Weight          *string   `json:"weight"`
	Images          *[]string `json:"images"`
	Vaccinated      *bool     `json:"vaccinated"`
	Sterilized      *bool     `json:"sterilized"`
	MedicalInfo     *string   `json:"medicalInfo"`
	PersonalityTags *[]string `json:"personalityTags"`
	AdoptionStatus  *string   `json:"adoptionStatus"`
}

type petResponse struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Breed           string         `json:"breed"`
	Age             string         `json:"age"`
	AgeValue        int            `json:"ageValue"`
	AgeUnit         AgeUnit        `json:"ageUnit"`
	Description     string         `json:"description"`
	Location        string         `json:"location"`
	Gender          Gender         `json:"gender,omitempty"`
	Color           string         `json:"color,omitempty"`
	Weight          string         `json:"weight,omitempty"`
	Image           string         `json:"image,omitempty"`
	Images          []string       `json:"images"`
	Vaccinated      bool           `json:"vaccinated"`
	Sterilized      bool           `json:"sterilized"`
	MedicalInfo     string         `json:"medicalInfo"`
	PersonalityTags []string       `json:"personalityTags"`
	AdoptionStatus  AdoptionStatus `json:"adoptionStatus"`
	OwnerID         string         `json:"ownerId"`
	OwnerEmail      string         `json:"ownerEmail"`
	OwnerName       string         `json:"ownerName,omitempty"`
	IsActive        bool           `json:"isActive"`
	DateAdded       time.Time      `json:"dateAdded"`
	DateUpdated     *time.Time     `json:"dateUpdated,omitempty"`
	DateDeleted     *time.Time     `json:"dateDeleted,omitempty"`
}

type validationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// createPetHandler godoc
// @Summary Publicar mascota en adopción
// @Description Crea una mascota a nombre del usuario autenticado. Queda activa y con estado `available`. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>`.
// @Tags pets
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Param payload body createPetRequest true "Datos de la mascota"
// @Success 201 {object} petResponse
// @Failure 400 {object} validationErrorResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDecodeError(w, err)
			return
		}

		owner := Owner{ID: claims.UserID, Email: claims.Email, Name: claims.Name}
		if strings.TrimSpace(owner.Email) == "" {
			owner.Email = req.OwnerEmail
		}
		if strings.TrimSpace(owner.Name) == "" {
			owner.Name = req.OwnerName
		}

		images := req.Images
		if strings.TrimSpace(req.Image) != "" {
			images = append([]string{req.Image}, images...)
		}

		p, err := svc.Create(r.Context(), owner, CreateInput{
			Name:            req.Name,
			Breed:           req.Breed,
			Age:             req.Age,
			Description:     req.Description,
			Location:        req.Location,
			Gender:          req.Gender,
			Color:           req.Color,
			Weight:          req.Weight,
			Images:          images,
			Vaccinated:      req.Vaccinated,
			Sterilized:      req.Sterilized,
			MedicalInfo:     req.MedicalInfo,
			PersonalityTags: req.PersonalityTags,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// listActivePetsHandler godoc
// @Summary Listar mascotas activas
// @Tags pets
// @Produce json
// @Success 200 {array} petResponse
// @Router /pets [get]
func listActivePetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toPetResponses(svc.AllActive(r.Context())))
	}
}

// listAvailablePetsHandler godoc
// @Summary Mascotas disponibles para adoptar
// @Description Mascotas activas con estado `available` que no pertenecen al usuario autenticado.
// @Tags pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Success 200 {array} petResponse
// @Failure 401 {string} string "unauthorized"
// @Router /pets/available [get]
func listAvailablePetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponses(svc.AvailableFor(r.Context(), claims.UserID)))
	}
}

// searchPetsHandler godoc
// @Summary Buscar mascotas disponibles
// @Tags pets
// @Produce json
// @Param q query string false "Texto libre (nombre, raza, descripción, ubicación)"
// @Param breed query string false "Raza exacta"
// @Param gender query string false "Macho | Hembra"
// @Param location query string false "Ubicación exacta"
// @Param vaccinated query bool false "Vacunada"
// @Param sterilized query bool false "Esterilizada"
// @Success 200 {array} petResponse
// @Failure 400 {string} string "invalid filter"
// @Router /pets/search [get]
func searchPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		vaccinated, err := optionalBool(q.Get("vaccinated"))
		if err != nil {
			http.Error(w, "vaccinated must be true or false", http.StatusBadRequest)
			return
		}
		sterilized, err := optionalBool(q.Get("sterilized"))
		if err != nil {
			http.Error(w, "sterilized must be true or false", http.StatusBadRequest)
			return
		}

		items := svc.Search(r.Context(), q.Get("q"), Filters{
			Breed:      q.Get("breed"),
			Gender:     q.Get("gender"),
			Location:   q.Get("location"),
			Vaccinated: vaccinated,
			Sterilized: sterilized,
		})

		writeJSON(w, http.StatusOK, toPetResponses(items))
	}
}

// getPetHandler godoc
// @Summary Ver mascota
// @Description Las mascotas eliminadas solo las ve su dueño.
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, err)
			return
		}

		if !p.IsActive {
			claims, _ := middleware.GetClaims(r.Context())
			if !p.IsOwnedBy(claims.UserID) {
				http.Error(w, "pet not found", http.StatusNotFound)
				return
			}
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// updatePetHandler godoc
// @Summary Editar mascota
// @Description Solo el dueño. id, ownerId y dateAdded no se modifican.
// @Tags pets
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param payload body updatePetRequest true "Campos a modificar"
// @Success 200 {object} petResponse
// @Failure 400 {object} validationErrorResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [patch]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updatePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDecodeError(w, err)
			return
		}

		updated, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), claims.UserID, UpdateInput{
			Name:            req.Name,
			Breed:           req.Breed,
			Age:             req.Age,
			Description:     req.Description,
			Location:        req.Location,
			Gender:          req.Gender,
			Color:           req.Color,
			Weight:          req.Weight,
			Images:          req.Images,
			Vaccinated:      req.Vaccinated,
			Sterilized:      req.Sterilized,
			MedicalInfo:     req.MedicalInfo,
			PersonalityTags: req.PersonalityTags,
			AdoptionStatus:  req.AdoptionStatus,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

// deletePetHandler godoc
// @Summary Eliminar mascota (soft delete)
// @Tags pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} map[string]bool
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [delete]
func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		deleted, err := svc.SoftDelete(r.Context(), chi.URLParam(r, "petID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
	}
}

// listMyPetsHandler godoc
// @Summary Mis mascotas publicadas
// @Tags pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token"
// @Success 200 {array} petResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/pets [get]
func listMyPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponses(svc.OwnedBy(r.Context(), claims.UserID)))
	}
}

func optionalBool(s string) (*bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func toPetResponses(items []Pet) []petResponse {
	out := make([]petResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPetResponse(p))
	}
	return out
}

func toPetResponse(p Pet) petResponse {
	resp := petResponse{
		ID:              p.ID,
		Name:            p.Name,
		Breed:           p.Breed,
		Age:             p.Age.String(),
		AgeValue:        p.Age.Value,
		AgeUnit:         p.Age.Unit,
		Description:     p.Description,
		Location:        p.Location,
		Gender:          p.Gender,
		Color:           p.Color,
		Weight:          p.Weight,
		Images:          p.Images,
		Vaccinated:      p.Vaccinated,
		Sterilized:      p.Sterilized,
		MedicalInfo:     p.MedicalInfo,
		PersonalityTags: p.PersonalityTags,
		AdoptionStatus:  p.AdoptionStatus,
		OwnerID:         p.OwnerID,
		OwnerEmail:      p.OwnerEmail,
		OwnerName:       p.OwnerName,
		IsActive:        p.IsActive,
		DateAdded:       p.DateAdded,
		DateUpdated:     p.DateUpdated,
		DateDeleted:     p.DateDeleted,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if resp.PersonalityTags == nil {
		resp.PersonalityTags = []string{}
	}
	if len(p.Images) > 0 {
		resp.Image = p.Images[0]
	}
	return resp
}

func writeError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, validationErrorResponse{Error: "validation error", Fields: verr.Fields})
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeDecodeError: un campo con el tipo JSON equivocado es un error de validación de ese campo.
func writeDecodeError(w http.ResponseWriter, err error) {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "_"
		}
		writeJSON(w, http.StatusBadRequest, validationErrorResponse{
			Error:  "validation error",
			Fields: map[string]string{field: "is invalid"},
		})
		return
	}
	http.Error(w, "invalid json", http.StatusBadRequest)
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONList expone el formato de respuesta de mascotas a otros módulos (favoritos, discovery).
func JSONList(items []Pet) any {
	return toPetResponses(items)
}
