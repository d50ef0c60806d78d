package animals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes expone el catálogo público (sin auth).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Get("/", listAnimalsHandler(svc))
		ar.Get("/{animalID}", getAnimalHandler(svc))
	})
}

// animalResponse representa un animal del catálogo.
type animalResponse struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Species      Species      `json:"species"`
	Breed        string       `json:"breed"`
	Sex          Sex          `json:"sex"`
	Size         string       `json:"size"`
	AgeYears     *int         `json:"age_years,omitempty"`
	AgeMonths    *int         `json:"age_months,omitempty"`
	Description  string       `json:"description"`
	HealthStatus string       `json:"health_status"`
	Vaccinated   bool         `json:"vaccinated"`
	Sterilized   bool         `json:"sterilized"`
	ImageURL     string       `json:"image_url"`
	Availability Availability `json:"availability"`
	IntakeDate   time.Time    `json:"intake_date"`
}

// listAnimalsHandler godoc
// @Summary Listar animales
// @Description Catálogo público. Por defecto solo animales `available`.
// @Tags animals
// @Produce json
// @Param availability query string false "available | in_review | adopted | unavailable"
// @Param species query string false "dog | cat | other"
// @Success 200 {array} animalResponse
// @Failure 400 {object} map[string]string
// @Router /animals [get]
func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.List(r.Context(), ListFilter{
			Availability: Availability(strings.TrimSpace(q.Get("availability"))),
			Species:      Species(strings.TrimSpace(q.Get("species"))),
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "availability inválido"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getAnimalHandler godoc
// @Summary Obtener animal
// @Tags animals
// @Produce json
// @Param animalID path string true "ID del animal"
// @Success 200 {object} animalResponse
// @Failure 404 {object} map[string]string
// @Router /animals/{animalID} [get]
func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "Mascota no encontrada"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:           a.ID,
		Name:         a.Name,
		Species:      a.Species,
		Breed:        a.Breed,
		Sex:          a.Sex,
		Size:         a.Size,
		AgeYears:     a.AgeYears,
		AgeMonths:    a.AgeMonths,
		Description:  a.Description,
		HealthStatus: a.HealthStatus,
		Vaccinated:   a.Vaccinated,
		Sterilized:   a.Sterilized,
		ImageURL:     a.ImageURL,
		Availability: a.Availability,
		IntakeDate:   a.IntakeDate,
	}
}

// writeJSON está duplicado en cada módulo (adoptions, notifications) para no
// crear un paquete de helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
