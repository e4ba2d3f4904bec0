package handler

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kgpnow-api/internal/application/event"
	"github.com/kgpnow-api/internal/domain"
	s3infra "github.com/kgpnow-api/internal/infrastructure/s3"
	"github.com/kgpnow-api/internal/transport/http/middleware"
)

const posterField = "poster"

// EventHandler serves /api/events.
type EventHandler struct {
	svc      event.Service
	maxBytes int64
	logger   *slog.Logger
}

func NewEventHandler(svc event.Service, maxBytes int64, logger *slog.Logger) *EventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventHandler{svc: svc, maxBytes: maxBytes, logger: logger}
}

// Create accepts multipart/form-data with an optional poster file, or plain JSON.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	creator, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "User authentication failed")
		return
	}

	var (
		req    domain.CreateEventRequest
		poster *event.Poster
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		// room for the form fields on top of the file itself
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)
		if err := r.ParseMultipartForm(h.maxBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "File too large")
				return
			}
			writeError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()
		req = domain.CreateEventRequest{
			Name:             r.FormValue("name"),
			Organization:     r.FormValue("organization"),
			Description:      r.FormValue("description"),
			Venue:            r.FormValue("venue"),
			RegistrationLink: r.FormValue("registrationLink"),
			Date:             r.FormValue("date"),
			Category:         r.FormValue("category"),
		}

		f, header, err := r.FormFile(posterField)
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			writeError(w, http.StatusBadRequest, "Invalid poster upload")
			return
		default:
			defer f.Close()
			if header.Size > h.maxBytes {
				writeError(w, http.StatusRequestEntityTooLarge, "File too large")
				return
			}
			contentType := s3infra.DetectContentType(header.Filename)
			if !strings.HasPrefix(contentType, "image/") {
				writeError(w, http.StatusBadRequest, "Only image files are allowed")
				return
			}
			poster = &event.Poster{Filename: header.Filename, ContentType: contentType, Body: f}
		}
	} else if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	v, err := h.svc.Create(r.Context(), creator, req, poster)
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Error creating event", nil)
		return
	}
	writeJSON(w, http.StatusCreated, EventEnvelope{Success: true, Message: "Event created successfully", Event: v})
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Error fetching events", nil)
		return
	}
	writeJSON(w, http.StatusOK, EventListEnvelope{Success: true, Count: len(events), Events: events})
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "Error fetching event", nil)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
