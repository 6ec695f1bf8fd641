package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/kozaktomas/face-checkin/internal/checkin"
	"github.com/kozaktomas/face-checkin/internal/config"
	"github.com/kozaktomas/face-checkin/internal/store"
)

// maxUploadBytes bounds a multipart registration upload (several camera frames).
const maxUploadBytes = 32 << 20

// CheckinHandler serves the check-in API: registration, recognition, mask
// checks, history and store reset.
type CheckinHandler struct {
	config  *config.Config
	service *checkin.Service
}

// NewCheckinHandler creates a new check-in handler.
func NewCheckinHandler(cfg *config.Config, service *checkin.Service) *CheckinHandler {
	return &CheckinHandler{
		config:  cfg,
		service: service,
	}
}

// readPart reads one uploaded file fully.
func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading upload %q: %w", fh.Filename, err)
	}
	return data, nil
}

// singleFile extracts the "file" part of a multipart request.
func singleFile(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, errors.New("invalid multipart request")
	}
	_, fh, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("missing file upload")
	}
	return readPart(fh)
}

// Register handles POST /register/ - enrolls a named identity from one or
// more face images.
func (h *CheckinHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	var fileHeaders []*multipart.FileHeader
	if r.MultipartForm != nil {
		fileHeaders = r.MultipartForm.File["files"]
	}
	if len(fileHeaders) == 0 {
		respondError(w, http.StatusBadRequest, "at least one image is required")
		return
	}

	images := make([][]byte, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		data, err := readPart(fh)
		if err != nil {
			respondError(w, http.StatusBadRequest, "failed to read uploaded image")
			return
		}
		images = append(images, data)
	}

	err := h.service.Register(r.Context(), name, images)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("Registered successfully: %s", name),
		})
	case errors.Is(err, checkin.ErrMaskedFace):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, checkin.ErrNoFaceDetected):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, checkin.ErrEmptyName):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		var dup *checkin.DuplicateError
		if errors.As(err, &dup) {
			respondJSON(w, http.StatusConflict, map[string]string{
				"error":    dup.Error(),
				"existing": dup.ExistingName,
			})
			return
		}
		log.Printf("register %q failed: %v", sanitizeForLog(name), err)
		respondError(w, http.StatusInternalServerError, "registration failed")
	}
}

// Recognize handles POST /recognize/ - matches a face image against the
// enrolled gallery. Unknown faces are a normal 200 outcome.
func (h *CheckinHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	image, err := singleFile(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Recognize(r.Context(), image)
	if err != nil {
		log.Printf("recognize failed: %v", err)
		respondError(w, http.StatusInternalServerError, "recognition failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// CheckMask handles POST /check-mask/ - classifies a single image.
func (h *CheckinHandler) CheckMask(w http.ResponseWriter, r *http.Request) {
	image, err := singleFile(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	masked, err := h.service.CheckMask(r.Context(), image)
	if err != nil {
		log.Printf("mask check failed: %v", err)
		respondError(w, http.StatusInternalServerError, "mask check failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"mask": masked})
}

// History handles GET /history/ - lists check-in records, newest first.
// An optional ?name= query filters records by normalized name.
func (h *CheckinHandler) History(w http.ResponseWriter, r *http.Request) {
	var records []store.CheckInRecord
	var err error
	if name := r.URL.Query().Get("name"); name != "" {
		records, err = h.service.HistoryForName(r.Context(), name)
	} else {
		records, err = h.service.History(r.Context())
	}
	if err != nil {
		log.Printf("history listing failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if records == nil {
		records = []store.CheckInRecord{}
	}
	respondJSON(w, http.StatusOK, records)
}

// Reset handles DELETE /reset-database/ - destroys all identities and history.
func (h *CheckinHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context()); err != nil {
		log.Printf("reset failed: %v", err)
		respondError(w, http.StatusInternalServerError, "reset failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Reset done"})
}
