package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/yieldwise/yieldwise/internal/api/models"
	"github.com/yieldwise/yieldwise/internal/api/response"
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/prediction"
	"github.com/yieldwise/yieldwise/internal/session"
)

const (
	// imagesField is the multipart field holding uploaded photos.
	imagesField = "images"

	// maxUploadBody allows a full set of images plus multipart framing.
	maxUploadBody = health.MaxImages*health.MaxImageBytes + 1<<20

	// multipartMemory is kept in memory before parts spill to disk.
	multipartMemory = 16 << 20
)

// SessionHandler drives the prediction wizard.
type SessionHandler struct {
	svc    *prediction.Service
	logger zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(svc *prediction.Service, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, logger: logger}
}

// CreateSession handles POST /v1/sessions.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.CreateSession(r.Context())
	if err != nil {
		response.FromError(w, r, h.logger, err)
		return
	}
	response.Created(w, r, "/v1/sessions/"+sess.ID, models.NewSession(sess))
}

// GetSession handles GET /v1/sessions/{sessionId}.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.GetSession(r.Context(), chi.URLParam(r, "sessionId"))
	h.respond(w, r, sess, err)
}

// DeleteSession handles DELETE /v1/sessions/{sessionId}.
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSession(r.Context(), chi.URLParam(r, "sessionId")); err != nil {
		response.FromError(w, r, h.logger, err)
		return
	}
	response.NoContent(w, r)
}

// SetLocation handles PUT /v1/sessions/{sessionId}/location.
func (h *SessionHandler) SetLocation(w http.ResponseWriter, r *http.Request) {
	var input models.LocationRequest
	if !decodeJSON(w, r, &input) {
		return
	}
	sess, err := h.svc.SetLocation(r.Context(), chi.URLParam(r, "sessionId"), input.Location)
	h.respond(w, r, sess, err)
}

// SelectCrop handles PUT /v1/sessions/{sessionId}/crop.
func (h *SessionHandler) SelectCrop(w http.ResponseWriter, r *http.Request) {
	var input models.CropRequest
	if !decodeJSON(w, r, &input) {
		return
	}
	sess, err := h.svc.SelectCrop(r.Context(), chi.URLParam(r, "sessionId"), input.CropID)
	h.respond(w, r, sess, err)
}

// UploadImages handles POST /v1/sessions/{sessionId}/images. Photos arrive
// as multipart parts named "images".
func (h *SessionHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.Error(w, r, models.NewPayloadTooLarge(requestID(r), "upload exceeds the size limit"))
			return
		}
		response.BadRequest(w, r, "expected a multipart/form-data body", []models.FieldError{
			{Field: imagesField, Message: err.Error(), Code: "INVALID"},
		})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	images, err := readImages(r.MultipartForm.File[imagesField])
	if err != nil {
		response.FromError(w, r, h.logger, err)
		return
	}

	sess, err := h.svc.SubmitImages(r.Context(), chi.URLParam(r, "sessionId"), images)
	h.respond(w, r, sess, err)
}

// Predict handles POST /v1/sessions/{sessionId}/prediction.
func (h *SessionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Predict(r.Context(), chi.URLParam(r, "sessionId"))
	h.respond(w, r, sess, err)
}

func (h *SessionHandler) respond(w http.ResponseWriter, r *http.Request, sess *session.Session, err error) {
	if err != nil {
		response.FromError(w, r, h.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, models.NewSession(sess))
}

func readImages(files []*multipart.FileHeader) ([]health.Image, error) {
	if err := health.CheckCount(len(files)); err != nil {
		return nil, err
	}

	images := make([]health.Image, 0, len(files))
	for _, fh := range files {
		if fh.Size > health.MaxImageBytes {
			return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", health.ErrImageTooLarge, fh.Filename, fh.Size, health.MaxImageBytes)
		}
		data, err := readPart(fh)
		if err != nil {
			return nil, err
		}
		img, err := health.InspectImage(fh.Filename, data)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, health.MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return data, nil
}
