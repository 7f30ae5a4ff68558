package handlers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/traincore/dashboard-bff/internal/domain"
	"github.com/traincore/dashboard-bff/internal/upstream"
	"github.com/traincore/dashboard-bff/middleware"
)

// maxScanUpload caps the multipart body accepted for OCR scans.
const maxScanUpload = 20 << 20

// DocumentClient is the document surface the handlers consume.
type DocumentClient interface {
	ListDocuments(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID) ([]domain.Document, error)
	CreateDocument(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID, in upstream.DocumentInput) (*domain.Document, error)
	UpdateDocument(ctx context.Context, sess middleware.Session, attendeeID, documentID uuid.UUID, in upstream.DocumentInput) (*domain.Document, error)
	DeleteDocument(ctx context.Context, sess middleware.Session, attendeeID, documentID uuid.UUID) error
	DownloadURL(ctx context.Context, sess middleware.Session, attendeeID, documentID, fileID uuid.UUID) (string, error)
	Scan(ctx context.Context, sess middleware.Session, attendeeID uuid.UUID, filename string, file io.Reader) (*domain.ScanResult, error)
}

type DocumentHandler struct {
	documents DocumentClient
}

func NewDocumentHandler(dc DocumentClient) *DocumentHandler {
	return &DocumentHandler{documents: dc}
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	attendeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid attendee id", http.StatusBadRequest)
		return
	}

	docs, err := h.documents.ListDocuments(r.Context(), sess, attendeeID)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to fetch documents")
		return
	}
	sendData(w, http.StatusOK, docs)
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	attendeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid attendee id", http.StatusBadRequest)
		return
	}

	in, ok := decodeDocumentInput(w, r)
	if !ok {
		return
	}

	doc, err := h.documents.CreateDocument(r.Context(), sess, attendeeID, in)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to create document")
		return
	}
	sendData(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	attendeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid attendee id", http.StatusBadRequest)
		return
	}
	documentID, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid document id", http.StatusBadRequest)
		return
	}

	in, ok := decodeDocumentInput(w, r)
	if !ok {
		return
	}

	doc, err := h.documents.UpdateDocument(r.Context(), sess, attendeeID, documentID, in)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to update document")
		return
	}
	sendData(w, http.StatusOK, doc)
}

// Delete removes a document; mounted behind RequireConfirmation.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	attendeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid attendee id", http.StatusBadRequest)
		return
	}
	documentID, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid document id", http.StatusBadRequest)
		return
	}

	if err := h.documents.DeleteDocument(r.Context(), sess, attendeeID, documentID); err != nil {
		handleUpstreamError(w, r, err, "failed to delete document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Download resolves the short-lived download URL for a stored file and
// redirects the client to it.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	attendeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid attendee id", http.StatusBadRequest)
		return
	}
	documentID, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid document id", http.StatusBadRequest)
		return
	}
	fileID, err := uuid.Parse(chi.URLParam(r, "fileID"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid file id", http.StatusBadRequest)
		return
	}

	url, err := h.documents.DownloadURL(r.Context(), sess, attendeeID, documentID, fileID)
	if err != nil {
		handleUpstreamError(w, r, err, "failed to resolve download url")
		return
	}
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// Scan forwards an uploaded document to the OCR service and returns the
// extracted fields for the client to prefill the document form. PDFs get a
// longer processing budget than images; the client decides what to keep.
func (h *DocumentHandler) Scan(w http.ResponseWriter, r *http.Request) {
	sess, ok := mustSession(w, r)
	if !ok {
		return
	}

	attendeeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "validation_failed", "invalid attendee id", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxScanUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		sendError(w, r, "validation_failed", "multipart field 'file' is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := strings.TrimSpace(header.Filename)
	if filename == "" {
		sendError(w, r, "validation_failed", "uploaded file needs a filename", http.StatusBadRequest)
		return
	}

	result, err := h.documents.Scan(r.Context(), sess, attendeeID, filename, file)
	if err != nil {
		handleUpstreamError(w, r, err, "document scan failed")
		return
	}
	sendData(w, http.StatusOK, result)
}

func decodeDocumentInput(w http.ResponseWriter, r *http.Request) (upstream.DocumentInput, bool) {
	var in upstream.DocumentInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		sendError(w, r, "validation_failed", "invalid body", http.StatusBadRequest)
		return in, false
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		sendError(w, r, "validation_failed", "document name is required", http.StatusBadRequest)
		return in, false
	}
	return in, true
}
