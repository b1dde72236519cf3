// File: internal/handlers/document_handler.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/invoicelens/go-invoicelens/internal/services"
	"github.com/invoicelens/go-invoicelens/internal/services/report"
)

// maxUploadBytes caps invoice images at 10 MiB.
const maxUploadBytes = 10 << 20

// allowedMimeTypes is the upload allowlist; everything else is rejected
// before any disk or OCR work happens.
var allowedMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

type DocumentHandler struct {
	DocumentService *services.DocumentService
	UploadDir       string
	Logger          services.Logger
}

func NewDocumentHandler(ds *services.DocumentService, uploadDir string, logger services.Logger) *DocumentHandler {
	return &DocumentHandler{DocumentService: ds, UploadDir: uploadDir, Logger: logger}
}

// Upload accepts one invoice image as the multipart field "file",
// stores it under a server-generated name and runs OCR ingestion. The
// client-supplied filename only contributes its extension; it is never
// used as a storage path.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+4096)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, "file exceeds the 10 MiB limit or is not valid multipart", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, `multipart field "file" is required`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !allowedMimeTypes[mimeType] {
		writeError(w, fmt.Sprintf("unsupported file type %q: only PNG and JPEG images are accepted", mimeType), http.StatusBadRequest)
		return
	}
	if header.Size > maxUploadBytes {
		writeError(w, "file exceeds the 10 MiB limit", http.StatusRequestEntityTooLarge)
		return
	}

	storagePath, written, err := h.storeUpload(file, header.Filename)
	if err != nil {
		h.Logger.Error("storing upload failed", "error", err)
		writeError(w, "could not store uploaded file", http.StatusInternalServerError)
		return
	}

	doc, err := h.DocumentService.CreateAndOCR(r.Context(), userID, services.Upload{
		OriginalName: filepath.Base(header.Filename),
		MimeType:     mimeType,
		SizeBytes:    written,
		StoragePath:  storagePath,
	})
	if err != nil {
		// Ingestion is atomic; remove the orphaned file so failed
		// uploads leave no trace on disk either.
		os.Remove(storagePath)
		writeError(w, "document ingestion failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// storeUpload copies the upload to a fresh random name in the upload
// directory, keeping only the original extension.
func (h *DocumentHandler) storeUpload(src io.Reader, originalName string) (string, int64, error) {
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return "", 0, err
	}

	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	name := uuid.NewString() + ext
	path := filepath.Join(h.UploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(path)
		return "", 0, err
	}
	return path, written, nil
}

// List returns the caller's documents newest first with OCR results and
// chat threads attached.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	docs, err := h.DocumentService.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, "could not list documents", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// Get returns one owned document with all relations.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	documentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.DocumentService.GetForUser(r.Context(), userID, documentID)
	if err != nil {
		if writeGuardError(w, err) {
			return
		}
		writeError(w, "could not load document", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// File streams the original uploaded image back under its original name.
func (h *DocumentHandler) File(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	documentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	doc, path, err := h.DocumentService.GetFileForUser(r.Context(), userID, documentID)
	if err != nil {
		if writeGuardError(w, err) {
			return
		}
		writeError(w, "could not load document", http.StatusInternalServerError)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		h.Logger.Error("stored file missing", "document_id", documentID, "path", path)
		writeError(w, "stored file is unavailable", http.StatusNotFound)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.OriginalName))
	io.Copy(w, f)
}

// Export streams the consolidated PDF report for one owned document.
func (h *DocumentHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	documentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	pdfBytes, err := h.DocumentService.ExportPDFForUser(r.Context(), userID, documentID)
	if err != nil {
		if writeGuardError(w, err) {
			return
		}
		if errors.Is(err, report.ErrUnsupportedImageType) {
			writeError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		writeError(w, "report export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "document-"+strconv.FormatUint(uint64(documentID), 10)+".pdf"))
	w.Write(pdfBytes)
}

// DeleteAll wipes every document of the caller together with all
// dependent rows and reports the count.
func (h *DocumentHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	deleted, err := h.DocumentService.DeleteAllForUser(r.Context(), userID)
	if err != nil {
		writeError(w, "bulk delete failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted_documents": deleted})
}

// DeleteChat removes all threads and messages of one owned document.
func (h *DocumentHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	documentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.DocumentService.DeleteChatForDocument(r.Context(), userID, documentID)
	if err != nil {
		if writeGuardError(w, err) {
			return
		}
		writeError(w, "chat cleanup failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// pathID parses a numeric route variable.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		writeError(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}
