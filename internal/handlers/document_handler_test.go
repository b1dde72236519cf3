// File: internal/handlers/document_handler_test.go
package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadDocument(t *testing.T, api *testAPI, token string) uint {
	t.Helper()

	body, contentType := multipartUpload(t, "file", "invoice.png", "image/png", testPNG(t))
	rec := api.do(t, http.MethodPost, "/api/documents/upload", token, body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var doc struct {
		ID uint `json:"id"`
	}
	decodeJSON(t, rec, &doc)
	require.NotZero(t, doc.ID)
	return doc.ID
}

func TestUpload(t *testing.T) {
	t.Parallel()

	t.Run("valid image is ingested with OCR text", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t, &fakeRecognizer{text: "ACME Corp\nTotal: 42.00"}, &fakeProvider{answer: "ok"})
		token := api.registerUser(t, "alice@example.com")

		body, contentType := multipartUpload(t, "file", "scan.png", "image/png", testPNG(t))
		rec := api.do(t, http.MethodPost, "/api/documents/upload", token, body, contentType)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var doc struct {
			ID           uint   `json:"id"`
			OriginalName string `json:"original_name"`
			MimeType     string `json:"mime_type"`
			StoragePath  string `json:"storage_path"`
			Ocr          *struct {
				Text string `json:"text"`
			} `json:"ocr"`
		}
		decodeJSON(t, rec, &doc)
		assert.Equal(t, "scan.png", doc.OriginalName)
		assert.Equal(t, "image/png", doc.MimeType)
		require.NotNil(t, doc.Ocr)
		assert.Equal(t, "ACME Corp\nTotal: 42.00", doc.Ocr.Text)

		// Stored under a server-generated name, never the client's.
		assert.NotContains(t, doc.StoragePath, "scan")
		_, err := os.Stat(filepath.FromSlash(doc.StoragePath))
		assert.NoError(t, err)
	})

	t.Run("requires authentication", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t, &fakeRecognizer{text: "x"}, &fakeProvider{answer: "ok"})

		body, contentType := multipartUpload(t, "file", "scan.png", "image/png", testPNG(t))
		rec := api.do(t, http.MethodPost, "/api/documents/upload", "", body, contentType)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects disallowed mime types", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t, &fakeRecognizer{text: "x"}, &fakeProvider{answer: "ok"})
		token := api.registerUser(t, "alice@example.com")

		body, contentType := multipartUpload(t, "file", "notes.txt", "text/plain", []byte("hello"))
		rec := api.do(t, http.MethodPost, "/api/documents/upload", token, body, contentType)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a missing file field", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t, &fakeRecognizer{text: "x"}, &fakeProvider{answer: "ok"})
		token := api.registerUser(t, "alice@example.com")

		body, contentType := multipartUpload(t, "attachment", "scan.png", "image/png", testPNG(t))
		rec := api.do(t, http.MethodPost, "/api/documents/upload", token, body, contentType)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("failed OCR leaves no stored file behind", func(t *testing.T) {
		t.Parallel()
		api := newTestAPI(t, &fakeRecognizer{err: os.ErrDeadlineExceeded}, &fakeProvider{answer: "ok"})
		token := api.registerUser(t, "alice@example.com")

		body, contentType := multipartUpload(t, "file", "scan.png", "image/png", testPNG(t))
		rec := api.do(t, http.MethodPost, "/api/documents/upload", token, body, contentType)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		entries, err := os.ReadDir(api.uploadDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestGetAndListDocuments(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, &fakeRecognizer{text: "Total: 42.00"}, &fakeProvider{answer: "ok"})
	aliceToken := api.registerUser(t, "alice@example.com")
	bobToken := api.registerUser(t, "bob@example.com")

	docID := uploadDocument(t, api, aliceToken)

	t.Run("owner sees the document", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/api/documents/"+strconv.Itoa(int(docID)), aliceToken, nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("stranger is denied, not told it is missing", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/api/documents/"+strconv.Itoa(int(docID)), bobToken, nil, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/api/documents/99999", aliceToken, nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("listing is scoped to the caller", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/api/documents", bobToken, nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var docs []struct {
			ID uint `json:"id"`
		}
		decodeJSON(t, rec, &docs)
		assert.Empty(t, docs)
	})
}

func TestFileDownloadAndExport(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, &fakeRecognizer{text: "Total: 42.00"}, &fakeProvider{answer: "ok"})
	token := api.registerUser(t, "alice@example.com")
	docID := uploadDocument(t, api, token)
	path := "/api/documents/" + strconv.Itoa(int(docID))

	t.Run("download returns the original image under its original name", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, path+"/file", token, nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "invoice.png")
		assert.Equal(t, testPNG(t), rec.Body.Bytes())
	})

	t.Run("export returns a PDF attachment", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, path+"/export", token, nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), ".pdf")
		assert.Equal(t, "%PDF", rec.Body.String()[:4])
	})
}

func TestDeleteAllDocuments(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, &fakeRecognizer{text: "x"}, &fakeProvider{answer: "ok"})
	aliceToken := api.registerUser(t, "alice@example.com")
	bobToken := api.registerUser(t, "bob@example.com")

	uploadDocument(t, api, aliceToken)
	uploadDocument(t, api, aliceToken)
	bobDoc := uploadDocument(t, api, bobToken)

	rec := api.do(t, http.MethodDelete, "/api/documents", aliceToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result map[string]int64
	decodeJSON(t, rec, &result)
	assert.EqualValues(t, 2, result["deleted_documents"])

	rec = api.do(t, http.MethodGet, "/api/documents/"+strconv.Itoa(int(bobDoc)), bobToken, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteChat(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, &fakeRecognizer{text: "Total: 42.00"}, &fakeProvider{answer: "42.00"})
	token := api.registerUser(t, "alice@example.com")
	docID := uploadDocument(t, api, token)
	docPath := "/api/documents/" + strconv.Itoa(int(docID))

	rec := api.doJSON(t, http.MethodPost, docPath+"/threads", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var th struct {
		ID uint `json:"id"`
	}
	decodeJSON(t, rec, &th)

	rec = api.doJSON(t, http.MethodPost, "/api/threads/"+strconv.Itoa(int(th.ID))+"/messages", token,
		map[string]string{"content": "total?"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodDelete, docPath+"/chat", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		DeletedThreads  int64 `json:"deleted_threads"`
		DeletedMessages int64 `json:"deleted_messages"`
	}
	decodeJSON(t, rec, &result)
	assert.EqualValues(t, 1, result.DeletedThreads)
	assert.EqualValues(t, 2, result.DeletedMessages)

	// The document itself survives the chat wipe.
	rec = api.do(t, http.MethodGet, docPath, token, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
