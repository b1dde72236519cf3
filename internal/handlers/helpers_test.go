// File: internal/handlers/helpers_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/invoicelens/go-invoicelens/internal/domain"
	"github.com/invoicelens/go-invoicelens/internal/middleware"
	documentrepo "github.com/invoicelens/go-invoicelens/internal/repository/document"
	messagerepo "github.com/invoicelens/go-invoicelens/internal/repository/message"
	ocrrepo "github.com/invoicelens/go-invoicelens/internal/repository/ocr"
	threadrepo "github.com/invoicelens/go-invoicelens/internal/repository/thread"
	userrepo "github.com/invoicelens/go-invoicelens/internal/repository/user"
	"github.com/invoicelens/go-invoicelens/internal/services"
	"github.com/invoicelens/go-invoicelens/internal/services/llm"
)

const testSecret = "handler-test-secret"

type fakeRecognizer struct {
	text string
	err  error
}

func (f *fakeRecognizer) Recognize(ctx context.Context, filePath, language string) (string, error) {
	return f.text, f.err
}

type fakeProvider struct {
	answer string
	err    error
}

func (f *fakeProvider) Answer(ctx context.Context, req llm.AnswerRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type testAPI struct {
	router    *mux.Router
	db        *gorm.DB
	uploadDir string
	auth      *services.AuthService
}

// newTestAPI wires the whole HTTP surface against a throwaway database,
// a canned OCR engine and a canned answer provider.
func newTestAPI(t *testing.T, recognizer *fakeRecognizer, provider *fakeProvider) *testAPI {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Document{},
		&domain.OcrResult{},
		&domain.ChatThread{},
		&domain.Message{},
	))

	userRepo := userrepo.NewGormUserRepository(db)
	docRepo := documentrepo.NewDocumentRepository(db)
	ocrRepo := ocrrepo.NewOcrResultRepository(db)
	thRepo := threadrepo.NewThreadRepository(db)
	msgRepo := messagerepo.NewMessageRepository(db)

	logger := &services.NoOpLogger{}
	guard := services.NewOwnershipGuard(docRepo, thRepo, logger)
	authService := services.NewAuthService(userRepo, testSecret, logger)
	documentService := services.NewDocumentService(docRepo, ocrRepo, thRepo, msgRepo, guard, recognizer, "eng", logger)
	chatService, err := services.NewChatService(thRepo, msgRepo, guard, provider, logger)
	require.NoError(t, err)

	uploadDir := t.TempDir()
	authHandler := NewAuthHandler(authService)
	documentHandler := NewDocumentHandler(documentService, uploadDir, logger)
	chatHandler := NewChatHandler(chatService)

	r := mux.NewRouter()
	r.HandleFunc("/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.NewJWTMiddleware(testSecret))
	api.HandleFunc("/documents/upload", documentHandler.Upload).Methods("POST")
	api.HandleFunc("/documents", documentHandler.List).Methods("GET")
	api.HandleFunc("/documents", documentHandler.DeleteAll).Methods("DELETE")
	api.HandleFunc("/documents/{id:[0-9]+}", documentHandler.Get).Methods("GET")
	api.HandleFunc("/documents/{id:[0-9]+}/file", documentHandler.File).Methods("GET")
	api.HandleFunc("/documents/{id:[0-9]+}/export", documentHandler.Export).Methods("GET")
	api.HandleFunc("/documents/{id:[0-9]+}/chat", documentHandler.DeleteChat).Methods("DELETE")
	api.HandleFunc("/documents/{documentId:[0-9]+}/threads", chatHandler.CreateThread).Methods("POST")
	api.HandleFunc("/threads/{threadId:[0-9]+}/messages", chatHandler.AddMessage).Methods("POST")
	api.HandleFunc("/threads/{threadId:[0-9]+}", chatHandler.GetThread).Methods("GET")

	return &testAPI{router: r, db: db, uploadDir: uploadDir, auth: authService}
}

// registerUser creates an account and returns a bearer token for it.
func (a *testAPI) registerUser(t *testing.T, email string) string {
	t.Helper()
	token, err := a.auth.Register(context.Background(), email, "long-enough-password")
	require.NoError(t, err)
	return token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) doJSON(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	return a.do(t, method, path, token, body, "application/json")
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// multipartUpload builds a multipart body with one "file" part carrying
// an explicit content type.
func multipartUpload(t *testing.T, fieldName, fileName, mimeType string, content []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+fileName+`"`)
	h.Set("Content-Type", mimeType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 80, 60))))
	return buf.Bytes()
}
