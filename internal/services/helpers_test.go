// File: internal/services/helpers_test.go
package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/invoicelens/go-invoicelens/internal/domain"
	documentrepo "github.com/invoicelens/go-invoicelens/internal/repository/document"
	"github.com/invoicelens/go-invoicelens/internal/services/llm"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

// seedDocument ingests one document with OCR text for the given user
// and returns it with the OCR relation loaded.
func seedDocument(t *testing.T, db *gorm.DB, userID uint, name, ocrText string) *domain.Document {
	t.Helper()

	repo := documentrepo.NewDocumentRepository(db)
	doc := &domain.Document{
		UserID:       userID,
		OriginalName: name,
		MimeType:     "image/png",
		SizeBytes:    128,
		StoragePath:  "uploads/" + name,
	}
	require.NoError(t, repo.CreateWithOcr(context.Background(), doc, &domain.OcrResult{Text: ocrText}))

	loaded, err := repo.FindByIDWithOcr(context.Background(), doc.ID)
	require.NoError(t, err)
	return loaded
}

type fakeRecognizer struct {
	text string
	err  error
}

func (f *fakeRecognizer) Recognize(ctx context.Context, filePath, language string) (string, error) {
	return f.text, f.err
}

type fakeProvider struct {
	answer  string
	err     error
	lastReq llm.AnswerRequest
	calls   int
}

func (f *fakeProvider) Answer(ctx context.Context, req llm.AnswerRequest) (string, error) {
	f.lastReq = req
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}
