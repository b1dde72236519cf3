// File: internal/services/document_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invoicelens/go-invoicelens/internal/domain"
	"github.com/invoicelens/go-invoicelens/internal/repository/document"
	"github.com/invoicelens/go-invoicelens/internal/repository/message"
	"github.com/invoicelens/go-invoicelens/internal/repository/ocr"
	"github.com/invoicelens/go-invoicelens/internal/repository/thread"
	"github.com/invoicelens/go-invoicelens/internal/services/ocrengine"
	"github.com/invoicelens/go-invoicelens/internal/services/report"
)

// Upload describes a file the boundary has already validated and stored
// on disk under a server-generated name.
type Upload struct {
	OriginalName string
	MimeType     string
	SizeBytes    int64
	StoragePath  string
}

// ChatCleanupResult reports what a document-scoped chat wipe removed.
type ChatCleanupResult struct {
	DeletedThreads  int64 `json:"deleted_threads"`
	DeletedMessages int64 `json:"deleted_messages"`
}

type DocumentService struct {
	documentRepo document.DocumentRepository
	ocrRepo      ocr.OcrResultRepository
	threadRepo   thread.ThreadRepository
	messageRepo  message.MessageRepository
	guard        *OwnershipGuard
	recognizer   ocrengine.Recognizer
	ocrLanguage  string
	logger       Logger
}

func NewDocumentService(
	documentRepo document.DocumentRepository,
	ocrRepo ocr.OcrResultRepository,
	threadRepo thread.ThreadRepository,
	messageRepo message.MessageRepository,
	guard *OwnershipGuard,
	recognizer ocrengine.Recognizer,
	ocrLanguage string,
	logger Logger,
) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		ocrRepo:      ocrRepo,
		threadRepo:   threadRepo,
		messageRepo:  messageRepo,
		guard:        guard,
		recognizer:   recognizer,
		ocrLanguage:  ocrLanguage,
		logger:       logger,
	}
}

// CreateAndOCR ingests an uploaded invoice image: the OCR engine runs
// against the stored file first, then the document and its OCR result
// are written as one atomic unit. An engine failure aborts the whole
// ingestion with nothing persisted; empty recognized text is stored as
// "" and is a valid outcome.
func (s *DocumentService) CreateAndOCR(ctx context.Context, userID uint, up Upload) (*domain.Document, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	text, err := s.recognizer.Recognize(ctx, up.StoragePath, s.ocrLanguage)
	if err != nil {
		s.logger.Error("OCR recognition failed", "path", up.StoragePath, "error", err)
		return nil, fmt.Errorf("ocr recognition: %w", err)
	}
	text = strings.TrimSpace(text)

	doc := &domain.Document{
		UserID:       userID,
		OriginalName: up.OriginalName,
		MimeType:     up.MimeType,
		SizeBytes:    up.SizeBytes,
		StoragePath:  filepath.ToSlash(up.StoragePath),
	}
	if err := s.documentRepo.CreateWithOcr(ctx, doc, &domain.OcrResult{Text: text}); err != nil {
		return nil, err
	}

	s.logger.Info("document ingested",
		"document_id", doc.ID,
		"user_id", userID,
		"ocr_chars", len(text))

	// Re-fetch so the caller observes the document joined with its OCR
	// result, never a half-ingested view.
	return s.documentRepo.FindByIDWithOcr(ctx, doc.ID)
}

// ListForUser returns the user's documents newest first, including OCR
// results and chat threads with their messages.
func (s *DocumentService) ListForUser(ctx context.Context, userID uint) ([]domain.Document, error) {
	return s.documentRepo.FindByUserID(ctx, userID)
}

// GetForUser returns one owned document with all relations loaded.
func (s *DocumentService) GetForUser(ctx context.Context, userID, documentID uint) (*domain.Document, error) {
	if _, err := s.guard.AssertDocumentOwnership(ctx, userID, documentID); err != nil {
		return nil, err
	}
	return s.documentRepo.FindByIDWithRelations(ctx, documentID)
}

// GetFileForUser returns an owned document plus the on-disk path of its
// original image, for download by the boundary.
func (s *DocumentService) GetFileForUser(ctx context.Context, userID, documentID uint) (*domain.Document, string, error) {
	doc, err := s.guard.AssertDocumentOwnership(ctx, userID, documentID)
	if err != nil {
		return nil, "", err
	}
	return doc, filepath.FromSlash(doc.StoragePath), nil
}

// ExportPDFForUser composes the consolidated report for an owned
// document. Any image read or decode failure aborts the export; no
// partial PDF is ever returned.
func (s *DocumentService) ExportPDFForUser(ctx context.Context, userID, documentID uint) ([]byte, error) {
	if _, err := s.guard.AssertDocumentOwnership(ctx, userID, documentID); err != nil {
		return nil, err
	}

	doc, err := s.documentRepo.FindByIDWithRelations(ctx, documentID)
	if err != nil {
		return nil, err
	}

	imageBytes, err := os.ReadFile(filepath.FromSlash(doc.StoragePath))
	if err != nil {
		s.logger.Error("export failed reading stored image", "document_id", documentID, "error", err)
		return nil, fmt.Errorf("reading stored image: %w", err)
	}

	pdfBytes, err := report.Compose(doc, imageBytes)
	if err != nil {
		s.logger.Error("export composition failed", "document_id", documentID, "error", err)
		return nil, err
	}

	s.logger.Info("report exported", "document_id", documentID, "bytes", len(pdfBytes))
	return pdfBytes, nil
}

// DeleteAllForUser wipes every document of the user together with OCR
// results, threads and messages, children before parents so foreign
// keys stay satisfied. A user with no documents deletes zero rows.
func (s *DocumentService) DeleteAllForUser(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, errors.New("invalid user ID")
	}

	docIDs, err := s.documentRepo.FindIDsByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(docIDs) == 0 {
		return 0, nil
	}

	threadIDs, err := s.threadRepo.FindIDsByDocumentIDs(ctx, docIDs)
	if err != nil {
		return 0, err
	}

	if _, err := s.messageRepo.DeleteByThreadIDs(ctx, threadIDs); err != nil {
		return 0, err
	}
	if _, err := s.threadRepo.DeleteByIDs(ctx, threadIDs); err != nil {
		return 0, err
	}
	if _, err := s.ocrRepo.DeleteByDocumentIDs(ctx, docIDs); err != nil {
		return 0, err
	}

	deleted, err := s.documentRepo.DeleteByIDs(ctx, docIDs)
	if err != nil {
		return 0, err
	}

	s.logger.Info("deleted all documents for user", "user_id", userID, "documents", deleted)
	return deleted, nil
}

// DeleteChatForDocument removes every thread and message of one owned
// document, messages first. The document and its OCR result stay.
func (s *DocumentService) DeleteChatForDocument(ctx context.Context, userID, documentID uint) (ChatCleanupResult, error) {
	if _, err := s.guard.AssertDocumentOwnership(ctx, userID, documentID); err != nil {
		return ChatCleanupResult{}, err
	}

	threadIDs, err := s.threadRepo.FindIDsByDocumentIDs(ctx, []uint{documentID})
	if err != nil {
		return ChatCleanupResult{}, err
	}
	if len(threadIDs) == 0 {
		return ChatCleanupResult{}, nil
	}

	deletedMessages, err := s.messageRepo.DeleteByThreadIDs(ctx, threadIDs)
	if err != nil {
		return ChatCleanupResult{}, err
	}
	deletedThreads, err := s.threadRepo.DeleteByIDs(ctx, threadIDs)
	if err != nil {
		return ChatCleanupResult{}, err
	}

	return ChatCleanupResult{DeletedThreads: deletedThreads, DeletedMessages: deletedMessages}, nil
}
