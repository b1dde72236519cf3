// File: internal/services/ownership.go
package services

import (
	"context"
	"errors"

	"github.com/invoicelens/go-invoicelens/internal/domain"
	"github.com/invoicelens/go-invoicelens/internal/repository/document"
	"github.com/invoicelens/go-invoicelens/internal/repository/thread"
)

// OwnershipGuard re-verifies the User -> Document -> ChatThread chain
// against the caller's identity on every call. Nothing is cached; the
// check is recomputed from current relations each time. The guard has
// no side effects.
type OwnershipGuard struct {
	documentRepo document.DocumentRepository
	threadRepo   thread.ThreadRepository
	logger       Logger
}

func NewOwnershipGuard(documentRepo document.DocumentRepository, threadRepo thread.ThreadRepository, logger Logger) *OwnershipGuard {
	return &OwnershipGuard{
		documentRepo: documentRepo,
		threadRepo:   threadRepo,
		logger:       logger,
	}
}

// AssertDocumentOwnership returns the document when it exists and is
// owned by userID. A missing document is domain.ErrNotFound, somebody
// else's document is domain.ErrForbidden.
func (g *OwnershipGuard) AssertDocumentOwnership(ctx context.Context, userID, documentID uint) (*domain.Document, error) {
	doc, err := g.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, document.ErrDocumentNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if doc.UserID != userID {
		g.logger.Warn("document access denied",
			"document_id", documentID,
			"owner_id", doc.UserID,
			"caller_id", userID)
		return nil, domain.ErrForbidden
	}

	return doc, nil
}

// AssertThreadOwnership returns the thread with its parent document and
// OCR result preloaded in the same repository query, so callers that
// need the grounding text observe one consistent snapshot.
func (g *OwnershipGuard) AssertThreadOwnership(ctx context.Context, userID, threadID uint) (*domain.ChatThread, error) {
	th, err := g.threadRepo.FindByIDWithDocumentAndOcr(ctx, threadID)
	if err != nil {
		if errors.Is(err, thread.ErrThreadNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if th.UserID != userID {
		g.logger.Warn("thread access denied",
			"thread_id", threadID,
			"owner_id", th.UserID,
			"caller_id", userID)
		return nil, domain.ErrForbidden
	}

	return th, nil
}
