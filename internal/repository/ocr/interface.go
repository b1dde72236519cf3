package ocr

import "context"

// OcrResultRepository handles OCR result data operations. Creation goes
// through the document repository's atomic CreateWithOcr; this package
// only covers the cleanup side.
type OcrResultRepository interface {
	DeleteByDocumentIDs(ctx context.Context, documentIDs []uint) (int64, error)
}
