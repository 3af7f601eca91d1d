package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"gitlab.com/gradepro.net/internal/core/ports/primary"
	"gitlab.com/gradepro.net/internal/core/ports/secondary"
	"gitlab.com/gradepro.net/internal/domain"
)

const (
	WordUnavailableMessage = "Error: Word processor library not loaded. Please refresh."
	WordParseMessage       = "Error parsing Word document. Please try converting to PDF."
	unexpectedMessage      = "Error: the file could not be read."

	pdfContentType = "application/pdf"
	utf8BOM        = "\ufeff"
)

var _ IExtractService = (*ExtractService)(nil)

type ExtractService struct {
	word        secondary.DocumentTextExtractor
	logger      primary.Logger
	maxParallel int
}

// NewExtractService creates the service. word may be nil, in which case Word documents
// fail extraction with WordUnavailableMessage.
func NewExtractService(word secondary.DocumentTextExtractor, logger primary.Logger, maxParallel int) *ExtractService {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &ExtractService{
		word:        word,
		logger:      logger,
		maxParallel: maxParallel,
	}
}

func (s *ExtractService) ExtractAll(ctx context.Context, files []domain.UploadedFile) []domain.Submission {
	results := make([]domain.Submission, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i, f := range files {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("Extraction panicked", "fileName", f.Name, "panic", r)
					results[i] = failed(f, unexpectedMessage)
				}
			}()
			results[i] = s.extractOne(gctx, f)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *ExtractService) extractOne(ctx context.Context, f domain.UploadedFile) domain.Submission {
	kind, content, err := s.extract(ctx, f.Name, f.ContentType, f.Data)
	if err != nil {
		s.logger.Warn("Extraction failed", "fileName", f.Name, "error", err)
		return failed(f, userMessage(err))
	}
	s.logger.Debug("File extracted", "fileName", f.Name, "kind", kind, "bytes", len(f.Data))
	return domain.NewSubmission(f.Name, kind, content, f.LastModified)
}

func (s *ExtractService) Reextract(ctx context.Context, fileName string, source domain.SourceFile) (domain.ContentKind, string, error) {
	return s.extract(ctx, fileName, source.ContentType, source.Data)
}

func (s *ExtractService) extract(ctx context.Context, fileName, contentType string, data []byte) (domain.ContentKind, string, error) {
	switch {
	case isWord(fileName):
		return s.extractWord(ctx, fileName, data)
	case isPDF(fileName, contentType):
		return domain.ContentPDFBinary, base64.StdEncoding.EncodeToString(data), nil
	default:
		return domain.ContentPlainText, decodeText(data), nil
	}
}

func (s *ExtractService) extractWord(ctx context.Context, fileName string, data []byte) (domain.ContentKind, string, error) {
	if s.word == nil {
		return domain.ContentExtractionError, "", &domain.ExtractionError{FileName: fileName, Reason: WordUnavailableMessage}
	}
	text, err := s.word.ExtractText(ctx, data)
	if err != nil {
		return domain.ContentExtractionError, "", &domain.ExtractionError{FileName: fileName, Reason: WordParseMessage, Err: err}
	}
	return domain.ContentPlainText, text, nil
}

func failed(f domain.UploadedFile, message string) domain.Submission {
	source := &domain.SourceFile{
		ContentType: f.ContentType,
		Data:        append([]byte(nil), f.Data...),
	}
	return domain.NewFailedSubmission(f.Name, message, source, f.LastModified)
}

func userMessage(err error) string {
	if e, ok := err.(*domain.ExtractionError); ok && e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("Error: %v", err)
}

func extension(fileName string) string {
	return strings.ToLower(filepath.Ext(fileName))
}

func isWord(fileName string) bool {
	return extension(fileName) == ".docx"
}

func isPDF(fileName, contentType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	return mediaType == pdfContentType || extension(fileName) == ".pdf"
}

// decodeText reads bytes as UTF-8, dropping a leading BOM and replacing invalid sequences
func decodeText(data []byte) string {
	text := strings.TrimPrefix(string(data), utf8BOM)
	return strings.ToValidUTF8(text, "\uFFFD")
}
