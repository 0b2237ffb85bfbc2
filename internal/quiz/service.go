package quiz

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quizgen/internal/apperr"
	"quizgen/internal/extract"
	"quizgen/internal/models"
)

// Extractor reads the text of a stored upload; ok is false for unsupported extensions.
type Extractor interface {
	Extract(path, ext string) (text string, ok bool, err error)
}

// QuestionGenerator turns document text into raw MCQ text.
type QuestionGenerator interface {
	Generate(ctx context.Context, text string, count int) (string, error)
}

// Serializer persists raw MCQ text as the txt and pdf artifacts for base.
type Serializer interface {
	Serialize(ctx context.Context, raw, base string) (models.Artifacts, error)
}

// Mirror copies an artifact to object storage and returns its public URL.
type Mirror interface {
	UploadArtifact(ctx context.Context, requestID uuid.UUID, filename string, content io.Reader) (string, error)
}

// Recorder keeps a history of finished generations.
type Recorder interface {
	Record(ctx context.Context, rec models.GenerationRecord) error
}

// Request is one upload to turn into a quiz. A zero ID is replaced with a fresh one.
type Request struct {
	ID       uuid.UUID
	Filename string
	Content  io.Reader
	Count    int
}

// Result is what a successful Run produced.
type Result struct {
	RequestID      uuid.UUID
	SourceFilename string
	MCQs           string
	Artifacts      models.Artifacts
	TxtURL         string
	PDFURL         string
}

// Options configures a Service. Mirror and Recorder are optional.
type Options struct {
	UploadDir        string
	IsolateArtifacts bool
	Mirror           Mirror
	Recorder         Recorder
}

// Service runs the upload → extract → generate → serialize pipeline.
type Service struct {
	extractor  Extractor
	generator  QuestionGenerator
	serializer Serializer
	opts       Options
	logger     *zap.Logger
}

func NewService(extractor Extractor, generator QuestionGenerator, serializer Serializer, opts Options, logger *zap.Logger) *Service {
	return &Service{
		extractor:  extractor,
		generator:  generator,
		serializer: serializer,
		opts:       opts,
		logger:     logger,
	}
}

// Run processes one upload. Failures are returned as *apperr.Error.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	// 1. Request identity
	requestID := req.ID
	if requestID == uuid.Nil {
		requestID = uuid.New()
	}
	log := s.logger.With(zap.String("request_id", requestID.String()))

	if req.Content == nil || req.Filename == "" {
		return nil, apperr.MissingField("file")
	}

	// 2. Extension whitelist
	ext := uploadExt(req.Filename)
	if !extract.Supported(ext) {
		log.Info("rejected upload", zap.String("filename", req.Filename), zap.String("ext", ext))
		return nil, apperr.UnsupportedFileType(ext)
	}

	// 3. Save the upload under a request-scoped name
	name, stem := storedName(req.Filename, ext)
	uploadPath := filepath.Join(s.opts.UploadDir, requestID.String()+"_"+name)
	if err := saveUpload(uploadPath, req.Content); err != nil {
		log.Error("failed to save upload", zap.String("path", uploadPath), zap.Error(err))
		return nil, apperr.Filesystem("failed to save the uploaded file", err)
	}

	// 4. Extract
	text, ok, err := s.extractor.Extract(uploadPath, ext)
	if err != nil {
		log.Warn("extraction failed", zap.String("path", uploadPath), zap.Error(err))
		return nil, apperr.ExtractionFailed(err)
	}
	if !ok {
		return nil, apperr.UnsupportedFileType(ext)
	}
	if strings.TrimSpace(text) == "" {
		log.Info("extraction yielded no text", zap.String("path", uploadPath))
		return nil, apperr.EmptyExtraction()
	}

	// 5. Generate
	raw, err := s.generator.Generate(ctx, text, req.Count)
	if err != nil {
		return nil, err
	}

	// 6. Serialize
	base := stem
	if s.opts.IsolateArtifacts {
		base = stem + "_" + requestID.String()
	}
	arts, err := s.serializer.Serialize(ctx, raw, base)
	if err != nil {
		log.Error("failed to write artifacts", zap.String("base", base), zap.Error(err))
		if apperr.IsKind(err, apperr.KindFilesystem) {
			return nil, err
		}
		return nil, apperr.Filesystem("failed to write the generated files", err)
	}

	result := &Result{
		RequestID:      requestID,
		SourceFilename: name,
		MCQs:           raw,
		Artifacts:      arts,
	}

	// 7. Optional mirror and history; neither fails the request
	if s.opts.Mirror != nil {
		result.TxtURL = s.mirror(ctx, log, requestID, arts.TxtFilename, arts.TxtPath)
		result.PDFURL = s.mirror(ctx, log, requestID, arts.PDFFilename, arts.PDFPath)
	}
	if s.opts.Recorder != nil {
		rec := models.GenerationRecord{
			ID:             requestID,
			SourceFilename: name,
			Questions:      req.Count,
			Blocks:         arts.Blocks,
			TxtFilename:    arts.TxtFilename,
			PDFFilename:    arts.PDFFilename,
			Pages:          arts.Pages,
			TxtURL:         result.TxtURL,
			PDFURL:         result.PDFURL,
			CreatedAt:      time.Now().UTC(),
		}
		if err := s.opts.Recorder.Record(ctx, rec); err != nil {
			log.Warn("failed to record generation", zap.Error(err))
		}
	}

	log.Info("generation complete",
		zap.String("source", name),
		zap.Int("questions", req.Count),
		zap.Int("blocks", arts.Blocks),
		zap.Int("pages", arts.Pages))
	return result, nil
}

func (s *Service) mirror(ctx context.Context, log *zap.Logger, requestID uuid.UUID, filename, path string) string {
	f, err := os.Open(path)
	if err != nil {
		log.Warn("failed to open artifact for mirroring", zap.String("path", path), zap.Error(err))
		return ""
	}
	defer f.Close()

	url, err := s.opts.Mirror.UploadArtifact(ctx, requestID, filename, f)
	if err != nil {
		log.Warn("failed to mirror artifact", zap.String("filename", filename), zap.Error(err))
		return ""
	}
	return url
}

func saveUpload(path string, content io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
