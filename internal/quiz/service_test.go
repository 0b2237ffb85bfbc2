package quiz

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"quizgen/internal/apperr"
	"quizgen/internal/models"
)

type fakeExtractor struct {
	text  string
	err   error
	paths []string
}

func (f *fakeExtractor) Extract(path, ext string) (string, bool, error) {
	f.paths = append(f.paths, path)
	return f.text, true, f.err
}

type fakeGenerator struct {
	reply  string
	err    error
	texts  []string
	counts []int
}

func (f *fakeGenerator) Generate(ctx context.Context, text string, count int) (string, error) {
	f.texts = append(f.texts, text)
	f.counts = append(f.counts, count)
	return f.reply, f.err
}

type fakeSerializer struct {
	dir   string
	err   error
	bases []string
}

func (f *fakeSerializer) Serialize(ctx context.Context, raw, base string) (models.Artifacts, error) {
	f.bases = append(f.bases, base)
	if f.err != nil {
		return models.Artifacts{}, f.err
	}
	arts := models.Artifacts{
		TxtFilename: "generated_mcqs_" + base + ".txt",
		PDFFilename: "generated_mcqs_" + base + ".pdf",
		Blocks:      len(SplitBlocks(raw)),
		Pages:       1,
	}
	arts.TxtPath = filepath.Join(f.dir, arts.TxtFilename)
	arts.PDFPath = filepath.Join(f.dir, arts.PDFFilename)
	if err := os.WriteFile(arts.TxtPath, []byte(raw), 0o644); err != nil {
		return models.Artifacts{}, err
	}
	if err := os.WriteFile(arts.PDFPath, []byte("%PDF-1.3"), 0o644); err != nil {
		return models.Artifacts{}, err
	}
	return arts, nil
}

type fakeMirror struct {
	uploads map[string]string
	fail    bool
}

func (m *fakeMirror) UploadArtifact(ctx context.Context, requestID uuid.UUID, filename string, content io.Reader) (string, error) {
	if m.fail {
		return "", errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	if m.uploads == nil {
		m.uploads = map[string]string{}
	}
	m.uploads[filename] = string(data)
	return "https://cdn.test/results/" + requestID.String() + "/" + filename, nil
}

type fakeRecorder struct {
	records []models.GenerationRecord
	err     error
}

func (r *fakeRecorder) Record(ctx context.Context, rec models.GenerationRecord) error {
	r.records = append(r.records, rec)
	return r.err
}

type serviceFixture struct {
	uploadDir  string
	extractor  *fakeExtractor
	generator  *fakeGenerator
	serializer *fakeSerializer
}

func newServiceFixture(t *testing.T) *serviceFixture {
	return &serviceFixture{
		uploadDir:  t.TempDir(),
		extractor:  &fakeExtractor{text: "The sky is blue."},
		generator:  &fakeGenerator{reply: "## MCQ\nQuestion: colour?"},
		serializer: &fakeSerializer{dir: t.TempDir()},
	}
}

func (f *serviceFixture) service(t *testing.T, opts Options) *Service {
	opts.UploadDir = f.uploadDir
	return NewService(f.extractor, f.generator, f.serializer, opts, zaptest.NewLogger(t))
}

func TestRun_Success(t *testing.T) {
	f := newServiceFixture(t)
	svc := f.service(t, Options{})

	res, err := svc.Run(context.Background(), Request{Filename: "my notes.txt", Content: strings.NewReader("The sky is blue."), Count: 4})
	require.NoError(t, err)

	assert.Equal(t, "my_notes.txt", res.SourceFilename)
	assert.Equal(t, "## MCQ\nQuestion: colour?", res.MCQs)
	assert.Equal(t, "generated_mcqs_my_notes.txt", res.Artifacts.TxtFilename)
	assert.Equal(t, []string{"my_notes"}, f.serializer.bases)
	assert.Equal(t, []int{4}, f.generator.counts)
	assert.Empty(t, res.TxtURL)

	require.Len(t, f.extractor.paths, 1)
	saved := f.extractor.paths[0]
	assert.Equal(t, f.uploadDir, filepath.Dir(saved))
	assert.Equal(t, res.RequestID.String()+"_my_notes.txt", filepath.Base(saved))
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, "The sky is blue.", string(data))
}

func TestRun_IsolatedArtifacts(t *testing.T) {
	f := newServiceFixture(t)
	svc := f.service(t, Options{IsolateArtifacts: true})

	res, err := svc.Run(context.Background(), Request{Filename: "notes.txt", Content: strings.NewReader("x"), Count: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"notes_" + res.RequestID.String()}, f.serializer.bases)
}

func TestRun_UsesCallerRequestID(t *testing.T) {
	f := newServiceFixture(t)
	svc := f.service(t, Options{IsolateArtifacts: true})
	id := uuid.MustParse("6f1c2d9e-3a4b-4c5d-8e9f-0a1b2c3d4e5f")

	res, err := svc.Run(context.Background(), Request{ID: id, Filename: "notes.txt", Content: strings.NewReader("x"), Count: 1})
	require.NoError(t, err)

	assert.Equal(t, id, res.RequestID)
	assert.Equal(t, []string{"notes_" + id.String()}, f.serializer.bases)
	require.Len(t, f.extractor.paths, 1)
	assert.Equal(t, id.String()+"_notes.txt", filepath.Base(f.extractor.paths[0]))
}

func TestRun_MissingFile(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service(t, Options{}).Run(context.Background(), Request{Count: 1})
	assert.True(t, apperr.IsKind(err, apperr.KindMissingField))
}

func TestRun_UnsupportedExtension(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service(t, Options{}).Run(context.Background(), Request{Filename: "data.csv", Content: strings.NewReader("a,b"), Count: 1})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnsupportedFileType))
	assert.Empty(t, f.extractor.paths)

	entries, err := os.ReadDir(f.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected uploads are not stored")
}

func TestRun_EmptyExtractionSkipsGeneration(t *testing.T) {
	f := newServiceFixture(t)
	f.extractor.text = " \n\t "

	_, err := f.service(t, Options{}).Run(context.Background(), Request{Filename: "blank.txt", Content: strings.NewReader(" "), Count: 1})
	assert.True(t, apperr.IsKind(err, apperr.KindEmptyExtraction))
	assert.Empty(t, f.generator.texts)
}

func TestRun_ExtractionFailure(t *testing.T) {
	f := newServiceFixture(t)
	f.extractor.err = errors.New("zip: not a valid zip file")

	_, err := f.service(t, Options{}).Run(context.Background(), Request{Filename: "bad.docx", Content: strings.NewReader("junk"), Count: 1})
	assert.True(t, apperr.IsKind(err, apperr.KindExtractionFailed))
	assert.Empty(t, f.generator.texts)
}

func TestRun_GeneratorFailurePropagates(t *testing.T) {
	f := newServiceFixture(t)
	f.generator.err = apperr.ExternalService(errors.New("503"))

	_, err := f.service(t, Options{}).Run(context.Background(), Request{Filename: "a.txt", Content: strings.NewReader("x"), Count: 1})
	assert.True(t, apperr.IsKind(err, apperr.KindExternalService))
	assert.Empty(t, f.serializer.bases)
}

func TestRun_SerializerFailureIsFilesystem(t *testing.T) {
	f := newServiceFixture(t)
	f.serializer.err = errors.New("disk full")

	_, err := f.service(t, Options{}).Run(context.Background(), Request{Filename: "a.txt", Content: strings.NewReader("x"), Count: 1})
	assert.True(t, apperr.IsKind(err, apperr.KindFilesystem))
}

func TestRun_UploadDirMissing(t *testing.T) {
	f := newServiceFixture(t)
	f.uploadDir = filepath.Join(t.TempDir(), "missing")

	_, err := f.service(t, Options{}).Run(context.Background(), Request{Filename: "a.txt", Content: strings.NewReader("x"), Count: 1})
	assert.True(t, apperr.IsKind(err, apperr.KindFilesystem))
}

func TestRun_MirrorsAndRecords(t *testing.T) {
	f := newServiceFixture(t)
	mirror := &fakeMirror{}
	recorder := &fakeRecorder{}
	svc := f.service(t, Options{Mirror: mirror, Recorder: recorder})

	res, err := svc.Run(context.Background(), Request{Filename: "a.txt", Content: strings.NewReader("x"), Count: 2})
	require.NoError(t, err)

	assert.Equal(t, "## MCQ\nQuestion: colour?", mirror.uploads["generated_mcqs_a.txt"])
	assert.Contains(t, mirror.uploads, "generated_mcqs_a.pdf")
	assert.Equal(t, "https://cdn.test/results/"+res.RequestID.String()+"/generated_mcqs_a.pdf", res.PDFURL)

	require.Len(t, recorder.records, 1)
	rec := recorder.records[0]
	assert.Equal(t, res.RequestID, rec.ID)
	assert.Equal(t, "a.txt", rec.SourceFilename)
	assert.Equal(t, 2, rec.Questions)
	assert.Equal(t, 1, rec.Blocks)
	assert.Equal(t, res.TxtURL, rec.TxtURL)
}

func TestRun_MirrorAndRecorderFailuresAreNotFatal(t *testing.T) {
	f := newServiceFixture(t)
	svc := f.service(t, Options{
		Mirror:   &fakeMirror{fail: true},
		Recorder: &fakeRecorder{err: errors.New("connection refused")},
	})

	res, err := svc.Run(context.Background(), Request{Filename: "a.txt", Content: strings.NewReader("x"), Count: 1})
	require.NoError(t, err)
	assert.Empty(t, res.TxtURL)
	assert.Empty(t, res.PDFURL)
}
