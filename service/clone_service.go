package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dupscan/dupscan/domain"
	"github.com/dupscan/dupscan/internal/analyzer"
	"github.com/dupscan/dupscan/internal/parser"
)

// CloneServiceImpl implements the domain.CloneService interface by
// driving the detection engine over loaded source units.
type CloneServiceImpl struct {
	fileReader domain.FileReader
	progress   domain.ProgressReporter
}

// NewCloneService creates a new clone detection service.
func NewCloneService() *CloneServiceImpl {
	return &CloneServiceImpl{
		fileReader: NewFileReader(),
	}
}

// SetProgressReporter attaches an optional progress reporter used
// during file loading.
func (s *CloneServiceImpl) SetProgressReporter(reporter domain.ProgressReporter) {
	s.progress = reporter
}

// DetectClones performs clone detection on the paths in the request.
func (s *CloneServiceImpl) DetectClones(ctx context.Context, req *domain.CloneRequest) (*domain.CloneResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	files, err := s.fileReader.CollectSourceFiles(req.Paths, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no supported source files found in the given paths", nil)
	}

	return s.DetectClonesInFiles(ctx, files, req)
}

// DetectClonesInFiles performs clone detection on an explicit file
// list, bypassing path discovery.
func (s *CloneServiceImpl) DetectClonesInFiles(ctx context.Context, filePaths []string, req *domain.CloneRequest) (*domain.CloneResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	units, err := s.loadSourceUnits(ctx, filePaths)
	if err != nil {
		return nil, err
	}

	detector, err := analyzer.NewDetector(parser.NewRegistry(), req.Config)
	if err != nil {
		return nil, err
	}

	report, err := detector.Detect(ctx, units)
	if err != nil {
		return nil, err
	}

	return &domain.CloneResponse{
		Report:   report,
		RunID:    uuid.New().String(),
		Duration: time.Since(start).Milliseconds(),
		Success:  true,
	}, nil
}

// loadSourceUnits reads every file into a source unit. Files that
// cannot be read abort the run; unreadable content is an input error,
// not a per-file warning.
func (s *CloneServiceImpl) loadSourceUnits(ctx context.Context, filePaths []string) ([]*domain.SourceUnit, error) {
	if s.progress != nil {
		s.progress.Start("Loading files", len(filePaths))
		defer s.progress.Complete()
	}

	units := make([]*domain.SourceUnit, 0, len(filePaths))
	for _, path := range filePaths {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		content, err := s.fileReader.ReadFile(path)
		if err != nil {
			return nil, err
		}
		lang, _ := domain.LanguageForPath(path)
		units = append(units, domain.NewSourceUnit(path, lang, content))
		if s.progress != nil {
			s.progress.Step()
		}
	}
	return units, nil
}
