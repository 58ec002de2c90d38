package workers

import (
	"context"
	"fmt"
	"os"

	"github.com/killallgit/studio-api/internal/models"
	"github.com/killallgit/studio-api/internal/processing"
	"github.com/killallgit/studio-api/internal/services/sessions"
	"github.com/killallgit/studio-api/internal/sessionstore"
	apperrors "github.com/killallgit/studio-api/pkg/errors"
	"go.uber.org/zap"
)

// AudioProcessor runs editing jobs against the session store
type AudioProcessor struct {
	store    *sessionstore.Store
	backend  processing.Backend
	sessions sessions.Service
	log      *zap.Logger
}

// NewAudioProcessor creates a processor for every editing job type
func NewAudioProcessor(store *sessionstore.Store, backend processing.Backend, sessionService sessions.Service, log *zap.Logger) *AudioProcessor {
	if log == nil {
		log = zap.NewNop()
	}
	return &AudioProcessor{
		store:    store,
		backend:  backend,
		sessions: sessionService,
		log:      log.Named("audio_processor"),
	}
}

// CanProcess returns true for the editing job types
func (p *AudioProcessor) CanProcess(jobType models.JobType) bool {
	for _, t := range models.AllJobTypes {
		if t == jobType {
			return true
		}
	}
	return false
}

// output is one artifact a job produces
type output struct {
	name string
	kind models.ArtifactKind
}

// ProcessJob renders the job's artifacts into the session. Writes to one
// session are serialized; outputs become visible only once all of them
// rendered.
func (p *AudioProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	sessionID := job.SessionUUID

	unlock, err := p.store.Lock(sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	input, err := p.inputPath(ctx, sessionID)
	if err != nil {
		return err
	}

	outputs, render, err := p.plan(job)
	if err != nil {
		return err
	}

	staged := make([]*sessionstore.Staged, 0, len(outputs))
	defer func() {
		for _, st := range staged {
			st.Discard()
		}
	}()

	paths := make([]string, len(outputs))
	for i, out := range outputs {
		st, err := p.store.Stage(sessionID, out.name)
		if err != nil {
			return err
		}
		staged = append(staged, st)
		paths[i] = st.Path
	}

	p.log.Debug("rendering job",
		zap.Uint("job_id", job.ID),
		zap.String("type", string(job.Type)),
		zap.String("session_id", sessionID))

	if err := render(ctx, input, paths); err != nil {
		return err
	}

	for i, st := range staged {
		if err := st.Commit(); err != nil {
			return err
		}

		var size int64
		if info, err := os.Stat(st.Final); err == nil {
			size = info.Size()
		}

		jobID := job.ID
		if err := p.sessions.RecordArtifact(ctx, &models.Artifact{
			SessionUUID: sessionID,
			Filename:    outputs[i].name,
			Kind:        outputs[i].kind,
			Size:        size,
			JobID:       &jobID,
		}); err != nil {
			// The file is already published; a missing record only affects listings
			p.log.Warn("failed to record artifact",
				zap.String("session_id", sessionID),
				zap.String("filename", outputs[i].name),
				zap.Error(err))
		}
	}

	return nil
}

// inputPath resolves the session's original upload
func (p *AudioProcessor) inputPath(ctx context.Context, sessionID string) (string, error) {
	name, err := p.sessions.OriginalName(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return p.store.Resolve(sessionID, name)
}

type renderFunc func(ctx context.Context, input string, outputs []string) error

// plan decodes the job payload into its outputs and the backend call
// producing them. It also fills in job.Result.
func (p *AudioProcessor) plan(job *models.Job) ([]output, renderFunc, error) {
	sessionID := job.SessionUUID

	switch job.Type {
	case models.JobTypeTrim:
		params, err := trimParams(job)
		if err != nil {
			return nil, nil, err
		}
		name := processing.TrimResultName(sessionID)
		job.SetResult("output_file", name)
		return []output{{name, models.ArtifactKindTrim}},
			func(ctx context.Context, input string, outputs []string) error {
				return p.backend.Trim(ctx, input, outputs[0], params)
			}, nil

	case models.JobTypeSplit:
		points, ok := job.GetPayloadFloats("split_points")
		if !ok || len(points) == 0 {
			return nil, nil, apperrors.MissingFieldError("split_points")
		}
		names := processing.SegmentNames(len(points)+1, sessionID)
		outs := make([]output, len(names))
		for i, n := range names {
			outs[i] = output{n, models.ArtifactKindSegment}
		}
		job.SetResult("output_files", names)
		return outs,
			func(ctx context.Context, input string, outputs []string) error {
				return p.backend.Split(ctx, input, points, outputs)
			}, nil

	case models.JobTypeEqualize:
		values, ok := job.GetPayloadFloats("eq_values")
		if !ok {
			return nil, nil, apperrors.MissingFieldError("eq_values")
		}
		gains := make([]int, len(values))
		for i, v := range values {
			gains[i] = int(v)
		}
		name := processing.EqualizedName(sessionID)
		job.SetResult("output_file", name)
		return []output{{name, models.ArtifactKindEqualized}},
			func(ctx context.Context, input string, outputs []string) error {
				return p.backend.Equalize(ctx, input, outputs[0], gains)
			}, nil

	case models.JobTypeExtractVocals:
		vocals := processing.VocalsName(sessionID)
		instrumental := processing.InstrumentalName(sessionID)
		job.SetResult("vocals_file", vocals)
		job.SetResult("instrumental_file", instrumental)
		return []output{{vocals, models.ArtifactKindVocals}, {instrumental, models.ArtifactKindInstrumental}},
			func(ctx context.Context, input string, outputs []string) error {
				return p.backend.ExtractVocals(ctx, input, outputs[0], outputs[1])
			}, nil
	}

	return nil, nil, apperrors.New(apperrors.ErrCodeInternal, fmt.Sprintf("unsupported job type %s", job.Type))
}

func trimParams(job *models.Job) (processing.TrimParams, error) {
	start, ok := job.GetPayloadFloat("start_time")
	if !ok {
		return processing.TrimParams{}, apperrors.MissingFieldError("start_time")
	}
	end, ok := job.GetPayloadFloat("end_time")
	if !ok {
		return processing.TrimParams{}, apperrors.MissingFieldError("end_time")
	}
	crossfade, _ := job.GetPayloadFloat("crossfade")

	params := processing.TrimParams{Start: start, End: end, Crossfade: crossfade}
	return params, params.Validate()
}
