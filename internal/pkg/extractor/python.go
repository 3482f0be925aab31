package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"os/exec"

	"github.com/rs/zerolog"

	"github.com/acadmx/curricula/internal/app/models/dto"
	"github.com/acadmx/curricula/internal/pkg/apperrors"
)

// PythonExtractor runs the plan extraction script as a child process. The
// script must exit 0 and write exactly one JSON document matching
// dto.PlanPayload to stdout; anything else is a hard failure for the
// caller, never recoverable by the ingestion pipeline.
type PythonExtractor struct {
	bin     string
	script  string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewPythonExtractor creates a PythonExtractor. bin is the python
// executable, script the extraction script path. A non-positive timeout
// defaults to two minutes.
func NewPythonExtractor(bin, script string, timeout time.Duration, logger zerolog.Logger) *PythonExtractor {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &PythonExtractor{
		bin:     bin,
		script:  script,
		timeout: timeout,
		logger:  logger,
	}
}

// Extract runs the extraction script against documentPath and parses its
// stdout into a plan payload.
func (e *PythonExtractor) Extract(ctx context.Context, documentPath string, opts Options) (*dto.PlanPayload, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := []string{e.script, documentPath}
	if opts.Debug {
		args = append(args, "--debug")
	}
	if opts.OCR {
		args = append(args, "--ocr")
	}

	e.logger.Info().
		Str("bin", e.bin).
		Strs("args", args).
		Msg("Running plan extractor")

	cmd := exec.CommandContext(ctx, e.bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		e.logger.Error().
			Err(err).
			Str("document", documentPath).
			Str("stderr", stderr.String()).
			Msg("Plan extractor failed")
		return nil, fmt.Errorf("%w: %v (stderr: %s)", apperrors.ErrExtractorFailed, err, stderr.String())
	}

	var payload dto.PlanPayload
	if err := json.Unmarshal(stdout.Bytes(), &payload); err != nil {
		e.logger.Error().
			Err(err).
			Str("document", documentPath).
			Msg("Plan extractor emitted unparsable output")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExtractorOutputInvalid, err)
	}

	e.logger.Info().
		Str("plan", payload.Plan.Nombre).
		Str("version", payload.Plan.Version).
		Int("materias", len(payload.Materias)).
		Int("warnings", len(payload.Warnings)).
		Msg("Plan extraction completed")

	return &payload, nil
}
