package extractor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadmx/curricula/internal/pkg/apperrors"
)

// writeScript drops an executable shell script into dir and returns its
// path. The extractor only cares about exit code and stdout, so /bin/sh
// stands in for the real python script.
func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "extract.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestExtractParsesScriptOutput(t *testing.T) {
	script := writeScript(t, t.TempDir(), `cat <<'EOF'
{"ok":true,"plan":{"nombre":"Ingeniería de Sistemas","version":"2020"},"materias":[{"codigo":"5","nombre":"Cálculo I","creditos":8,"tipo":"obligatoria"}],"warnings":["pagina 2 ilegible"]}
EOF`)

	e := NewPythonExtractor("/bin/sh", script, time.Minute, zerolog.Nop())

	payload, err := e.Extract(context.Background(), "plan.pdf", Options{})
	require.NoError(t, err)

	assert.True(t, payload.OK)
	assert.Equal(t, "Ingeniería de Sistemas", payload.Plan.Nombre)
	assert.Equal(t, "2020", payload.Plan.Version)
	require.Len(t, payload.Materias, 1)
	assert.Equal(t, "5", payload.Materias[0].Codigo)
	assert.Equal(t, []string{"pagina 2 ilegible"}, payload.Warnings)
}

func TestExtractPassesFlagsAndDocumentPath(t *testing.T) {
	// The script echoes its arguments back inside the payload's plan name
	// so the test can observe the exact invocation.
	script := writeScript(t, t.TempDir(),
		`printf '{"ok":true,"plan":{"nombre":"%s","version":"x"},"materias":[]}' "$*"`)

	e := NewPythonExtractor("/bin/sh", script, time.Minute, zerolog.Nop())

	payload, err := e.Extract(context.Background(), "plan.pdf", Options{Debug: true, OCR: true})
	require.NoError(t, err)
	assert.Equal(t, "plan.pdf --debug --ocr", payload.Plan.Nombre)
}

func TestExtractReportsScriptFailure(t *testing.T) {
	script := writeScript(t, t.TempDir(), `echo "no text layer found" >&2
exit 3`)

	e := NewPythonExtractor("/bin/sh", script, time.Minute, zerolog.Nop())

	_, err := e.Extract(context.Background(), "plan.pdf", Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrExtractorFailed)
	assert.Contains(t, err.Error(), "no text layer found")
}

func TestExtractRejectsMalformedOutput(t *testing.T) {
	script := writeScript(t, t.TempDir(), `echo "this is not json"`)

	e := NewPythonExtractor("/bin/sh", script, time.Minute, zerolog.Nop())

	_, err := e.Extract(context.Background(), "plan.pdf", Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrExtractorOutputInvalid)
}

func TestExtractHonorsTimeout(t *testing.T) {
	script := writeScript(t, t.TempDir(), `sleep 5`)

	e := NewPythonExtractor("/bin/sh", script, 50*time.Millisecond, zerolog.Nop())

	start := time.Now()
	_, err := e.Extract(context.Background(), "plan.pdf", Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrExtractorFailed)
	assert.Less(t, time.Since(start), 3*time.Second)
}
