package dto

// PlanPayload is the structured extraction of a study-plan document as the
// external extractor emits it. Wire field names follow the extractor's
// Spanish JSON contract.
type PlanPayload struct {
	OK       bool        `json:"ok"`
	Plan     PlanHeader  `json:"plan"`
	Materias []RawCourse `json:"materias"`
	Warnings []string    `json:"warnings,omitempty"`
}

// PlanHeader identifies the target study plan and optionally carries its
// aggregate fields.
type PlanHeader struct {
	Nombre             string `json:"nombre"`
	Version            string `json:"version"`
	TotalCreditos      *int   `json:"total_creditos,omitempty"`
	SemestresSugeridos *int   `json:"semestres_sugeridos,omitempty"`
}

// RawCourse is one unnormalized course record from the extractor. Creditos
// is deliberately untyped: extractors have been seen emitting numbers,
// numeric strings, and garbage, and a bad value must drop only the record,
// not fail the whole payload.
type RawCourse struct {
	Codigo   string      `json:"codigo"`
	Nombre   string      `json:"nombre"`
	Creditos interface{} `json:"creditos"`
	Tipo     string      `json:"tipo,omitempty"`
	Semestre *int        `json:"semestre,omitempty"`
}

// Ingestion outcome flags.
const (
	ActionUpserted         = "UPSERTED"
	ActionSkippedNoChanges = "SKIPPED_NO_CHANGES"
)

// IngestResult is the summary returned to the caller after one ingestion
// run. Field names mirror the audit vocabulary of the ingestion pipeline.
type IngestResult struct {
	PlanID                       int64    `json:"planId"`
	MateriasInput                int      `json:"materiasInput"`
	Added                        int      `json:"added"`
	Updated                      int      `json:"updated"`
	Unchanged                    int      `json:"unchanged"`
	RelacionesMateriaPlanCreadas int      `json:"relacionesMateriaPlanCreadas"`
	Warnings                     []string `json:"warnings"`
	Action                       string   `json:"action"`
}

// ImportResponse wraps an ingestion summary together with the stored
// document reference for the upload endpoint.
type ImportResponse struct {
	FileID int64         `json:"fileId"`
	Result *IngestResult `json:"result"`
}
