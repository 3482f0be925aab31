package services

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadmx/curricula/internal/app/models"
	"github.com/acadmx/curricula/internal/app/models/dto"
	"github.com/acadmx/curricula/internal/app/repositories"
	"github.com/acadmx/curricula/internal/db"
	"github.com/acadmx/curricula/internal/pkg/apperrors"
)

// In-memory store fakes. The service only talks to the store interfaces,
// so the whole pipeline is exercisable without a database; the querier
// argument is simply ignored.

type fakePlanStore struct {
	plans    []*models.StudyPlan
	nextID   int64
	updates  int
	loseRace bool
}

func (f *fakePlanStore) GetByNameAndVersion(_ context.Context, _ repositories.Querier, name, version string) (*models.StudyPlan, error) {
	for _, p := range f.plans {
		if p.Name == name && p.Version == version {
			return p, nil
		}
	}
	return nil, apperrors.ErrPlanNotFound
}

func (f *fakePlanStore) Insert(_ context.Context, _ repositories.Querier, plan *models.StudyPlan) (bool, error) {
	f.nextID++
	stored := *plan
	stored.ID = f.nextID
	f.plans = append(f.plans, &stored)
	if f.loseRace {
		// Another transaction created the row first; the caller must
		// re-read instead of trusting its own struct.
		return false, nil
	}
	plan.ID = stored.ID
	return true, nil
}

func (f *fakePlanStore) Update(_ context.Context, _ repositories.Querier, plan *models.StudyPlan) error {
	f.updates++
	for i, p := range f.plans {
		if p.ID == plan.ID {
			stored := *plan
			f.plans[i] = &stored
		}
	}
	return nil
}

type fakeCourseStore struct {
	byCode  map[string]*models.Course
	nextID  int64
	updates int
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{byCode: make(map[string]*models.Course)}
}

func (f *fakeCourseStore) GetByCodes(_ context.Context, _ repositories.Querier, codes []string) ([]*models.Course, error) {
	var out []*models.Course
	for _, code := range codes {
		if c, ok := f.byCode[code]; ok {
			stored := *c
			out = append(out, &stored)
		}
	}
	return out, nil
}

func (f *fakeCourseStore) Insert(_ context.Context, _ repositories.Querier, course *models.Course) error {
	f.nextID++
	course.ID = f.nextID
	stored := *course
	f.byCode[course.Code] = &stored
	return nil
}

func (f *fakeCourseStore) Update(_ context.Context, _ repositories.Querier, course *models.Course) error {
	f.updates++
	existing := f.byCode[course.Code]
	// Field updates never touch the legacy plan reference.
	course.LegacyPlanID = existing.LegacyPlanID
	stored := *course
	f.byCode[course.Code] = &stored
	return nil
}

type fakeLinkStore struct {
	links map[[2]int64]bool
}

func newFakeLinkStore() *fakeLinkStore {
	return &fakeLinkStore{links: make(map[[2]int64]bool)}
}

func (f *fakeLinkStore) Ensure(_ context.Context, _ repositories.Querier, courseID, planID int64) (bool, error) {
	key := [2]int64{courseID, planID}
	if f.links[key] {
		return false, nil
	}
	f.links[key] = true
	return true, nil
}

type fakeAuditStore struct {
	entries []*models.IngestAudit
}

func (f *fakeAuditStore) Insert(_ context.Context, _ repositories.Querier, audit *models.IngestAudit) error {
	stored := *audit
	f.entries = append(f.entries, &stored)
	return nil
}

type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	var tx pgx.Tx
	return fn(ctx, tx)
}

type ingestFixture struct {
	plans   *fakePlanStore
	courses *fakeCourseStore
	links   *fakeLinkStore
	audits  *fakeAuditStore
	tx      *fakeTxRunner
	service *IngestService
}

func newIngestFixture() *ingestFixture {
	f := &ingestFixture{
		plans:   &fakePlanStore{},
		courses: newFakeCourseStore(),
		links:   newFakeLinkStore(),
		audits:  &fakeAuditStore{},
		tx:      &fakeTxRunner{},
	}
	f.service = NewIngestService(f.plans, f.courses, f.links, f.audits, f.tx, zerolog.Nop())
	return f
}

func calcPayload() *dto.PlanPayload {
	return &dto.PlanPayload{
		OK: true,
		Plan: dto.PlanHeader{
			Nombre:  "Ingeniería de Sistemas",
			Version: "2020",
		},
		Materias: []dto.RawCourse{
			{Codigo: "5", Nombre: "Cálculo  I", Creditos: 8, Tipo: "obligatoria"},
		},
	}
}

func TestIngestCreatesPlanCourseAndLink(t *testing.T) {
	f := newIngestFixture()

	result, err := f.service.Ingest(context.Background(), calcPayload(), nil)
	require.NoError(t, err)

	assert.Equal(t, dto.ActionUpserted, result.Action)
	assert.Equal(t, 1, result.MateriasInput)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Unchanged)
	assert.Equal(t, 1, result.RelacionesMateriaPlanCreadas)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, int64(1), result.PlanID)

	course, ok := f.courses.byCode["00005"]
	require.True(t, ok)
	assert.Equal(t, "Cálculo I", course.Name)
	assert.Equal(t, 8, course.Credits)
	assert.Equal(t, models.CourseMandatory, course.Type)
	assert.Equal(t, result.PlanID, course.LegacyPlanID)

	// Absent header total falls back to the batch credit sum.
	require.Len(t, f.plans.plans, 1)
	assert.Equal(t, 8, f.plans.plans[0].TotalCredits)
	assert.Equal(t, 0, f.plans.plans[0].SuggestedSemesters)

	assert.Equal(t, 1, f.tx.calls)
}

func TestIngestIsIdempotent(t *testing.T) {
	f := newIngestFixture()

	_, err := f.service.Ingest(context.Background(), calcPayload(), nil)
	require.NoError(t, err)

	result, err := f.service.Ingest(context.Background(), calcPayload(), nil)
	require.NoError(t, err)

	assert.Equal(t, dto.ActionSkippedNoChanges, result.Action)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 1, result.Unchanged)
	assert.Equal(t, 0, result.RelacionesMateriaPlanCreadas)

	// Still exactly one course and one link.
	assert.Len(t, f.courses.byCode, 1)
	assert.Len(t, f.links.links, 1)
	// One audit entry per run, including the no-change one.
	assert.Len(t, f.audits.entries, 2)
}

func TestIngestSharesCoursesAcrossPlans(t *testing.T) {
	f := newIngestFixture()

	first, err := f.service.Ingest(context.Background(), calcPayload(), nil)
	require.NoError(t, err)

	second := calcPayload()
	second.Plan.Nombre = "Ingeniería Industrial"
	second.Materias[0].Nombre = "Cálculo Diferencial"
	second.Materias[0].Creditos = 10

	result, err := f.service.Ingest(context.Background(), second, nil)
	require.NoError(t, err)

	assert.Equal(t, dto.ActionUpserted, result.Action)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.RelacionesMateriaPlanCreadas)
	assert.NotEqual(t, first.PlanID, result.PlanID)

	// The shared course was updated in place and keeps pointing at the
	// plan that first created it.
	require.Len(t, f.courses.byCode, 1)
	course := f.courses.byCode["00005"]
	assert.Equal(t, "Cálculo Diferencial", course.Name)
	assert.Equal(t, 10, course.Credits)
	assert.Equal(t, first.PlanID, course.LegacyPlanID)

	assert.Len(t, f.links.links, 2)
}

func TestIngestAppliesPlanOverrides(t *testing.T) {
	f := newIngestFixture()

	_, err := f.service.Ingest(context.Background(), calcPayload(), nil)
	require.NoError(t, err)

	total := 240
	semesters := 9
	payload := calcPayload()
	payload.Plan.TotalCreditos = &total
	payload.Plan.SemestresSugeridos = &semesters

	_, err = f.service.Ingest(context.Background(), payload, nil)
	require.NoError(t, err)

	assert.Equal(t, 240, f.plans.plans[0].TotalCredits)
	assert.Equal(t, 9, f.plans.plans[0].SuggestedSemesters)

	// Zero-valued header fields leave the stored aggregates alone.
	zero := 0
	payload = calcPayload()
	payload.Plan.TotalCreditos = &zero
	payload.Plan.SemestresSugeridos = &zero

	_, err = f.service.Ingest(context.Background(), payload, nil)
	require.NoError(t, err)

	assert.Equal(t, 240, f.plans.plans[0].TotalCredits)
	assert.Equal(t, 9, f.plans.plans[0].SuggestedSemesters)
}

func TestIngestSurvivesPlanCreationRace(t *testing.T) {
	f := newIngestFixture()
	f.plans.loseRace = true

	result, err := f.service.Ingest(context.Background(), calcPayload(), nil)
	require.NoError(t, err)

	// The insert reported no row, so the service re-read the winner's row
	// and carried on against it.
	assert.Equal(t, int64(1), result.PlanID)
	assert.Equal(t, dto.ActionUpserted, result.Action)
	assert.Equal(t, 1, result.Added)
}

func TestIngestDefaultsVersion(t *testing.T) {
	f := newIngestFixture()

	payload := calcPayload()
	payload.Plan.Version = "  "

	_, err := f.service.Ingest(context.Background(), payload, nil)
	require.NoError(t, err)

	require.Len(t, f.plans.plans, 1)
	assert.Equal(t, "N/A", f.plans.plans[0].Version)
}

func TestIngestRejectsMissingPlanName(t *testing.T) {
	f := newIngestFixture()

	payload := calcPayload()
	payload.Plan.Nombre = "   "

	_, err := f.service.Ingest(context.Background(), payload, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, 0, f.tx.calls)

	_, err = f.service.Ingest(context.Background(), nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestIngestMergesWarningsAndAudits(t *testing.T) {
	f := newIngestFixture()
	fileID := int64(42)

	payload := calcPayload()
	payload.Warnings = []string{"pagina 3 ilegible"}
	payload.Materias = append(payload.Materias, dto.RawCourse{
		Codigo: "SIN-CODIGO", Nombre: "Fantasma", Creditos: 5,
	})

	result, err := f.service.Ingest(context.Background(), payload, &fileID)
	require.NoError(t, err)

	require.Len(t, result.Warnings, 2)
	assert.Equal(t, "pagina 3 ilegible", result.Warnings[0])
	assert.Contains(t, result.Warnings[1], "dropped invalid course record")

	// The dropped record is not part of the reconciled input count.
	assert.Equal(t, 1, result.MateriasInput)

	require.Len(t, f.audits.entries, 1)
	audit := f.audits.entries[0]
	assert.Equal(t, models.AuditStageIngest, audit.Stage)
	assert.Equal(t, models.AuditStatusOK, audit.Status)
	require.NotNil(t, audit.FileID)
	assert.Equal(t, fileID, *audit.FileID)
	assert.Contains(t, audit.Detail, "Plan Ingeniería de Sistemas v2020")
	assert.Contains(t, audit.Detail, "received=2")
	assert.Contains(t, audit.Detail, "input=1")
	assert.Contains(t, audit.Detail, "added=1")
	assert.Contains(t, audit.Detail, "warnings=2")
}

func TestIngestCollapsesDuplicateCodes(t *testing.T) {
	f := newIngestFixture()

	payload := calcPayload()
	payload.Materias = append(payload.Materias, dto.RawCourse{
		Codigo: "00005", Nombre: "Calculo Uno", Creditos: 8, Tipo: "obligatoria",
	})

	result, err := f.service.Ingest(context.Background(), payload, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.MateriasInput)
	assert.Equal(t, 1, result.Added)
	require.Len(t, f.courses.byCode, 1)
	// Longest name wins within the batch.
	assert.Equal(t, "Calculo Uno", f.courses.byCode["00005"].Name)
}
