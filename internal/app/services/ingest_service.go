package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/acadmx/curricula/internal/app/models"
	"github.com/acadmx/curricula/internal/app/models/dto"
	"github.com/acadmx/curricula/internal/app/repositories"
	"github.com/acadmx/curricula/internal/db"
	"github.com/acadmx/curricula/internal/pkg/apperrors"
)

// defaultPlanVersion is recorded when the extracted payload carries no
// version at all.
const defaultPlanVersion = "N/A"

// PlanStore persists study plans. Implementations must tolerate concurrent
// creation of the same (name, version) pair: Insert reports false instead
// of failing when another transaction created the row first.
type PlanStore interface {
	GetByNameAndVersion(ctx context.Context, q repositories.Querier, name, version string) (*models.StudyPlan, error)
	Insert(ctx context.Context, q repositories.Querier, plan *models.StudyPlan) (bool, error)
	Update(ctx context.Context, q repositories.Querier, plan *models.StudyPlan) error
}

// CourseStore persists globally unique courses.
type CourseStore interface {
	GetByCodes(ctx context.Context, q repositories.Querier, codes []string) ([]*models.Course, error)
	Insert(ctx context.Context, q repositories.Querier, course *models.Course) error
	Update(ctx context.Context, q repositories.Querier, course *models.Course) error
}

// LinkStore persists plan-course associations. Ensure reports whether the
// insert actually created a row.
type LinkStore interface {
	Ensure(ctx context.Context, q repositories.Querier, courseID, planID int64) (bool, error)
}

// AuditStore appends ingestion audit entries.
type AuditStore interface {
	Insert(ctx context.Context, q repositories.Querier, audit *models.IngestAudit) error
}

// TxRunner runs a function inside one database transaction.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// IngestService reconciles an extracted study-plan payload against the
// plan, course and link tables in one atomic run. Normalization and
// deduplication are pure and happen before the transaction opens; every
// write, including the audit entry, happens inside it.
type IngestService struct {
	plans   PlanStore
	courses CourseStore
	links   LinkStore
	audits  AuditStore
	tx      TxRunner
	logger  zerolog.Logger
}

// NewIngestService creates a new ingestion service instance
func NewIngestService(
	plans PlanStore,
	courses CourseStore,
	links LinkStore,
	audits AuditStore,
	tx TxRunner,
	logger zerolog.Logger,
) *IngestService {
	return &IngestService{
		plans:   plans,
		courses: courses,
		links:   links,
		audits:  audits,
		tx:      tx,
		logger:  logger,
	}
}

// Ingest runs the full pipeline for one payload. fileID is the opaque
// reference to the originating document, nil when the payload arrived
// without one. Re-ingesting an identical payload is safe and reports
// SKIPPED_NO_CHANGES.
func (s *IngestService) Ingest(ctx context.Context, payload *dto.PlanPayload, fileID *int64) (*dto.IngestResult, error) {
	if payload == nil {
		return nil, apperrors.NewValidationError("payload is required")
	}

	planName := strings.TrimSpace(payload.Plan.Nombre)
	if planName == "" {
		return nil, apperrors.NewValidationError("plan name is required")
	}
	planVersion := strings.TrimSpace(payload.Plan.Version)
	if planVersion == "" {
		planVersion = defaultPlanVersion
	}

	// Pure phase: canonicalize and collapse the batch before touching the
	// database.
	normalized, dropWarnings := normalizeCourses(payload.Materias)
	batch := dedupeCourses(normalized)

	warnings := make([]string, 0, len(payload.Warnings)+len(dropWarnings))
	warnings = append(warnings, payload.Warnings...)
	warnings = append(warnings, dropWarnings...)

	batchCreditSum := 0
	for _, m := range batch {
		batchCreditSum += m.Credits
	}

	result := &dto.IngestResult{
		MateriasInput: len(batch),
		Warnings:      warnings,
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		plan, err := s.resolvePlan(ctx, tx, planName, planVersion, payload.Plan, batchCreditSum)
		if err != nil {
			return err
		}
		result.PlanID = plan.ID

		added, updated, unchanged, linksCreated, err := s.reconcileCourses(ctx, tx, plan, batch)
		if err != nil {
			return err
		}

		result.Added = added
		result.Updated = updated
		result.Unchanged = unchanged
		result.RelacionesMateriaPlanCreadas = linksCreated

		if added == 0 && updated == 0 && linksCreated == 0 {
			result.Action = dto.ActionSkippedNoChanges
		} else {
			result.Action = dto.ActionUpserted
		}

		audit := &models.IngestAudit{
			FileID: fileID,
			Stage:  models.AuditStageIngest,
			Status: models.AuditStatusOK,
			Detail: auditDetail(plan, len(payload.Materias), result),
		}
		return s.audits.Insert(ctx, tx, audit)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("plan", planName).
		Str("version", planVersion).
		Int("input", result.MateriasInput).
		Int("added", result.Added).
		Int("updated", result.Updated).
		Int("unchanged", result.Unchanged).
		Int("linksCreated", result.RelacionesMateriaPlanCreadas).
		Int("warnings", len(result.Warnings)).
		Str("action", result.Action).
		Msg("Plan ingestion completed")

	return result, nil
}

// resolvePlan finds or creates the plan identified by (name, version) and
// reconciles its aggregate fields. Caller-supplied aggregates overwrite
// stored values only when present and non-zero; on first creation the
// credit total defaults to the deduplicated batch sum.
func (s *IngestService) resolvePlan(
	ctx context.Context,
	tx pgx.Tx,
	name, version string,
	header dto.PlanHeader,
	batchCreditSum int,
) (*models.StudyPlan, error) {
	plan, err := s.plans.GetByNameAndVersion(ctx, tx, name, version)
	if err == nil {
		s.applyPlanOverrides(plan, header)
		if err := s.plans.Update(ctx, tx, plan); err != nil {
			return nil, err
		}
		return plan, nil
	}
	if !errors.Is(err, apperrors.ErrPlanNotFound) {
		return nil, err
	}

	totalCredits := batchCreditSum
	if header.TotalCreditos != nil {
		totalCredits = *header.TotalCreditos
	}
	suggestedSemesters := 0
	if header.SemestresSugeridos != nil {
		suggestedSemesters = *header.SemestresSugeridos
	}

	plan = &models.StudyPlan{
		Name:               name,
		Version:            version,
		TotalCredits:       totalCredits,
		SuggestedSemesters: suggestedSemesters,
	}

	inserted, err := s.plans.Insert(ctx, tx, plan)
	if err != nil {
		return nil, err
	}
	if inserted {
		return plan, nil
	}

	// Lost the creation race: another transaction inserted the same
	// natural key first. Fall back to the update path against its row.
	plan, err = s.plans.GetByNameAndVersion(ctx, tx, name, version)
	if err != nil {
		return nil, err
	}
	s.applyPlanOverrides(plan, header)
	if err := s.plans.Update(ctx, tx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// applyPlanOverrides overwrites the stored aggregates with caller-supplied
// values when they are present and non-zero. A supplied total is taken
// as-is even when it disagrees with the sum of reconciled course credits.
func (s *IngestService) applyPlanOverrides(plan *models.StudyPlan, header dto.PlanHeader) {
	if header.TotalCreditos != nil && *header.TotalCreditos > 0 {
		plan.TotalCredits = *header.TotalCreditos
	}
	if header.SemestresSugeridos != nil && *header.SemestresSugeridos > 0 {
		plan.SuggestedSemesters = *header.SemestresSugeridos
	}
}

// reconcileCourses upserts every deduplicated course and guarantees its
// link to the plan. Existing courses keep their legacy plan reference; only
// name, credits and type are ever updated, and only when they actually
// differ.
func (s *IngestService) reconcileCourses(
	ctx context.Context,
	tx pgx.Tx,
	plan *models.StudyPlan,
	batch []normalizedCourse,
) (added, updated, unchanged, linksCreated int, err error) {
	codes := make([]string, len(batch))
	for i, m := range batch {
		codes[i] = m.Code
	}

	existing, err := s.courses.GetByCodes(ctx, tx, codes)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	byCode := make(map[string]*models.Course, len(existing))
	for _, c := range existing {
		byCode[c.Code] = c
	}

	for _, m := range batch {
		course := byCode[m.Code]

		if course == nil {
			course = &models.Course{
				Code:         m.Code,
				Name:         m.Name,
				Credits:      m.Credits,
				Type:         m.Type,
				LegacyPlanID: plan.ID,
			}
			if err := s.courses.Insert(ctx, tx, course); err != nil {
				return 0, 0, 0, 0, fmt.Errorf("inserting course %s: %w", m.Code, err)
			}
			byCode[m.Code] = course
			added++
		} else {
			changed := false
			if m.Name != "" && m.Name != course.Name {
				course.Name = m.Name
				changed = true
			}
			if m.Credits != course.Credits {
				course.Credits = m.Credits
				changed = true
			}
			if m.Type != "" && m.Type != course.Type {
				course.Type = m.Type
				changed = true
			}

			if changed {
				if err := s.courses.Update(ctx, tx, course); err != nil {
					return 0, 0, 0, 0, fmt.Errorf("updating course %s: %w", m.Code, err)
				}
				updated++
			} else {
				unchanged++
			}
		}

		created, err := s.links.Ensure(ctx, tx, course.ID, plan.ID)
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf("linking course %s to plan %d: %w", m.Code, plan.ID, err)
		}
		if created {
			linksCreated++
		}
	}

	return added, updated, unchanged, linksCreated, nil
}

// auditDetail renders the one-line run summary stored in the audit trail.
func auditDetail(plan *models.StudyPlan, received int, result *dto.IngestResult) string {
	detail := fmt.Sprintf(
		"Plan %s v%s | received=%d | input=%d | added=%d | updated=%d | unchanged=%d | linksCreated=%d",
		plan.Name, plan.Version,
		received, result.MateriasInput,
		result.Added, result.Updated, result.Unchanged,
		result.RelacionesMateriaPlanCreadas,
	)
	if len(result.Warnings) > 0 {
		detail += fmt.Sprintf(" | warnings=%d", len(result.Warnings))
	}
	return detail
}
