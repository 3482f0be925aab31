package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadmx/curricula/internal/app/models"
	"github.com/acadmx/curricula/internal/app/models/dto"
)

func TestCanonicalCode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"single digit pads to five", "1", "00001"},
		{"four digits pad to five", "1234", "01234"},
		{"five digits unchanged", "12345", "12345"},
		{"six digits never truncated", "123456", "123456"},
		{"first digit run wins", "MAT-101/B2", "00101"},
		{"surrounding letters ignored", "abc42def", "00042"},
		{"no digits yields empty", "SIN-CODIGO", ""},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalCode(tt.raw))
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"inner run collapses", "Cálculo  I", "Cálculo I"},
		{"tabs and newlines collapse", "Teoría\t\tde\n\nGrafos", "Teoría de Grafos"},
		{"leading and trailing trimmed", "  Física III  ", "Física III"},
		{"single spaces untouched", "Bases de Datos", "Bases de Datos"},
		{"whitespace only becomes empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeName(tt.raw))
		})
	}
}

func TestCanonicalType(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.CourseType
	}{
		{"optativa is elective", "Optativa", models.CourseElective},
		{"electiva is elective", "ELECTIVA", models.CourseElective},
		{"abbreviated op is elective", "op", models.CourseElective},
		{"selectiva is elective", "selectiva", models.CourseElective},
		{"obligatoria is mandatory", "obligatoria", models.CourseMandatory},
		{"empty is mandatory", "", models.CourseMandatory},
		{"unknown is mandatory", "taller", models.CourseMandatory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalType(tt.raw))
		})
	}
}

func TestSanitizeCredits(t *testing.T) {
	tests := []struct {
		name   string
		raw    interface{}
		want   int
		wantOK bool
	}{
		{"plain int", 8, 8, true},
		{"float truncates toward zero", 7.9, 7, true},
		{"numeric string", "6", 6, true},
		{"decimal string", " 4.5 ", 4, true},
		{"upper bound accepted", 30, 30, true},
		{"lower bound accepted", 1, 1, true},
		{"zero rejected", 0, 0, false},
		{"negative rejected", -3, 0, false},
		{"over limit rejected", 31, 0, false},
		{"non-numeric string rejected", "abc", 0, false},
		{"nil rejected", nil, 0, false},
		{"bool rejected", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sanitizeCredits(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeCoursesDropsInvalidRecords(t *testing.T) {
	semester := 2
	raw := []dto.RawCourse{
		{Codigo: "5", Nombre: "Cálculo  I", Creditos: 8, Tipo: "obligatoria", Semestre: &semester},
		{Codigo: "SIN-CODIGO", Nombre: "Fantasma", Creditos: 5},
		{Codigo: "77", Nombre: "   ", Creditos: 5},
		{Codigo: "88", Nombre: "Sin Créditos", Creditos: "muchos"},
	}

	out, warnings := normalizeCourses(raw)

	require.Len(t, out, 1)
	assert.Equal(t, "00005", out[0].Code)
	assert.Equal(t, "Cálculo I", out[0].Name)
	assert.Equal(t, 8, out[0].Credits)
	assert.Equal(t, models.CourseMandatory, out[0].Type)
	assert.Equal(t, 2, out[0].Semester)

	require.Len(t, warnings, 3)
	for _, w := range warnings {
		assert.Contains(t, w, "dropped invalid course record")
	}
}

func TestDedupeCoursesKeepsLongestName(t *testing.T) {
	in := []normalizedCourse{
		{Code: "00005", Name: "Cálculo I", Credits: 8, Type: models.CourseMandatory},
		{Code: "00010", Name: "Física", Credits: 6, Type: models.CourseMandatory},
		{Code: "00005", Name: "Calculo Uno", Credits: 8, Type: models.CourseMandatory},
	}

	out := dedupeCourses(in)

	require.Len(t, out, 2)
	// First-encounter order is preserved even when a later duplicate wins.
	assert.Equal(t, "00005", out[0].Code)
	assert.Equal(t, "Calculo Uno", out[0].Name)
	assert.Equal(t, "00010", out[1].Code)
}

func TestDedupeCoursesTieKeepsFirst(t *testing.T) {
	in := []normalizedCourse{
		{Code: "00005", Name: "Cálculo I", Credits: 8},
		{Code: "00005", Name: "Calculo 1", Credits: 6},
	}

	out := dedupeCourses(in)

	require.Len(t, out, 1)
	// Both names count nine runes; the earlier record wins.
	assert.Equal(t, "Cálculo I", out[0].Name)
	assert.Equal(t, 8, out[0].Credits)
}
