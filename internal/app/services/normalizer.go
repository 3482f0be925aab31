package services

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/acadmx/curricula/internal/app/models"
	"github.com/acadmx/curricula/internal/app/models/dto"
)

// Credit values outside (0, maxCredits] invalidate a record.
const maxCredits = 30

// canonicalCodeLength is the minimum width of a canonical course code;
// shorter digit runs are left-padded with zeros, longer ones kept as-is.
const canonicalCodeLength = 5

var (
	digitRunPattern      = regexp.MustCompile(`\d+`)
	whitespaceRunPattern = regexp.MustCompile(`\s{2,}`)

	// Markers that classify a course as elective, matched as substrings of
	// the uppercased type string (Spanish sources use OPTATIVA / ELECTIVA /
	// SELECTIVA and abbreviations thereof).
	electiveMarkerPattern = regexp.MustCompile(`(OP|OPT|OPTATIVA|ELECTIVA|ELE|SEL)`)
)

// normalizedCourse is one valid course record after canonicalization.
type normalizedCourse struct {
	Code     string
	Name     string
	Credits  int
	Type     models.CourseType
	Semester int
}

// canonicalCode extracts the first contiguous digit run from a raw course
// code and left-pads it with zeros to the canonical width. Codes with five
// or more digits are never truncated. Returns "" when the raw code holds
// no digits at all.
func canonicalCode(raw string) string {
	digits := digitRunPattern.FindString(raw)
	if digits == "" {
		return ""
	}
	if len(digits) < canonicalCodeLength {
		return strings.Repeat("0", canonicalCodeLength-len(digits)) + digits
	}
	return digits
}

// normalizeName collapses whitespace runs to single spaces and trims the
// result.
func normalizeName(raw string) string {
	return strings.TrimSpace(whitespaceRunPattern.ReplaceAllString(raw, " "))
}

// canonicalType maps a raw type string onto MANDATORY or ELECTIVE. Absent
// or unrecognized values are mandatory.
func canonicalType(raw string) models.CourseType {
	s := norm.NFC.String(strings.ToUpper(raw))
	if electiveMarkerPattern.MatchString(s) {
		return models.CourseElective
	}
	return models.CourseMandatory
}

// sanitizeCredits coerces an untyped credit value to an integer, truncating
// toward zero. Non-numeric, non-finite, non-positive, and out-of-range
// values report ok=false.
func sanitizeCredits(raw interface{}) (int, bool) {
	var f float64

	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f <= 0 || f > maxCredits {
		return 0, false
	}

	return int(math.Trunc(f)), true
}

// normalizeCourses canonicalizes every raw record and drops the invalid
// ones. Each dropped record contributes one warning; the batch itself
// never fails on a bad record.
func normalizeCourses(raw []dto.RawCourse) ([]normalizedCourse, []string) {
	var (
		out      []normalizedCourse
		warnings []string
	)

	for _, m := range raw {
		code := canonicalCode(m.Codigo)
		name := normalizeName(m.Nombre)
		credits, ok := sanitizeCredits(m.Creditos)

		if code == "" || name == "" || !ok {
			warnings = append(warnings, fmt.Sprintf(
				"dropped invalid course record (codigo=%q, nombre=%q)", m.Codigo, m.Nombre))
			continue
		}

		semester := 0
		if m.Semestre != nil {
			semester = *m.Semestre
		}

		out = append(out, normalizedCourse{
			Code:     code,
			Name:     name,
			Credits:  credits,
			Type:     canonicalType(m.Tipo),
			Semester: semester,
		})
	}

	return out, warnings
}

// dedupeCourses collapses records that collide on canonical code, keeping
// the one with the longest name; ties keep the first encountered. Output
// order follows first encounter, so repeated ingestions reconcile courses
// deterministically.
func dedupeCourses(in []normalizedCourse) []normalizedCourse {
	index := make(map[string]int, len(in))
	out := make([]normalizedCourse, 0, len(in))

	for _, c := range in {
		if i, seen := index[c.Code]; seen {
			if utf8.RuneCountInString(c.Name) > utf8.RuneCountInString(out[i].Name) {
				out[i] = c
			}
			continue
		}
		index[c.Code] = len(out)
		out = append(out, c)
	}

	return out
}
