package api

import (
	"reflect"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/acm-engine/acm"
)

// oneofValues returns the values of a field's oneof validator tag.
func oneofValues(t *testing.T, field string) []string {
	t.Helper()
	f, ok := reflect.TypeOf(CalculateRequest{}).FieldByName(field)
	require.True(t, ok, "no field %s", field)
	for _, rule := range strings.Split(f.Tag.Get("validate"), ",") {
		if values, ok := strings.CutPrefix(rule, "oneof="); ok {
			return strings.Fields(values)
		}
	}
	t.Fatalf("field %s has no oneof rule", field)
	return nil
}

func TestCalculateRequest_EnumsMatchEngine(t *testing.T) {
	// GIVEN: The request DTO validator tags
	// WHEN: Comparing their oneof lists with the engine enumerations
	// THEN: Every engine value is accepted and nothing else

	variants := lo.Map(acm.Variants, func(v acm.ProgrammeVariant, _ int) string { return string(v) })
	assert.ElementsMatch(t, variants, oneofValues(t, "Variant"))

	categories := lo.Map(acm.CourseCategories, func(c acm.CourseCategory, _ int) string { return string(c) })
	assert.ElementsMatch(t, categories, oneofValues(t, "CourseCategory"))
}
