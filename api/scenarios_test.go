package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/acm-engine/api"
)

func TestListScenarios(t *testing.T) {
	f := setup(t)

	rec, body := f.do(t, http.MethodGet, "/api/scenarios", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := body["scenarios"].([]any)
	assert.Len(t, list, len(api.Scenarios()))
	assert.Len(t, list, 8)

	first := list[0].(map[string]any)
	assert.Equal(t, "inhouse-basic", first["id"])
	assert.NotEmpty(t, first["description"])
}

func TestGetScenario(t *testing.T) {
	f := setup(t)

	rec, body := f.do(t, http.MethodGet, "/api/scenarios/slb-joint", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "slb", body["scenario"].(map[string]any)["category"])
	input := body["input"].(map[string]any)
	assert.Equal(t, "slb", input["scheme"])
	assert.Len(t, input["other_employers"], 1)
}

func TestCalculateScenario_SLBJoint(t *testing.T) {
	// GIVEN: The SLB joint training preset
	// WHEN: Calculating it
	// THEN: The group rate is shared and the total is stable

	f := setup(t)

	rec, body := f.do(t, http.MethodPost, "/api/scenarios/slb-joint/calculate", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "slb-joint", body["scenario"].(map[string]any)["id"])
	assert.Equal(t, "12200", result(t, body)["total_claimable"])
}

func TestCalculateScenario_EveryPresetCalculates(t *testing.T) {
	f := setup(t)

	for _, s := range api.Scenarios() {
		t.Run(s.ID, func(t *testing.T) {
			rec, body := f.do(t, http.MethodPost, "/api/scenarios/"+s.ID+"/calculate", nil, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.NotEmpty(t, result(t, body)["items"])
		})
	}
}

func TestScenario_Unknown(t *testing.T) {
	f := setup(t)

	rec, body := f.do(t, http.MethodGet, "/api/scenarios/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body["code"])

	rec, _ = f.do(t, http.MethodPost, "/api/scenarios/nope/calculate", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScenarioInput(t *testing.T) {
	in, ok := api.ScenarioInput("elearning-8h")
	require.True(t, ok)
	assert.Equal(t, 8, in.ELearningHours)

	_, ok = api.ScenarioInput("missing")
	assert.False(t, ok)
}
