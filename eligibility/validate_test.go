package eligibility_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/acm-engine/acm"
	"github.com/warp/acm-engine/eligibility"
)

func TestValidate_RejectsMalformedInput(t *testing.T) {
	// GIVEN: Inputs with one malformed field each
	// WHEN: Calculating
	// THEN: A ValidationError names the field, no result is produced

	cases := []struct {
		name   string
		mutate func(*acm.Input)
		field  string
	}{
		{"unknown scheme", func(in *acm.Input) { in.Scheme = "abc" }, "scheme"},
		{"unknown variant", func(in *acm.Input) { in.Variant = "webinar" }, "programme_variant"},
		{"unknown trainer", func(in *acm.Input) { in.TrainerType = "robot" }, "trainer_type"},
		{"unknown venue", func(in *acm.Input) { in.Venue = "beach" }, "venue"},
		{"zero trainers", func(in *acm.Input) { in.NumberOfTrainers = 0 }, "number_of_trainers"},
		{"zero days", func(in *acm.Input) { in.Days = 0 }, "days"},
		{"too many extra days", func(in *acm.Input) { in.ExtraDays = 3 }, "extra_days"},
		{"negative speakers", func(in *acm.Input) { in.NumberOfSpeakers = -1 }, "number_of_speakers"},
		{"negative fee", func(in *acm.Input) { in.ActualFeePerHead = decimal.NewFromInt(-1) }, "actual_fee_per_head"},
		{"negative host pax", func(in *acm.Input) { in.Host.Pax = -1 }, "host.pax"},
		{"negative branch pax", func(in *acm.Input) { in.Branches = []acm.Group{{Pax: -2}} }, "branches[0].pax"},
		{"unknown distance", func(in *acm.Input) {
			in.OtherEmployers = []acm.Group{{Pax: 1}, {Pax: 1, Distance: "far"}}
		}, "other_employers[1].distance"},
		{"e-learning without hours", func(in *acm.Input) { in.Variant = acm.VariantELearning }, "elearning_hours"},
		{"development without level", func(in *acm.Input) {
			in.Variant = acm.VariantDevelopment
			in.DevLocation = acm.DevLocal
			in.DevMonths = 3
		}, "development_level"},
		{"development without months", func(in *acm.Input) {
			in.Variant = acm.VariantDevelopment
			in.DevLevel = acm.DevDegree
			in.DevLocation = acm.DevLocal
		}, "development_months"},
		{"other employers on public course", func(in *acm.Input) {
			in.Variant = acm.VariantPublic
			in.OtherEmployers = []acm.Group{{Pax: 2}}
		}, "other_employers"},
	}

	snap := baseline(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := inHouse(10)
			tc.mutate(&in)

			res, err := eligibility.Calculate(snap, in)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.ErrorIs(t, err, acm.ErrInvalidInput)
			assert.True(t, acm.IsClientError(err))
			assert.False(t, acm.IsBlocked(err))

			var verr *acm.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestValidate_DefaultsFillOptionalFields(t *testing.T) {
	// GIVEN: A development input with only the essentials
	// WHEN: Defaults are applied
	// THEN: It validates as a local degree on one day with one trainer

	in := acm.Input{
		Scheme:      acm.SchemeHCC,
		Variant:     acm.VariantDevelopment,
		TrainerType: acm.TrainerExternal,
		DevMonths:   6,
		Host:        acm.Group{Pax: 1},
	}.WithDefaults()

	assert.Equal(t, acm.DevDegree, in.DevLevel)
	assert.Equal(t, acm.DevLocal, in.DevLocation)
	assert.Equal(t, 1, in.Days)
	assert.Equal(t, 1, in.NumberOfTrainers)

	_, err := eligibility.Calculate(baseline(t), in)
	assert.NoError(t, err)
}

func TestValidate_AdvisoryMinimums(t *testing.T) {
	snap := baseline(t)

	t.Run("face-to-face minimum", func(t *testing.T) {
		res := calculate(t, snap, inHouse(1))
		assert.Contains(t, res.Warnings[1], "Minimum 2 participants required for face-to-face in-house training")
	})

	t.Run("audit risk", func(t *testing.T) {
		res := calculate(t, snap, inHouse(30))
		assert.Contains(t, res.Warnings[0], "Medium audit risk: Group size (30 pax)")
	})

	t.Run("empty ROT group", func(t *testing.T) {
		in := inHouse(0)
		in.Variant = acm.VariantROTInHouse
		res := calculate(t, snap, in)
		assert.Contains(t, res.Warnings[1], "Minimum 1 participant required for ROT")
		assertAmount(t, 0, item(t, res, acm.ItemCourseFee).Amount.Decimal)
	})
}
