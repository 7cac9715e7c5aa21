package exposure_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iwvelando/exposure-advice/internal/exposure"
	"github.com/iwvelando/exposure-advice/pkg/mathutil"
	"github.com/iwvelando/exposure-advice/pkg/testutil"
)

func TestComputeAdvicesSmallPresets(t *testing.T) {
	tests := []struct {
		name     string
		offset   float64
		manual   exposure.ExposureAdvice
		expected []exposure.ExposureAdvice
	}{
		{
			name:   "overexposed two thirds walks shutter to bound then ISO down",
			offset: 0.667,
			manual: testutil.Advice(1000, 800),
			expected: []exposure.ExposureAdvice{
				testutil.Advice(500, 100),
				testutil.Advice(1000, 200),
				testutil.Advice(2000, 400),
			},
		},
		{
			name:   "underexposed one third slows shutter",
			offset: -0.333,
			manual: testutil.Advice(500, 200),
			expected: []exposure.ExposureAdvice{
				testutil.Advice(125, 100),
				testutil.Advice(250, 200),
				testutil.Advice(500, 400),
				testutil.Advice(1000, 800),
				testutil.Advice(2000, 1600),
			},
		},
		{
			name:   "manual setting absent from presets defaults to first entries",
			offset: 0,
			manual: testutil.Advice(123, 77),
			expected: []exposure.ExposureAdvice{
				testutil.Advice(30, 100),
				testutil.Advice(60, 200),
				testutil.Advice(125, 400),
				testutil.Advice(250, 800),
				testutil.Advice(500, 1600),
			},
		},
		{
			name:     "overexposed at both bounds clamps",
			offset:   1,
			manual:   testutil.Advice(2000, 100),
			expected: []exposure.ExposureAdvice{testutil.Advice(2000, 100)},
		},
		{
			name:     "underexposed at both bounds clamps",
			offset:   -1,
			manual:   testutil.Advice(30, 1600),
			expected: []exposure.ExposureAdvice{testutil.Advice(30, 1600)},
		},
	}

	advisor := exposure.NewAdvisor(zap.NewNop(), testutil.SmallPresets())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, advisor.ComputeAdvices(tt.offset, tt.manual))
		})
	}
}

func TestComputeAdvicesZeroOffsetContainsManual(t *testing.T) {
	presets := exposure.DefaultPresets()
	advisor := exposure.NewAdvisor(nil, presets)

	for _, s := range presets.Shutter {
		for _, iso := range presets.ISO {
			manual := exposure.ExposureAdvice{Shutter: s, ISO: iso}
			advices := advisor.ComputeAdvices(0, manual)
			require.NotEmpty(t, advices)
			assert.GreaterOrEqual(t, testutil.IndexOf(advices, manual), 0, "manual %s missing", manual)
			assert.Zero(t, min(presets.ShutterIndex(advices[0].Shutter), presets.ISOIndex(advices[0].ISO)),
				"window for %s does not start at a table edge", manual)
		}
	}
}

func TestComputeAdvicesLockstep(t *testing.T) {
	presets := exposure.DefaultPresets()
	advisor := exposure.NewAdvisor(nil, presets)

	for _, ev := range presets.EV {
		for _, manual := range []exposure.ExposureAdvice{
			testutil.Advice(3, 25), testutil.Advice(125, 100),
			testutil.Advice(8000, 1600), testutil.Advice(60, 1600), testutil.Advice(4000, 25),
		} {
			advices := advisor.ComputeAdvices(ev.Stops(), manual)
			for i := 1; i < len(advices); i++ {
				assert.Equal(t, presets.ShutterIndex(advices[i-1].Shutter)+1, presets.ShutterIndex(advices[i].Shutter))
				assert.Equal(t, presets.ISOIndex(advices[i-1].ISO)+1, presets.ISOIndex(advices[i].ISO))
			}
		}
	}
}

// brightness is the lattice exposure of a setting: ISO index minus shutter
// index, constant across one advice list.
func brightness(p exposure.Presets, a exposure.ExposureAdvice) int {
	return p.ISOIndex(a.ISO) - p.ShutterIndex(a.Shutter)
}

func TestAdviseCompensationDirection(t *testing.T) {
	presets := exposure.DefaultPresets()
	advisor := exposure.NewAdvisor(nil, presets)

	for _, ev := range presets.EV {
		for _, manual := range []exposure.ExposureAdvice{
			testutil.Advice(3, 25), testutil.Advice(125, 100), testutil.Advice(8000, 1600),
			testutil.Advice(1000, 400), testutil.Advice(15, 1250),
		} {
			result := advisor.Advise(ev.Stops(), manual, 0)
			require.NotNil(t, result.Selected)

			before := brightness(presets, manual)
			after := brightness(presets, *result.Selected)
			switch {
			case ev > 0:
				assert.True(t, result.OverExposed)
				assert.LessOrEqual(t, after, before, "offset %s manual %s", ev, manual)
			case ev < 0:
				assert.False(t, result.OverExposed)
				assert.GreaterOrEqual(t, after, before, "offset %s manual %s", ev, manual)
			default:
				assert.Equal(t, before, after)
			}
			if !result.Clamped {
				assert.Equal(t, result.Step, mathutil.AbsInt(after-before), "offset %s manual %s", ev, manual)
			} else {
				assert.Less(t, mathutil.AbsInt(after-before), result.Step)
			}
		}
	}
}

func TestAdviseDefaultPresets(t *testing.T) {
	advisor := exposure.NewAdvisor(nil, exposure.DefaultPresets())

	result := advisor.Advise(0.66, testutil.Advice(125, 100), 0)
	assert.Equal(t, 2, result.Step)
	assert.True(t, result.OverExposed)
	assert.False(t, result.Clamped)
	require.Len(t, result.Advices, 19)
	assert.Equal(t, testutil.Advice(50, 25), result.Advices[0])
	assert.Equal(t, 6, testutil.IndexOf(result.Advices, testutil.Advice(200, 100)))
	require.NotNil(t, result.Selected)
	assert.Equal(t, testutil.Advice(400, 200), *result.Selected)
}

func TestAdviseExtremeOffsets(t *testing.T) {
	advisor := exposure.NewAdvisor(nil, exposure.DefaultPresets())

	tests := []struct {
		name        string
		offset      float64
		step        int
		overExposed bool
	}{
		{"Three stops over", 3, 9, true},
		{"Five stops over", 5, 9, true},
		{"Ten billion stops over", 1e10, 9, true},
		{"Beyond int range over", 1e16, 9, true},
		{"Huge over", 1e300, 9, true},
		{"Positive infinity", math.Inf(1), 9, true},
		{"Huge under", -1e300, 9, false},
		{"Negative infinity", math.Inf(-1), 9, false},
		{"NaN holds", math.NaN(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := advisor.Advise(tt.offset, testutil.Advice(125, 100), 0)
			assert.Equal(t, tt.step, result.Step)
			assert.Equal(t, tt.overExposed, result.OverExposed)
			assert.NotEmpty(t, result.Advices)
		})
	}
}

func TestAdviseClampedReportsPartialCompensation(t *testing.T) {
	advisor := exposure.NewAdvisor(nil, testutil.SmallPresets())

	result := advisor.Advise(0.667, testutil.Advice(2000, 200), 0)
	assert.Equal(t, 2, result.Step)
	assert.True(t, result.Clamped)
	assert.Equal(t, []exposure.ExposureAdvice{testutil.Advice(2000, 100)}, result.Advices)
	require.NotNil(t, result.Selected)
	assert.Equal(t, testutil.Advice(2000, 100), *result.Selected)
}

func TestAdviseEmptyPresetsYieldsNoSelection(t *testing.T) {
	advisor := exposure.NewAdvisor(nil, exposure.Presets{EV: []exposure.ExposureValue{0}})

	result := advisor.Advise(0.5, testutil.Advice(125, 100), 2)
	assert.Empty(t, result.Advices)
	assert.NotNil(t, result.Advices)
	assert.Nil(t, result.Selected)
}

func TestPreferredAdvice(t *testing.T) {
	five := []exposure.ExposureAdvice{
		testutil.Advice(125, 100), testutil.Advice(250, 200), testutil.Advice(500, 400),
		testutil.Advice(1000, 800), testutil.Advice(2000, 1600),
	}
	four := five[:4]

	tests := []struct {
		name     string
		advices  []exposure.ExposureAdvice
		shift    int
		expected exposure.ExposureAdvice
	}{
		{"middle of odd list", five, 0, five[2]},
		{"even list picks count/2", four, 0, four[2]},
		{"negative shift", five, -1, five[1]},
		{"positive shift", five, 2, five[4]},
		{"shift below range clamps to first", five, -10, five[0]},
		{"shift above range clamps to last", five, 10, five[4]},
		{"single element ignores shift", five[:1], 4, five[0]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := exposure.PreferredAdvice(tt.advices, tt.shift)
			require.True(t, ok)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, ok := exposure.PreferredAdvice(nil, 0)
	assert.False(t, ok)
}
