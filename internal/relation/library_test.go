package relation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BCalow/engine-initial-variables/internal/alias"
	"github.com/BCalow/engine-initial-variables/internal/symbol"
)

func TestDefault_Order(t *testing.T) {
	lib := Default()

	var ids []ID
	for _, r := range lib.Relations() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []ID{
		"specific-gas-constant",
		"temperature-ratio@chamber",
		"temperature-ratio@throat",
		"temperature-ratio@exit",
		"pressure-ratio@chamber",
		"pressure-ratio@throat",
		"pressure-ratio@exit",
		"area-mach",
		"exit-velocity",
		"mass-flow",
		"thrust",
	}, ids)
}

func TestDefault_StagnantChamberAppends(t *testing.T) {
	lib := Default(WithStagnantChamber())
	require.Equal(t, 13, lib.Len())
	assert.Equal(t, ID("temperature-equivalence"), lib.At(11).ID)
	assert.Equal(t, ID("pressure-equivalence"), lib.At(12).ID)
}

func TestDeclaredVariables(t *testing.T) {
	vars, err := Default().DeclaredVariables("temperature-ratio@throat")
	require.NoError(t, err)
	assert.ElementsMatch(t, []symbol.Symbol{
		symbol.MachThroat, symbol.TemperatureThroat, symbol.TemperatureStagnation, symbol.HeatCapacityRatio,
	}, vars)

	_, err = Default().DeclaredVariables("no-such-relation")
	require.Error(t, err)
	assert.True(t, IsUnknownRelation(err))
}

func TestParams_NormalizedForStationRelations(t *testing.T) {
	r, err := Default().Lookup("pressure-ratio@exit")
	require.NoError(t, err)
	assert.True(t, r.Normalize)
	assert.Equal(t, []symbol.Symbol{symbol.Mach, symbol.Pressure, symbol.PressureStagnation, symbol.HeatCapacityRatio}, r.Params())

	r, err = Default().Lookup("thrust")
	require.NoError(t, err)
	assert.False(t, r.Normalize)
	assert.Equal(t, r.Vars, r.Params())
}

func TestResidual_Errors(t *testing.T) {
	lib := Default()

	_, err := lib.Residual("nope", Values{})
	var ue *UnknownRelationError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, ID("nope"), ue.ID)

	_, err = lib.Residual("specific-gas-constant", Values{symbol.MolarMass: 0.029})
	var me *MissingVariableError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, symbol.SpecificGasConstant, me.Symbol)
	assert.True(t, IsMissingVariable(err))
}

func TestResidual_IgnoresExtraKeys(t *testing.T) {
	r, err := Default().Residual("specific-gas-constant", Values{
		symbol.MolarMass:           UniversalGasConstant / 287,
		symbol.SpecificGasConstant: 287,
		symbol.Thrust:              42,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0, r, 1e-9)
}

func TestResidual_TemperatureRatioZeroAtIsentropicPoint(t *testing.T) {
	// T_s = T (1 + (gamma-1)/2 Ma²) = 1500 · 4.75
	r, err := Default().Residual("temperature-ratio@exit", Values{
		symbol.Mach:                  5,
		symbol.Temperature:           1500,
		symbol.TemperatureStagnation: 7125,
		symbol.HeatCapacityRatio:     1.3,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0, r, 1e-12)
}

func TestResidual_PressureRatio(t *testing.T) {
	gamma := 1.4
	pt := math.Pow(1+0.5*(gamma-1), -gamma/(gamma-1)) * 2e6
	r, err := Default().Residual("pressure-ratio@throat", Values{
		symbol.Mach:               1,
		symbol.Pressure:           pt,
		symbol.PressureStagnation: 2e6,
		symbol.HeatCapacityRatio:  gamma,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0, r, 1e-12)
}

func TestResidual_AreaMachUnityAtThroat(t *testing.T) {
	r, err := Default().Residual("area-mach", Values{
		symbol.AreaThroat:        0.01,
		symbol.AreaExit:          0.01,
		symbol.MachThroat:        1,
		symbol.MachExit:          1,
		symbol.HeatCapacityRatio: 1.4,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0, r, 1e-12)
}

func TestResidual_Thrust(t *testing.T) {
	r, err := Default().Residual("thrust", Values{
		symbol.AreaExit:        0.5,
		symbol.Thrust:          2000*10 + (9e4-1e5)*0.5,
		symbol.MassFlow:        10,
		symbol.PressureAmbient: 1e5,
		symbol.PressureExit:    9e4,
		symbol.VelocityExit:    2000,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0, r, 1e-9)
}

func TestNormalizeDenormalize(t *testing.T) {
	lib := Default()

	out, err := lib.Normalize("temperature-ratio@throat", Values{symbol.TemperatureThroat: 300, symbol.MachThroat: 1})
	require.NoError(t, err)
	assert.Equal(t, Values{symbol.Temperature: 300, symbol.Mach: 1}, out)

	// no-op for relations that are not station-generic
	out, err = lib.Normalize("area-mach", Values{symbol.MachExit: 3})
	require.NoError(t, err)
	assert.Equal(t, Values{symbol.MachExit: 3}, out)

	q, err := lib.Denormalize("temperature-ratio@exit", symbol.Temperature)
	require.NoError(t, err)
	assert.Equal(t, symbol.TemperatureExit, q)

	q, err = lib.Denormalize("temperature-ratio@exit", symbol.TemperatureStagnation)
	require.NoError(t, err)
	assert.Equal(t, symbol.TemperatureStagnation, q)

	_, err = lib.Denormalize("temperature-ratio@exit", symbol.Pressure)
	assert.True(t, IsMissingVariable(err))
}

func TestConstantsAndGuesses(t *testing.T) {
	lib := Default()
	assert.Equal(t, map[symbol.Symbol]float64{symbol.MachThroat: 1}, lib.Constants())
	assert.True(t, lib.IsConstant(symbol.MachThroat))

	assert.Equal(t, 2.0, lib.Guess(symbol.MachExit, symbol.Mach))
	assert.Equal(t, DefaultGuess, lib.Guess(symbol.TemperatureExit, symbol.Temperature))

	custom := Default(WithGuess(symbol.Temperature, 300))
	assert.Equal(t, 300.0, custom.Guess(symbol.TemperatureExit, symbol.Temperature))
}

func TestNewLibrary_Validation(t *testing.T) {
	ok := func(Values) float64 { return 0 }

	tests := []struct {
		name string
		rels []Relation
		want string
	}{
		{"empty id", []Relation{{Vars: []symbol.Symbol{"x"}, Residual: ok}}, "empty id"},
		{"nil residual", []Relation{{ID: "a", Vars: []symbol.Symbol{"x"}}}, "no residual"},
		{"no vars", []Relation{{ID: "a", Residual: ok}}, "no variables"},
		{"duplicate", []Relation{
			{ID: "a", Vars: []symbol.Symbol{"x"}, Residual: ok},
			{ID: "a", Vars: []symbol.Symbol{"y"}, Residual: ok},
		}, "duplicate"},
		{"two variants", []Relation{{
			ID:        "a",
			Vars:      []symbol.Symbol{symbol.TemperatureExit, symbol.TemperatureThroat},
			Normalize: true,
			Residual:  ok,
		}}, "declares both"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLibrary(alias.Default(), tt.rels)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := NewLibrary(nil, nil)
	require.Error(t, err)
}

func TestRelations_ReturnsCopies(t *testing.T) {
	lib := Default()
	rels := lib.Relations()
	rels[0].Vars[0] = "tampered"

	r, err := lib.Lookup(rels[0].ID)
	require.NoError(t, err)
	assert.Equal(t, symbol.MolarMass, r.Vars[0])
}

func TestSymbols_Union(t *testing.T) {
	syms := Default().Symbols()
	assert.Equal(t, symbol.MolarMass, syms[0])
	assert.Contains(t, syms, symbol.Thrust)
	assert.Contains(t, syms, symbol.MachChamber)
	assert.NotContains(t, syms, symbol.Mach)
}

func TestSpecificImpulse(t *testing.T) {
	assert.InDelta(t, 1000/(2*StandardGravity), SpecificImpulse(1000, 2), 1e-12)
}
