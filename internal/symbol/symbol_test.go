package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	info, ok := Lookup(PressureExit)
	require.True(t, ok)
	assert.Equal(t, "Pressure @ Exit", info.Name)
	assert.Equal(t, StationExit, info.Station)
	assert.False(t, info.Generic)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestGenericSymbols(t *testing.T) {
	for _, s := range []Symbol{Mach, Pressure, Temperature} {
		info, ok := Lookup(s)
		require.True(t, ok, s)
		assert.True(t, info.Generic, s)
		assert.Equal(t, StationNone, info.Station, s)
	}
}

func TestPositive(t *testing.T) {
	assert.True(t, Positive(PressureExit))
	assert.True(t, Positive(Mach))
	assert.False(t, Positive(Thrust))
	assert.False(t, Positive("unknown"))
}

func TestName_FallsBackToSymbol(t *testing.T) {
	assert.Equal(t, "Mass Flow Rate", MassFlow.Name())
	assert.Equal(t, "x_1", Symbol("x_1").Name())
}

func TestSet(t *testing.T) {
	s := NewSet(TemperatureExit, AreaExit)
	s.Add(MachExit)

	assert.True(t, s.Has(AreaExit))
	assert.False(t, s.Has(AreaThroat))
	assert.Equal(t, []Symbol{AreaExit, MachExit, TemperatureExit}, s.Sorted())
}
