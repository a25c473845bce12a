package relation

import (
	"github.com/BCalow/engine-initial-variables/internal/alias"
	"github.com/BCalow/engine-initial-variables/internal/symbol"
)

var stations = []symbol.Station{symbol.StationChamber, symbol.StationThroat, symbol.StationExit}

var stationMach = map[symbol.Station]symbol.Symbol{
	symbol.StationChamber: symbol.MachChamber,
	symbol.StationThroat:  symbol.MachThroat,
	symbol.StationExit:    symbol.MachExit,
}

var stationTemperature = map[symbol.Station]symbol.Symbol{
	symbol.StationChamber: symbol.TemperatureChamber,
	symbol.StationThroat:  symbol.TemperatureThroat,
	symbol.StationExit:    symbol.TemperatureExit,
}

var stationPressure = map[symbol.Station]symbol.Symbol{
	symbol.StationChamber: symbol.PressureChamber,
	symbol.StationThroat:  symbol.PressureThroat,
	symbol.StationExit:    symbol.PressureExit,
}

// Builtin returns the nozzle relations in scan order.
func Builtin() []Relation {
	rels := []Relation{{
		ID:       "specific-gas-constant",
		Name:     "specific-gas-constant",
		Vars:     []symbol.Symbol{symbol.MolarMass, symbol.SpecificGasConstant},
		Residual: specificGasConstant,
	}}
	for _, st := range stations {
		rels = append(rels, Relation{
			ID:        stationID("temperature-ratio", st),
			Name:      "temperature-ratio",
			Station:   st,
			Vars:      []symbol.Symbol{stationMach[st], stationTemperature[st], symbol.TemperatureStagnation, symbol.HeatCapacityRatio},
			Normalize: true,
			Residual:  temperatureRatio,
		})
	}
	for _, st := range stations {
		rels = append(rels, Relation{
			ID:        stationID("pressure-ratio", st),
			Name:      "pressure-ratio",
			Station:   st,
			Vars:      []symbol.Symbol{stationMach[st], stationPressure[st], symbol.PressureStagnation, symbol.HeatCapacityRatio},
			Normalize: true,
			Residual:  pressureRatio,
		})
	}
	return append(rels,
		Relation{
			ID:       "area-mach",
			Name:     "area-mach",
			Vars:     []symbol.Symbol{symbol.AreaThroat, symbol.AreaExit, symbol.MachThroat, symbol.MachExit, symbol.HeatCapacityRatio},
			Residual: areaMach,
		},
		Relation{
			ID:       "exit-velocity",
			Name:     "exit-velocity",
			Vars:     []symbol.Symbol{symbol.PressureExit, symbol.PressureStagnation, symbol.TemperatureStagnation, symbol.VelocityExit, symbol.SpecificGasConstant, symbol.HeatCapacityRatio},
			Residual: exitVelocity,
		},
		Relation{
			ID:       "mass-flow",
			Name:     "mass-flow",
			Vars:     []symbol.Symbol{symbol.AreaThroat, symbol.MassFlow, symbol.PressureStagnation, symbol.TemperatureStagnation, symbol.SpecificGasConstant, symbol.HeatCapacityRatio},
			Residual: massFlow,
		},
		Relation{
			ID:       "thrust",
			Name:     "thrust",
			Vars:     []symbol.Symbol{symbol.AreaExit, symbol.Thrust, symbol.MassFlow, symbol.PressureAmbient, symbol.PressureExit, symbol.VelocityExit},
			Residual: thrust,
		},
	)
}

// Constant and guess defaults. The throat of a choked nozzle is sonic.
var (
	defaultConstants = map[symbol.Symbol]float64{
		symbol.MachThroat: 1,
	}

	// Starting points away from singular or ambiguous regions: gamma = 1
	// divides by zero, Ma_e = 1 sits on the area-Mach minimum, and the
	// chamber is subsonic.
	defaultGuesses = map[symbol.Symbol]float64{
		symbol.HeatCapacityRatio:     1.4,
		symbol.MachExit:              2,
		symbol.MachChamber:           0.2,
		symbol.MolarMass:             0.029,
		symbol.SpecificGasConstant:   287,
		symbol.TemperatureStagnation: 1000,
		symbol.PressureStagnation:    1e6,
	}
)

// Default builds the standard nozzle library. It panics only if the
// built-in table is inconsistent, which is a programming error.
func Default(opts ...Option) *Library {
	base := make([]Option, 0, len(defaultConstants)+len(defaultGuesses)+len(opts))
	for s, v := range defaultConstants {
		base = append(base, WithConstant(s, v))
	}
	for s, g := range defaultGuesses {
		base = append(base, WithGuess(s, g))
	}
	lib, err := NewLibrary(alias.Default(), Builtin(), append(base, opts...)...)
	if err != nil {
		panic(err)
	}
	return lib
}
