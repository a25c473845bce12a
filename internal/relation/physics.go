package relation

import (
	"math"

	"github.com/BCalow/engine-initial-variables/internal/symbol"
)

// Physical constants.
const (
	// UniversalGasConstant in J/(mol·K).
	UniversalGasConstant = 8.31446261815324

	// StandardGravity in m/s².
	StandardGravity = 9.80665
)

// Values binds symbols to numeric values.
type Values = map[symbol.Symbol]float64

// ResidualFunc evaluates a relation. It returns zero exactly when the
// relation holds. Implementations read only their declared parameters.
type ResidualFunc func(v Values) float64

// specificGasConstant: 0 = R_u / M - R
func specificGasConstant(v Values) float64 {
	return UniversalGasConstant/v[symbol.MolarMass] - v[symbol.SpecificGasConstant]
}

// stagnationFactor is 1 + (gamma-1)/2 · Ma².
func stagnationFactor(gamma, mach float64) float64 {
	return 1 + 0.5*(gamma-1)*mach*mach
}

// temperatureRatio: 0 = T / T_s - [1 + (gamma-1)/2 · Ma²]^-1
func temperatureRatio(v Values) float64 {
	gamma := v[symbol.HeatCapacityRatio]
	return v[symbol.Temperature]/v[symbol.TemperatureStagnation] -
		1/stagnationFactor(gamma, v[symbol.Mach])
}

// pressureRatio: 0 = P / P_s - [1 + (gamma-1)/2 · Ma²]^(-gamma/(gamma-1))
func pressureRatio(v Values) float64 {
	gamma := v[symbol.HeatCapacityRatio]
	return v[symbol.Pressure]/v[symbol.PressureStagnation] -
		math.Pow(stagnationFactor(gamma, v[symbol.Mach]), -gamma/(gamma-1))
}

// areaMach: 0 = A_e / A_t - Ma_t / Ma_e · sqrt((f(Ma_e) / f(Ma_t))^((gamma+1)/(gamma-1)))
func areaMach(v Values) float64 {
	gamma := v[symbol.HeatCapacityRatio]
	machThroat, machExit := v[symbol.MachThroat], v[symbol.MachExit]
	ratio := stagnationFactor(gamma, machExit) / stagnationFactor(gamma, machThroat)
	return v[symbol.AreaExit]/v[symbol.AreaThroat] -
		machThroat/machExit*math.Sqrt(math.Pow(ratio, (gamma+1)/(gamma-1)))
}

// exitVelocity: 0 = v_e - sqrt(2·gamma/(gamma-1) · R · T_s · (1 - (P_e/P_s)^((gamma-1)/gamma)))
func exitVelocity(v Values) float64 {
	gamma := v[symbol.HeatCapacityRatio]
	expansion := 1 - math.Pow(v[symbol.PressureExit]/v[symbol.PressureStagnation], (gamma-1)/gamma)
	return v[symbol.VelocityExit] -
		math.Sqrt(2*gamma/(gamma-1)*v[symbol.SpecificGasConstant]*v[symbol.TemperatureStagnation]*expansion)
}

// massFlow: 0 = mdot - A_t · P_s · sqrt(gamma / (R · T_s)) · (2/(gamma+1))^((gamma+1)/(2(gamma-1)))
func massFlow(v Values) float64 {
	gamma := v[symbol.HeatCapacityRatio]
	choked := v[symbol.AreaThroat] * v[symbol.PressureStagnation] *
		math.Sqrt(gamma/(v[symbol.SpecificGasConstant]*v[symbol.TemperatureStagnation])) *
		math.Pow(2/(gamma+1), (gamma+1)/(2*(gamma-1)))
	return v[symbol.MassFlow] - choked
}

// thrust: 0 = F - (mdot · v_e + (P_e - P_a) · A_e)
func thrust(v Values) float64 {
	return v[symbol.Thrust] - (v[symbol.MassFlow]*v[symbol.VelocityExit] +
		(v[symbol.PressureExit]-v[symbol.PressureAmbient])*v[symbol.AreaExit])
}

// temperatureEquivalence: 0 = T_c - T_s
func temperatureEquivalence(v Values) float64 {
	return v[symbol.TemperatureChamber] - v[symbol.TemperatureStagnation]
}

// pressureEquivalence: 0 = P_c - P_s
func pressureEquivalence(v Values) float64 {
	return v[symbol.PressureChamber] - v[symbol.PressureStagnation]
}

// SpecificImpulse returns F / (mdot · g0) in seconds.
func SpecificImpulse(thrust, massFlow float64) float64 {
	return thrust / (massFlow * StandardGravity)
}
