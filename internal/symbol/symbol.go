package symbol

import "sort"

// Symbol identifies one physical variable (e.g. "P_e", "gamma").
type Symbol string

// Station is a named cross-section of the nozzle.
type Station string

const (
	StationNone       Station = ""
	StationChamber    Station = "chamber"
	StationThroat     Station = "throat"
	StationExit       Station = "exit"
	StationStagnation Station = "stagnation"
)

// Qualified symbols.
const (
	PressureChamber    Symbol = "P_c"
	TemperatureChamber Symbol = "T_c"
	MachChamber        Symbol = "Ma_c"

	AreaThroat        Symbol = "A_t"
	PressureThroat    Symbol = "P_t"
	TemperatureThroat Symbol = "T_t"
	MachThroat        Symbol = "Ma_t"

	AreaExit        Symbol = "A_e"
	MachExit        Symbol = "Ma_e"
	PressureExit    Symbol = "P_e"
	TemperatureExit Symbol = "T_e"
	VelocityExit    Symbol = "v_e"

	PressureStagnation    Symbol = "P_s"
	TemperatureStagnation Symbol = "T_s"

	PressureAmbient     Symbol = "P_a"
	HeatCapacityRatio   Symbol = "gamma"
	SpecificGasConstant Symbol = "R"
	MolarMass           Symbol = "M"
	MassFlow            Symbol = "mdot"
	Thrust              Symbol = "F"
)

// Generic symbols, used only inside station-generic residual functions.
const (
	Mach        Symbol = "Ma"
	Pressure    Symbol = "P"
	Temperature Symbol = "T"
)

// Info describes a catalogued symbol.
type Info struct {
	Symbol  Symbol
	Name    string
	Station Station

	// Generic marks station-independent aliases (Ma, P, T).
	Generic bool

	// Signed quantities may legitimately be zero or negative. Everything
	// else in the model is strictly positive.
	Signed bool
}

var catalogue = []Info{
	{Symbol: PressureChamber, Name: "Pressure @ Chamber", Station: StationChamber},
	{Symbol: TemperatureChamber, Name: "Temperature @ Chamber", Station: StationChamber},
	{Symbol: MachChamber, Name: "Mach Number @ Chamber", Station: StationChamber},
	{Symbol: AreaThroat, Name: "Area @ Throat", Station: StationThroat},
	{Symbol: PressureThroat, Name: "Pressure @ Throat", Station: StationThroat},
	{Symbol: TemperatureThroat, Name: "Temperature @ Throat", Station: StationThroat},
	{Symbol: MachThroat, Name: "Mach Number @ Throat", Station: StationThroat},
	{Symbol: AreaExit, Name: "Area @ Exit", Station: StationExit},
	{Symbol: MachExit, Name: "Mach Number @ Exit", Station: StationExit},
	{Symbol: PressureExit, Name: "Pressure @ Exit", Station: StationExit},
	{Symbol: TemperatureExit, Name: "Temperature @ Exit", Station: StationExit},
	{Symbol: VelocityExit, Name: "Velocity @ Exit", Station: StationExit},
	{Symbol: PressureStagnation, Name: "Pressure @ Stagnation", Station: StationStagnation},
	{Symbol: TemperatureStagnation, Name: "Temperature @ Stagnation", Station: StationStagnation},
	{Symbol: PressureAmbient, Name: "Pressure @ Ambient"},
	{Symbol: HeatCapacityRatio, Name: "Ratio Of Specific Heats"},
	{Symbol: SpecificGasConstant, Name: "Specific Gas Constant"},
	{Symbol: MolarMass, Name: "Molar Mass"},
	{Symbol: MassFlow, Name: "Mass Flow Rate"},
	{Symbol: Thrust, Name: "Thrust", Signed: true},
	{Symbol: Mach, Name: "Mach Number", Generic: true},
	{Symbol: Pressure, Name: "Pressure", Generic: true},
	{Symbol: Temperature, Name: "Temperature", Generic: true},
}

var index = func() map[Symbol]Info {
	m := make(map[Symbol]Info, len(catalogue))
	for _, info := range catalogue {
		m[info.Symbol] = info
	}
	return m
}()

// Lookup returns the catalogue entry for s.
func Lookup(s Symbol) (Info, bool) {
	info, ok := index[s]
	return info, ok
}

// Positive reports whether s is constrained to strictly positive values.
// Symbols outside the catalogue are treated as unconstrained.
func Positive(s Symbol) bool {
	info, ok := index[s]
	return ok && !info.Signed
}

// Name returns the display name of s, or s itself if it is not catalogued.
func (s Symbol) Name() string {
	if info, ok := index[s]; ok {
		return info.Name
	}
	return string(s)
}

func (s Symbol) String() string {
	return string(s)
}

// Set is an unordered collection of symbols.
type Set map[Symbol]struct{}

// NewSet builds a set from the given symbols.
func NewSet(syms ...Symbol) Set {
	s := make(Set, len(syms))
	for _, sym := range syms {
		s[sym] = struct{}{}
	}
	return s
}

// Add inserts sym into the set.
func (s Set) Add(sym Symbol) {
	s[sym] = struct{}{}
}

// Has reports membership.
func (s Set) Has(sym Symbol) bool {
	_, ok := s[sym]
	return ok
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []Symbol {
	return Sort(s.slice())
}

func (s Set) slice() []Symbol {
	out := make([]Symbol, 0, len(s))
	for sym := range s {
		out = append(out, sym)
	}
	return out
}

// Sort orders syms lexically in place and returns them.
func Sort(syms []Symbol) []Symbol {
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}
