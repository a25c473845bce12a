package cli

import (
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/ini.v1"

	"github.com/BCalow/engine-initial-variables/internal/engine"
	"github.com/BCalow/engine-initial-variables/internal/rootfind"
	"github.com/BCalow/engine-initial-variables/internal/server"
)

// Config holds settings read from an INI file.
//
//	[engine]
//	max_passes = 50
//	rel_tol = 1e-6
//	abs_tol = 1e-9
//	stagnant_chamber = false
//
//	[rootfind]
//	max_iterations = 100
//	xtol = 1e-12
//	ftol = 1e-14
//	accept_tol = 1e-8
//
//	[constants]
//	gamma = 1.4
//
//	[server]
//	addr = :9000
//	allowed_origins = http://localhost:3000, http://127.0.0.1:3000
type Config struct {
	MaxPasses       int
	RelTol          float64
	AbsTol          float64
	StagnantChamber bool

	RootMaxIterations int
	RootXTol          float64
	RootFTol          float64
	RootAcceptTol     float64

	// Constants are fixed for every solve, on top of the library's own.
	Constants map[string]float64

	Addr string

	// AllowedOrigins restricts websocket upgrades. Empty accepts any origin.
	AllowedOrigins []string
}

// DefaultConfig returns the settings used without a config file.
func DefaultConfig() Config {
	return Config{
		MaxPasses:         engine.DefaultMaxPasses,
		RelTol:            engine.DefaultRelTol,
		AbsTol:            engine.DefaultAbsTol,
		RootMaxIterations: rootfind.DefaultMaxIterations,
		RootXTol:          rootfind.DefaultXTol,
		RootFTol:          rootfind.DefaultFTol,
		RootAcceptTol:     rootfind.DefaultAcceptTol,
		Addr:              server.DefaultAddr,
	}
}

// LoadConfig reads path over the defaults. An empty path returns the
// defaults. Every malformed key is reported.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	file, err := ini.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := loadConfig(file, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func loadConfig(file *ini.File, cfg *Config) error {
	var merr *multierror.Error
	eng := file.Section("engine")

	if key, err := eng.GetKey("max_passes"); err == nil {
		v, err := key.Int()
		switch {
		case err != nil:
			merr = multierror.Append(merr, fmt.Errorf("engine.max_passes: %w", err))
		case v < 1:
			merr = multierror.Append(merr, fmt.Errorf("engine.max_passes: must be at least 1, got %d", v))
		default:
			cfg.MaxPasses = v
		}
	}
	merr = loadNonNegative(merr, eng, "engine", "rel_tol", &cfg.RelTol)
	merr = loadNonNegative(merr, eng, "engine", "abs_tol", &cfg.AbsTol)
	if key, err := eng.GetKey("stagnant_chamber"); err == nil {
		v, err := key.Bool()
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("engine.stagnant_chamber: %w", err))
		} else {
			cfg.StagnantChamber = v
		}
	}

	root := file.Section("rootfind")
	if key, err := root.GetKey("max_iterations"); err == nil {
		v, err := key.Int()
		switch {
		case err != nil:
			merr = multierror.Append(merr, fmt.Errorf("rootfind.max_iterations: %w", err))
		case v < 1:
			merr = multierror.Append(merr, fmt.Errorf("rootfind.max_iterations: must be at least 1, got %d", v))
		default:
			cfg.RootMaxIterations = v
		}
	}
	merr = loadNonNegative(merr, root, "rootfind", "xtol", &cfg.RootXTol)
	merr = loadNonNegative(merr, root, "rootfind", "ftol", &cfg.RootFTol)
	merr = loadNonNegative(merr, root, "rootfind", "accept_tol", &cfg.RootAcceptTol)

	for _, key := range file.Section("constants").Keys() {
		v, err := key.Float64()
		switch {
		case err != nil:
			merr = multierror.Append(merr, fmt.Errorf("constants.%s: %w", key.Name(), err))
		case math.IsNaN(v) || math.IsInf(v, 0):
			merr = multierror.Append(merr, fmt.Errorf("constants.%s: must be finite, got %g", key.Name(), v))
		default:
			if cfg.Constants == nil {
				cfg.Constants = make(map[string]float64)
			}
			cfg.Constants[key.Name()] = v
		}
	}

	srv := file.Section("server")
	cfg.Addr = srv.Key("addr").MustString(cfg.Addr)
	if srv.HasKey("allowed_origins") {
		cfg.AllowedOrigins = srv.Key("allowed_origins").Strings(",")
	}

	if merr != nil {
		merr.ErrorFormat = listErrors
	}
	return merr.ErrorOrNil()
}

// loadNonNegative reads an optional float key into dst.
func loadNonNegative(merr *multierror.Error, sec *ini.Section, section, name string, dst *float64) *multierror.Error {
	key, err := sec.GetKey(name)
	if err != nil {
		return merr
	}
	v, err := key.Float64()
	switch {
	case err != nil:
		return multierror.Append(merr, fmt.Errorf("%s.%s: %w", section, name, err))
	case v < 0:
		return multierror.Append(merr, fmt.Errorf("%s.%s: must be non-negative, got %g", section, name, v))
	}
	*dst = v
	return merr
}

func listErrors(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	msg := fmt.Sprintf("%d errors:", len(errs))
	for _, err := range errs {
		msg += " " + err.Error() + ";"
	}
	return msg[:len(msg)-1]
}
