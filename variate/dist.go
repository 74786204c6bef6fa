package variate

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler is the slice of the distuv distribution surface the engine
// needs: a draw plus the theoretical moments used for variance scaling.
type Sampler interface {
	Rand() float64
	Mean() float64
	StdDev() float64
}

// recognised parameter keys (with defaults) per distribution family.
var distDefaults = map[string]map[string]float64{
	"normal":      {"mean": 0, "sd": 1},
	"uniform":     {"min": 0, "max": 1},
	"lognormal":   {"meanlog": 0, "sdlog": 1},
	"gamma":       {"shape": 1, "rate": 1},
	"exponential": {"rate": 1},
	"t":           {"df": 5, "mean": 0, "sd": 1},
	"chisquared":  {"df": 1},
}

// NewSampler resolves a DistSpec into a ready distuv sampler fed by src.
// The zero-valued spec resolves to normal(0, 1). Unknown names fail with
// ErrUnknownDist; unknown keys and out-of-domain values fail with
// ErrBadDistParam.
func NewSampler(spec DistSpec, src rand.Source) (Sampler, error) {
	name := spec.Name
	if name == "" {
		name = "normal"
	}
	defaults, ok := distDefaults[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownDist, name, distNames())
	}
	p := make(map[string]float64, len(defaults))
	for k, v := range defaults {
		p[k] = v
	}
	for k, v := range spec.Params {
		if _, ok := defaults[k]; !ok {
			return nil, fmt.Errorf("%w: %q does not recognise key %q", ErrBadDistParam, name, k)
		}
		p[k] = v
	}

	switch name {
	case "normal":
		if p["sd"] <= 0 {
			return nil, fmt.Errorf("%w: normal sd must be positive, got %g", ErrBadDistParam, p["sd"])
		}
		return distuv.Normal{Mu: p["mean"], Sigma: p["sd"], Src: src}, nil
	case "uniform":
		if p["max"] <= p["min"] {
			return nil, fmt.Errorf("%w: uniform requires min < max, got [%g, %g]", ErrBadDistParam, p["min"], p["max"])
		}
		return distuv.Uniform{Min: p["min"], Max: p["max"], Src: src}, nil
	case "lognormal":
		if p["sdlog"] <= 0 {
			return nil, fmt.Errorf("%w: lognormal sdlog must be positive, got %g", ErrBadDistParam, p["sdlog"])
		}
		return distuv.LogNormal{Mu: p["meanlog"], Sigma: p["sdlog"], Src: src}, nil
	case "gamma":
		if p["shape"] <= 0 || p["rate"] <= 0 {
			return nil, fmt.Errorf("%w: gamma shape and rate must be positive, got %g and %g",
				ErrBadDistParam, p["shape"], p["rate"])
		}
		return distuv.Gamma{Alpha: p["shape"], Beta: p["rate"], Src: src}, nil
	case "exponential":
		if p["rate"] <= 0 {
			return nil, fmt.Errorf("%w: exponential rate must be positive, got %g", ErrBadDistParam, p["rate"])
		}
		return distuv.Exponential{Rate: p["rate"], Src: src}, nil
	case "t":
		// df must exceed 2 so the standard deviation used for variance
		// scaling is finite.
		if p["df"] <= 2 {
			return nil, fmt.Errorf("%w: t df must exceed 2, got %g", ErrBadDistParam, p["df"])
		}
		if p["sd"] <= 0 {
			return nil, fmt.Errorf("%w: t sd must be positive, got %g", ErrBadDistParam, p["sd"])
		}
		return distuv.StudentsT{Mu: p["mean"], Sigma: p["sd"], Nu: p["df"], Src: src}, nil
	case "chisquared":
		if p["df"] <= 0 {
			return nil, fmt.Errorf("%w: chisquared df must be positive, got %g", ErrBadDistParam, p["df"])
		}
		return distuv.ChiSquared{K: p["df"], Src: src}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDist, name)
}

// distNames lists the registry keys in stable order for error messages.
func distNames() []string {
	names := make([]string, 0, len(distDefaults))
	for k := range distDefaults {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
