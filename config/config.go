// Package config parses the solverforge run configuration grammar of
// spec.md §6: a small TOML document with [termination],
// [construction_heuristic], and [local_search] sections.
package config

import (
	"bytes"
	"fmt"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/solverforge/solverforge/sferr"
)

// Termination mirrors spec.md §6's [termination] table. A zero value in
// any field means that limit is not set.
type Termination struct {
	TimeLimit             time.Duration `toml:"time_limit"`
	StepCountLimit        int64         `toml:"step_count_limit"`
	UnimprovedStepCount   int64         `toml:"unimproved_step_count_limit"`
	BestScoreLimit        string        `toml:"best_score_limit"`
	DiminishedReturnsWindow int64       `toml:"diminished_returns_window"`
	DiminishedReturnsDelta float64      `toml:"diminished_returns_min_delta"`
}

// ConstructionHeuristic mirrors spec.md §6's [construction_heuristic]
// table.
type ConstructionHeuristic struct {
	Kind string `toml:"kind"` // "first_fit", "weakest_fit", ...
}

// LocalSearch mirrors spec.md §6's [local_search] table.
type LocalSearch struct {
	Kind    string `toml:"kind"` // "hill_climbing", "tabu_search", "simulated_annealing"
	TabuSize int   `toml:"tabu_size"`
}

// Config is the full parsed run configuration.
type Config struct {
	Termination           Termination           `toml:"termination"`
	ConstructionHeuristic ConstructionHeuristic `toml:"construction_heuristic"`
	LocalSearch           LocalSearch           `toml:"local_search"`
}

// Parse decodes a TOML document into a Config, rejecting unrecognized keys
// (spec.md §6 "hard error on unknown keys" — a typo in a config file must
// never silently fall back to a default).
func Parse(data []byte) (*Config, error) {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.StrictMissingError
		if ok := isStrictMissing(err, &derr); ok {
			return nil, &sferr.ParseError{Reason: "config: " + derr.String()}
		}
		return nil, &sferr.ParseError{Reason: "config: " + err.Error()}
	}
	return &cfg, nil
}

func isStrictMissing(err error, target **toml.StrictMissingError) bool {
	if e, ok := err.(*toml.StrictMissingError); ok {
		*target = e
		return true
	}
	return false
}

// Default returns a permissive default configuration: a 30 second time
// limit, first-fit construction, hill-climbing local search.
func Default() *Config {
	return &Config{
		Termination:           Termination{TimeLimit: 30 * time.Second},
		ConstructionHeuristic: ConstructionHeuristic{Kind: "first_fit"},
		LocalSearch:           LocalSearch{Kind: "hill_climbing"},
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("termination=%+v construction=%+v local_search=%+v",
		c.Termination, c.ConstructionHeuristic, c.LocalSearch)
}
