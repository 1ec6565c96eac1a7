package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario is the set of bombs planted at the start of a run.
type Scenario struct {
	Bombs []Bomb `yaml:"bombs"`
}

// Bomb counts down from Fuse and explodes, unless the
// game clock reaches DefuseAt first. Zero DefuseAt means
// nobody tries to defuse it.
type Bomb struct {
	Name     string        `yaml:"name"`
	Fuse     time.Duration `yaml:"fuse"`
	DefuseAt time.Duration `yaml:"defuse_at"`
}

func defaultScenario() *Scenario {
	return &Scenario{
		Bombs: []Bomb{
			{Name: "alpha", Fuse: 5 * time.Second},
			{Name: "bravo", Fuse: 5 * time.Second, DefuseAt: 3 * time.Second},
		},
	}
}

// LoadScenario reads a scenario file. An empty path
// returns the built-in scenario.
func LoadScenario(path string) (*Scenario, error) {
	if path == "" {
		return defaultScenario(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) validate() error {
	if len(sc.Bombs) == 0 {
		return errors.New("scenario has no bombs")
	}
	seen := map[string]bool{}
	for i, b := range sc.Bombs {
		if b.Name == "" {
			return fmt.Errorf("bomb %d: missing name", i)
		}
		if seen[b.Name] {
			return fmt.Errorf("bomb %q: duplicate name", b.Name)
		}
		seen[b.Name] = true
		if b.Fuse <= 0 {
			return fmt.Errorf("bomb %q: fuse must be positive", b.Name)
		}
		if b.DefuseAt < 0 {
			return fmt.Errorf("bomb %q: defuse_at must not be negative", b.Name)
		}
	}
	return nil
}
