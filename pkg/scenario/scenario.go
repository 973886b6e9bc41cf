// Package scenario loads storm analysis scenarios: the grid graph, weather
// prior, per-vertex base rates, the suppression parameters and a list of
// named queries, all from one YAML (or JSON) document.
package scenario

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/stormnet/pkg/bayes"
	"github.com/dd0wney/stormnet/pkg/graph"
	"github.com/dd0wney/stormnet/pkg/stormnet"
	"github.com/dd0wney/stormnet/pkg/validation"
)

// ErrInvalidScenario wraps every decoding and validation failure
var ErrInvalidScenario = errors.New("invalid scenario")

//go:embed schema.json
var schemaSource []byte

const schemaURL = "stormnet://scenario.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Scenario is one analysis input document
type Scenario struct {
	P1            float64  `yaml:"p1" validate:"gte=0,lte=1"`
	P2            float64  `yaml:"p2" validate:"gte=0,lte=1"`
	LazyThreshold int      `yaml:"lazy_threshold,omitempty" validate:"gte=0"`
	Weather       Weather  `yaml:"weather"`
	Vertices      []Vertex `yaml:"vertices" validate:"required,min=1,dive"`
	Edges         []Edge   `yaml:"edges" validate:"dive"`
	Queries       []Query  `yaml:"queries" validate:"dive"`
}

// Weather is the prior over the three weather states
type Weather struct {
	Mild    float64 `yaml:"mild" validate:"gte=0,lte=1"`
	Stormy  float64 `yaml:"stormy" validate:"gte=0,lte=1"`
	Extreme float64 `yaml:"extreme" validate:"gte=0,lte=1"`
}

// Vertex is a grid element with its base failure rate x(v)
type Vertex struct {
	ID   string  `yaml:"id" validate:"required"`
	Rate float64 `yaml:"rate" validate:"gte=0,lte=1"`
}

// Edge is an undirected weighted connection
type Edge struct {
	From   string  `yaml:"from" validate:"required"`
	To     string  `yaml:"to" validate:"required"`
	Weight float64 `yaml:"weight" validate:"gte=0"`
}

// Query is a named posterior request
type Query struct {
	Name     string            `yaml:"name" validate:"required"`
	Query    []string          `yaml:"query" validate:"required,min=1,dive,required"`
	Evidence map[string]string `yaml:"evidence"`
}

// Load reads and parses the scenario at path
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidScenario, path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML or JSON document, checks it against the embedded
// schema, then against struct tags and cross-references
func Parse(data []byte) (*Scenario, error) {
	if err := validateSchema(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidScenario, err)
	}

	if err := validation.Struct(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if err := s.check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	return &s, nil
}

func schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaSource)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// validateSchema converts the YAML tree to plain JSON values before
// validation since the schema library only understands JSON types
func validateSchema(data []byte) error {
	sch, err := schema()
	if err != nil {
		return err
	}

	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("document is not JSON compatible: %w", err)
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	return sch.Validate(payload)
}

// check enforces what neither the schema nor the tags can express
func (s *Scenario) check() error {
	cv := validation.NewConfigValidator("scenario").
		SumsTo("weather", []float64{s.Weather.Mild, s.Weather.Stormy, s.Weather.Extreme}, 1, bayes.Tolerance).
		MinInt("lazy_threshold", s.LazyThreshold, 0)

	seen := make(map[string]bool, len(s.Vertices))
	for i, v := range s.Vertices {
		if seen[v.ID] {
			cv.Custom(fmt.Sprintf("vertices[%d]", i), func() error {
				return fmt.Errorf("duplicate vertex %q", v.ID)
			})
		}
		seen[v.ID] = true
		cv.RangeFloat(fmt.Sprintf("vertices[%d].rate", i), v.Rate, 0, 1.0/3)
	}

	for i, e := range s.Edges {
		for _, end := range []string{e.From, e.To} {
			if !seen[end] {
				cv.Custom(fmt.Sprintf("edges[%d]", i), func() error {
					return fmt.Errorf("unknown vertex %q", end)
				})
			}
		}
	}

	names := make(map[string]bool, len(s.Queries))
	for i, q := range s.Queries {
		if names[q.Name] {
			cv.Custom(fmt.Sprintf("queries[%d]", i), func() error {
				return fmt.Errorf("duplicate query name %q", q.Name)
			})
		}
		names[q.Name] = true

		cv.When(len(q.Evidence) > 0, func(cv *validation.ConfigValidator) {
			for _, name := range slices.Sorted(maps.Keys(q.Evidence)) {
				cv.Required(fmt.Sprintf("queries[%d].evidence[%s]", i, name), q.Evidence[name])
			}
		})
	}

	if cv.HasErrors() {
		return cv.Validate()
	}
	_, err := s.Graph()
	return err
}

// Graph builds the undirected input graph, vertices first in document order
func (s *Scenario) Graph() (*graph.Graph, error) {
	g := graph.New()
	for _, v := range s.Vertices {
		if err := g.AddVertex(v.ID); err != nil {
			return nil, err
		}
	}
	for _, e := range s.Edges {
		if err := g.AddEdge(e.From, e.To, e.Weight); err != nil {
			return nil, fmt.Errorf("edge %s-%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// Config returns the builder parameters
func (s *Scenario) Config() stormnet.Config {
	rates := make(map[string]float64, len(s.Vertices))
	for _, v := range s.Vertices {
		rates[v.ID] = v.Rate
	}
	return stormnet.Config{
		P1: s.P1,
		P2: s.P2,
		WeatherPrior: map[string]float64{
			stormnet.Mild:    s.Weather.Mild,
			stormnet.Stormy:  s.Weather.Stormy,
			stormnet.Extreme: s.Weather.Extreme,
		},
		BaseRates:     rates,
		LazyThreshold: s.LazyThreshold,
	}
}

// Find returns the query named name
func (s *Scenario) Find(name string) (Query, bool) {
	for _, q := range s.Queries {
		if q.Name == name {
			return q, true
		}
	}
	return Query{}, false
}
