package mcts

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the engine configuration, taken as a snapshot by NewEngine.
// Zero MaxTime and MaxDepth mean 'unset'.
type Config struct {
	ExplorationConstant float64           `yaml:"exploration_constant" json:"exploration_constant"`
	MaxIterations       int               `yaml:"max_iterations" json:"max_iterations"`
	MaxTime             time.Duration     `yaml:"max_time" json:"max_time"`
	MaxDepth            int               `yaml:"max_depth" json:"max_depth"`
	UseTranspositions   bool              `yaml:"use_transpositions" json:"use_transpositions"`
	BestChildCriteria   BestChildCriteria `yaml:"best_child_criteria" json:"best_child_criteria"`
	// Initial pool capacity, 0 disables node pooling
	NodePoolSize      int         `yaml:"node_pool_size" json:"node_pool_size"`
	NodePoolChunkSize int         `yaml:"node_pool_chunk_size" json:"node_pool_chunk_size"`
	Perspective       Perspective `yaml:"perspective" json:"perspective"`
}

func DefaultConfig() *Config {
	return &Config{
		ExplorationConstant: DefaultExplorationConstant,
		MaxIterations:       DefaultMaxIterations,
		BestChildCriteria:   BestChildMostVisits,
		NodePoolChunkSize:   DefaultNodePoolChunkSize,
		Perspective:         PerspectiveMover,
	}
}

func (c *Config) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(c)
	return builder.String()
}

func (c *Config) SetExplorationConstant(constant float64) *Config {
	c.ExplorationConstant = constant
	return c
}

func (c *Config) SetMaxIterations(iterations int) *Config {
	c.MaxIterations = iterations
	return c
}

// Set the wall-clock budget, 0 removes it
func (c *Config) SetMaxTime(d time.Duration) *Config {
	c.MaxTime = d
	return c
}

// Accepted, but not enforced by the search loop
func (c *Config) SetMaxDepth(depth int) *Config {
	c.MaxDepth = depth
	return c
}

// Accepted, but not enforced by the search loop
func (c *Config) SetTranspositions(use bool) *Config {
	c.UseTranspositions = use
	return c
}

func (c *Config) SetBestChildCriteria(criteria BestChildCriteria) *Config {
	c.BestChildCriteria = criteria
	return c
}

// Enable node pooling with given initial size and growth chunk
func (c *Config) SetNodePool(size, chunkSize int) *Config {
	c.NodePoolSize = size
	c.NodePoolChunkSize = chunkSize
	return c
}

func (c *Config) DisableNodePool() *Config {
	c.NodePoolSize = 0
	return c
}

func (c *Config) SetPerspective(perspective Perspective) *Config {
	c.Perspective = perspective
	return c
}

func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Whether node pooling is enabled
func (c *Config) Pooling() bool {
	return c.NodePoolSize > 0
}

// Limits derived from the config's budget
func (c *Config) Limits() *Limits {
	return DefaultLimits().SetIterations(c.MaxIterations).SetMovetime(c.MaxTime)
}

// Validate reports nonsensical settings, wrapping ErrInvalidConfiguration
func (c *Config) Validate() error {
	switch {
	case math.IsNaN(c.ExplorationConstant) || math.IsInf(c.ExplorationConstant, 0):
		return InvalidConfiguration("exploration constant must be finite")
	case c.ExplorationConstant < 0:
		return InvalidConfiguration(fmt.Sprintf("negative exploration constant %v", c.ExplorationConstant))
	case c.MaxIterations <= 0:
		return InvalidConfiguration(fmt.Sprintf("max iterations must be positive, got %d", c.MaxIterations))
	case c.MaxTime < 0:
		return InvalidConfiguration(fmt.Sprintf("negative max time %v", c.MaxTime))
	case c.MaxDepth < 0:
		return InvalidConfiguration(fmt.Sprintf("negative max depth %d", c.MaxDepth))
	case c.NodePoolSize < 0:
		return InvalidConfiguration(fmt.Sprintf("negative node pool size %d", c.NodePoolSize))
	case c.Pooling() && c.NodePoolChunkSize <= 0:
		return InvalidConfiguration(fmt.Sprintf("node pool chunk size must be positive, got %d", c.NodePoolChunkSize))
	case c.BestChildCriteria != BestChildMostVisits && c.BestChildCriteria != BestChildHighestValue:
		return InvalidConfiguration(fmt.Sprintf("unknown best child criteria %d", int(c.BestChildCriteria)))
	case c.Perspective != PerspectiveMover && c.Perspective != PerspectiveLeaf:
		return InvalidConfiguration(fmt.Sprintf("unknown perspective %d", int(c.Perspective)))
	}
	return nil
}

// ParseConfig reads a yaml document on top of DefaultConfig, then validates it
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, InvalidConfiguration(err.Error())
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfig reads and parses a yaml config file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data)
}

func (c BestChildCriteria) String() string {
	switch c {
	case BestChildMostVisits:
		return "most_visits"
	case BestChildHighestValue:
		return "highest_value"
	}
	return fmt.Sprintf("BestChildCriteria(%d)", int(c))
}

func (c BestChildCriteria) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *BestChildCriteria) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "most_visits", "mostvisits":
		*c = BestChildMostVisits
	case "highest_value", "highestvalue":
		*c = BestChildHighestValue
	default:
		return InvalidConfiguration(fmt.Sprintf("unknown best child criteria %q", text))
	}
	return nil
}

func (p Perspective) String() string {
	switch p {
	case PerspectiveMover:
		return "mover"
	case PerspectiveLeaf:
		return "leaf"
	}
	return fmt.Sprintf("Perspective(%d)", int(p))
}

func (p Perspective) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Perspective) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "mover":
		*p = PerspectiveMover
	case "leaf":
		*p = PerspectiveLeaf
	default:
		return InvalidConfiguration(fmt.Sprintf("unknown perspective %q", text))
	}
	return nil
}
