package config

import (
	"fmt"
	"runtime"

	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/validation"
)

// Engine contains the evaluation defaults applied to newly created streams.
type Engine struct {
	// Parallelism bounds the number of concurrent workers used by parallel
	// evaluation. 0 means one worker per logical CPU.
	Parallelism int `yaml:"parallelism" mapstructure:"parallelism" validate:"gte=0,lte=4096"`
	// MinLeafSize is the smallest source segment the parallel evaluator
	// will split. 1 permits splitting down to single elements.
	MinLeafSize int64 `yaml:"min_leaf_size" mapstructure:"min_leaf_size" validate:"gte=0"`
	// SplitFactor scales the target leaf size: a sized source aims for
	// size / (parallelism * split_factor) elements per leaf.
	SplitFactor int `yaml:"split_factor" mapstructure:"split_factor" validate:"gte=0,lte=64"`
	// Logging configures the structured logger.
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to engine configuration.
func (c *Engine) ApplyDefaults() {
	if c.Parallelism == 0 {
		c.Parallelism = runtime.GOMAXPROCS(0)
	}
	if c.MinLeafSize == 0 {
		c.MinLeafSize = 1
	}
	if c.SplitFactor == 0 {
		c.SplitFactor = 4
	}
	c.Logging.ApplyDefaults()
}

// Validate validates engine configuration.
func (c *Engine) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
