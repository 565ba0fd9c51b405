package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Run-scoped requirements
// (input pattern, output destination, checkpoint location) are validated by
// the pipeline coordinator at run start, so a config file that omits them
// still loads for commands that do not score anything.
func (c *Config) Validate() error {
	if err := c.validateInput(); err != nil {
		return err
	}
	if err := c.validateEval(); err != nil {
		return err
	}
	if err := c.validateModel(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateInput() error {
	if c.Input.NumReaders < 1 {
		return errors.New("input.num_readers must be at least 1")
	}
	return nil
}

func (c *Config) validateEval() error {
	if c.Eval.BatchSize < 1 {
		return errors.New("eval.batch_size must be at least 1")
	}
	if c.Eval.TopK < 1 {
		return errors.New("eval.top_k must be at least 1")
	}
	return nil
}

func (c *Config) validateModel() error {
	if c.Model.Name == "" {
		return errors.New("model.name must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "auto", "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}
