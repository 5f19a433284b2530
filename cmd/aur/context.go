package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"aur/internal/aurerr"
	"aur/internal/config"
	"aur/internal/encode"
	"aur/internal/logging"
	"aur/internal/metadata"
	"aur/internal/title"
	"aur/internal/validate"
	"aur/internal/words"
)

type globalFlags struct {
	config  string
	verbose bool
	quiet   bool
	noop    bool
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	setupOnce sync.Once
	logger    *slog.Logger
	store     metadata.Facade
	words     *words.Words
	maker     *title.TagMaker
	retitler  *title.Retitler
	validator *validate.TagValidator
	runner    *encode.Runner

	stdin *bufio.Reader
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, err := c.ensureConfig()
	if err != nil || cfg == nil {
		def := config.Default()
		return &def
	}
	return cfg
}

// setup builds the long-lived collaborators once per run. Log output goes to
// the command's stderr so stdout carries only results.
func (c *commandContext) setup(cmd *cobra.Command) {
	c.setupOnce.Do(func() {
		cfg := c.configValue()
		level := logging.LevelFromFlags(cfg.Logging.Level, c.flags.verbose, c.flags.quiet)
		logger, err := logging.New(logging.Options{
			Level:  level,
			Format: cfg.Logging.Format,
			Writer: cmd.ErrOrStderr(),
		})
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
		if c.store == nil {
			c.store = metadata.NewStore(metadata.WithLogger(logger))
		}
		c.words = words.New(cfg.Words)
		c.maker = title.NewTagMaker(c.words)
		c.retitler = title.NewRetitler(c.words)
		c.validator = validate.NewTagValidator(c.maker, cfg.Genres)
		c.runner = encode.NewRunner(nil, logger)
		c.stdin = bufio.NewReader(cmd.InOrStdin())
	})
}

func (c *commandContext) componentLogger(cmd *cobra.Command) *slog.Logger {
	c.setup(cmd)
	return logging.NewComponentLogger(c.logger, cmd.Name())
}

// prompt writes question to stdout and reads one line from stdin.
func (c *commandContext) prompt(cmd *cobra.Command, question string) (string, error) {
	c.setup(cmd)
	fmt.Fprint(cmd.OutOrStdout(), question)
	line, err := c.stdin.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", aurerr.Wrap(aurerr.ErrIO, "read input", "", err)
	}
	return strings.TrimSpace(line), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
