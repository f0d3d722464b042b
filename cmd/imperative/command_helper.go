package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zowe/imperative-go/internal/infrastructure/container"
)

// CommandContext provides common command dependencies.
type CommandContext struct {
	Container *container.Container
	Logger    *slog.Logger
	Context   context.Context
}

// Close releases the container.
func (c *CommandContext) Close() {
	c.Container.Close()
}

// CommandHandler is a function that executes with initialized dependencies.
type CommandHandler func(*CommandContext, *cobra.Command, []string) error

// withContainer wraps a command handler with container initialization.
//
// Usage:
//
//	cmd := &cobra.Command{
//	    Use: "init",
//	    RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
//	        return runInit(ctx, cmd)
//	    }),
//	}
func withContainer(handler CommandHandler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, err := newCommandContext(cmd.Context())
		if err != nil {
			return err
		}
		defer ctx.Close()
		return handler(ctx, cmd, args)
	}
}

// newCommandContext builds the container from the settings file, the
// environment, and the global flags.
func newCommandContext(ctx context.Context) (*CommandContext, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := slog.Default()

	c, err := container.New(container.Options{
		SystemConfigPath: cfgFile,
		TypesFile:        viper.GetString(keyTypesFile),
		ProfileRootDir:   viper.GetString(keyRootDir),
		CredentialKind:   viper.GetString(keyCredentialKind),
		Logger:           logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}

	return &CommandContext{
		Container: c,
		Logger:    logger,
		Context:   ctx,
	}, nil
}
