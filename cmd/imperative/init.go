package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zowe/imperative-go/internal/application/services"
	"github.com/zowe/imperative-go/internal/infrastructure/credentials"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the profile root for every profile type",
	Long: `Create the profile root with one directory and meta file per profile type.

Existing types are left alone unless --reinitialize is given, which replaces
their stored configuration and keeps their default profile. With
--generate-identity a new vault identity is written to the identity file
named in the settings, unless one already exists.`,
	Example: `  imperative init
  imperative init --profile-types ./types.jsonc --reinitialize
  imperative init --generate-identity`,
	Args: cobra.NoArgs,
	RunE: withContainer(runInit),
}

func init() {
	initCmd.Flags().Bool("reinitialize", false, "Replace the stored configuration of initialized types")
	initCmd.Flags().Bool("generate-identity", false, "Generate a credential vault identity if none exists")

	rootCmd.AddCommand(initCmd)
}

func runInit(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
	reinitialize, _ := cmd.Flags().GetBool("reinitialize")
	generate, _ := cmd.Flags().GetBool("generate-identity")
	out := cmd.OutOrStdout()

	cfg := ctx.Container.SystemConfig()
	responses, err := services.InitializeProfileEnvironment(ctx.Context, ctx.Container.ProfileIO(),
		cfg.Profiles.RootDir, ctx.Container.TypeConfigurations(), reinitialize, ctx.Logger)
	if err != nil {
		return err
	}
	for _, r := range responses {
		fmt.Fprintln(out, r.Message)
	}

	if !generate {
		return nil
	}
	path := cfg.SensitiveData.Secrets.Files[cfg.Credentials.IdentitySecret]
	if path == "" {
		return fmt.Errorf("no identity file is configured for secret %q", cfg.Credentials.IdentitySecret)
	}
	recipient, err := writeIdentity(path)
	if err != nil {
		return err
	}
	if recipient == "" {
		fmt.Fprintf(out, "Vault identity already exists: %s\n", path)
		return nil
	}
	fmt.Fprintf(out, "Vault identity written to %s (recipient %s)\n", path, recipient)
	return nil
}

// writeIdentity creates an identity file at path. It returns an empty
// recipient when the file already exists.
func writeIdentity(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return "", nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking identity file: %w", err)
	}

	identity, recipient, err := credentials.GenerateIdentity()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("creating identity directory: %w", err)
	}
	//nolint:gosec // G304: path comes from the settings file
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("creating identity file: %w", err)
	}
	if _, err := fmt.Fprintln(f, identity); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing identity file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing identity file: %w", err)
	}
	return recipient, nil
}
