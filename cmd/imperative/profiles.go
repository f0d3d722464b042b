package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/zowe/imperative-go/internal/application/builders"
	"github.com/zowe/imperative-go/internal/application/dto"
	"github.com/zowe/imperative-go/internal/domain/commands"
	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/services"
	"github.com/zowe/imperative-go/internal/domain/validation"
	"github.com/zowe/imperative-go/internal/domain/values"
	"github.com/zowe/imperative-go/internal/infrastructure/cli"
	"github.com/zowe/imperative-go/internal/infrastructure/container"
	"github.com/zowe/imperative-go/internal/infrastructure/sensitivedata"
)

// errValidationFailed is returned when a validated profile will not work.
var errValidationFailed = errors.New("profile validation failed")

// addProfilesCommand generates the "profiles" tree from the profile types.
// When the types cannot be loaded the tree is replaced by a command that
// reports why.
func addProfilesCommand(root *cobra.Command, typesFile string) {
	cmd, err := newProfilesCommand(typesFile, viper.GetString(keyProduct), runProfileAction)
	if err != nil {
		slog.Debug("profile commands are unavailable", "error", err)
		cmd = &cobra.Command{
			Use:     builders.ProfilesGroupName,
			Aliases: []string{"pr"},
			Short:   "Create and manage configuration profiles",
			RunE: func(_ *cobra.Command, _ []string) error {
				return err
			},
		}
	}
	root.AddCommand(cmd)
}

func newProfilesCommand(typesFile, product string, handler cli.Handler) (*cobra.Command, error) {
	configs, err := container.LoadTypes(typesFile)
	if err != nil {
		return nil, err
	}
	return cli.Project(builders.ProfilesGroup(configs, product), handler)
}

// runProfileAction runs a generated profile command against a fresh
// container.
func runProfileAction(ctx context.Context, cmd *cobra.Command, inv cli.Invocation) error {
	cc, err := newCommandContext(ctx)
	if err != nil {
		return err
	}
	defer cc.Close()

	format := viper.GetString(keyFormat)
	redactor := cc.Container.Redactor()
	actions := &profileActions{
		container: cc.Container,
		out:       sensitivedata.NewWriter(cmd.OutOrStdout(), redactor),
		format:    format,
		color:     !noColor && format == "table" && term.IsTerminal(int(os.Stdout.Fd())),
		logger:    cc.Logger,
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		actions.progressOut = sensitivedata.NewWriter(cmd.ErrOrStderr(), redactor)
	}
	// Secure values hydrated while running must not reach the error output.
	return sensitivedata.SafeError(actions.run(cc.Context, inv), cc.Container.SensitiveValues())
}

// profileActions dispatches generated profile commands to the services.
type profileActions struct {
	container *container.Container
	out       io.Writer
	format    string
	color     bool
	logger    *slog.Logger
	// progressOut receives validation progress; nil disables it.
	progressOut io.Writer
}

func (a *profileActions) run(ctx context.Context, inv cli.Invocation) error {
	def := inv.Definition
	name := inv.Positional(builders.PositionalProfileName)

	switch def.Action {
	case commands.ActionCreate:
		return a.create(ctx, def.ProfileType, name, inv)
	case commands.ActionUpdate:
		return a.update(ctx, def.ProfileType, name, inv)
	case commands.ActionDelete:
		return a.delete(ctx, def.ProfileType, name, inv.Bool(builders.OptionForce))
	case commands.ActionList:
		return a.list(ctx, def.ProfileType, inv.Bool(builders.OptionShowContents))
	case commands.ActionSetDefault:
		return a.setDefault(ctx, def.ProfileType, name)
	case commands.ActionValidate:
		return a.validate(ctx, def.ProfileType, name, inv.Bool(builders.OptionPrintPlanOnly))
	default:
		return fmt.Errorf("command %q has no profile action", def.Name)
	}
}

func (a *profileActions) create(ctx context.Context, profileType, name string, inv cli.Invocation) error {
	svc, err := a.container.CLIProfiles().ForType(profileType)
	if err != nil {
		return err
	}
	resp, err := svc.SaveFromArguments(ctx, name, inv.Arguments, inv.Bool(builders.OptionOverwrite), false)
	if err != nil {
		return err
	}
	if resp.Overwritten {
		fmt.Fprintf(a.out, "Overwrote existing profile %q.\n", name)
	}
	fmt.Fprintln(a.out, resp.Message)
	return a.printProfile(svc.Profiles().SecurePaths, resp.Profile)
}

func (a *profileActions) update(ctx context.Context, profileType, name string, inv cli.Invocation) error {
	svc, err := a.container.CLIProfiles().ForType(profileType)
	if err != nil {
		return err
	}
	resp, err := svc.UpdateFromArguments(ctx, name, inv.Arguments)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, resp.Message)
	return a.printProfile(svc.Profiles().SecurePaths, resp.Profile)
}

func (a *profileActions) delete(ctx context.Context, profileType, name string, force bool) error {
	svc, err := a.container.Profiles().ForType(profileType)
	if err != nil {
		return err
	}
	resp, err := svc.Delete(ctx, dto.DeleteProfileRequest{Name: name, SkipDependencyCheck: force})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, resp.Message)
	if resp.DefaultCleared {
		fmt.Fprintf(a.out, "%q was the default %s profile; no default is set now.\n", name, profileType)
	}
	return nil
}

func (a *profileActions) list(ctx context.Context, profileType string, showContents bool) error {
	svc, err := a.container.Profiles().ForType(profileType)
	if err != nil {
		return err
	}
	defaultName, err := svc.GetDefaultProfileName(ctx)
	if err != nil {
		return err
	}

	if !showContents {
		names, err := svc.GetAllProfileNames(ctx)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintf(a.out, "No profiles of type %q were found.\n", profileType)
			return nil
		}
		fmt.Fprintf(a.out, "The following profiles were found of the type %q:\n\n", profileType)
		for _, n := range names {
			fmt.Fprintln(a.out, listEntry(n, defaultName))
		}
		return nil
	}

	loaded, err := svc.LoadAll(ctx, dto.LoadAllProfilesRequest{TypeOnly: true})
	if err != nil {
		return err
	}
	if len(loaded) == 0 {
		fmt.Fprintf(a.out, "No profiles of type %q were found.\n", profileType)
		return nil
	}
	fmt.Fprintf(a.out, "The following profiles were found of the type %q:\n\n", profileType)
	for _, l := range loaded {
		fmt.Fprintln(a.out, listEntry(l.Name, defaultName))
		if err := a.printProfile(svc.SecurePaths, l.Profile); err != nil {
			return err
		}
	}
	return nil
}

func listEntry(name, defaultName string) string {
	if name == defaultName {
		return name + " (default)"
	}
	return name
}

func (a *profileActions) setDefault(ctx context.Context, profileType, name string) error {
	svc, err := a.container.Profiles().ForType(profileType)
	if err != nil {
		return err
	}
	msg, err := svc.SetDefault(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *profileActions) validate(ctx context.Context, profileType, name string, planOnly bool) error {
	svc, err := a.container.Profiles().ForType(profileType)
	if err != nil {
		return err
	}

	resp, err := a.container.CheckProfileUseCase().Execute(ctx, dto.CheckProfileRequest{
		Type:          profileType,
		Name:          name,
		PrintPlanOnly: planOnly,
	}, a.progress)
	if err != nil {
		return err
	}

	formatter, err := a.container.Formatters().Create(a.format, a.out,
		a.container.OutputOptions(svc, a.format, a.color))
	if err != nil {
		return err
	}
	if planOnly {
		return formatter.FormatPlan(resp.Profile, resp.Plan)
	}
	if err := formatter.FormatReport(resp.Report, resp.Plan); err != nil {
		return err
	}
	if resp.Report.OverallResult == values.OutcomeFailed {
		return errValidationFailed
	}
	return nil
}

func (a *profileActions) progress(p validation.Progress) {
	a.logger.Debug(p.Message, "completed", p.Completed, "total", p.Total)
	if a.progressOut != nil {
		fmt.Fprintf(a.progressOut, "[%3.0f%%] %s\n", p.PercentComplete, p.Message)
	}
}

// printProfile writes the profile as YAML with its secure fields censored.
func (a *profileActions) printProfile(securePaths func() []services.SecurePath, profile entities.Profile) error {
	if profile == nil {
		return nil
	}
	paths := make([]string, 0)
	for _, sp := range securePaths() {
		paths = append(paths, sp.Path)
	}
	data, err := yaml.MarshalWithOptions(a.container.Redactor().RedactProfile(profile, paths), yaml.Indent(2))
	if err != nil {
		return fmt.Errorf("failed to render profile: %w", err)
	}
	fmt.Fprintf(a.out, "\n%s\n", data)
	return nil
}
