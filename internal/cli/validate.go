package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fhirbench/fhirbench/internal/config"
	"github.com/fhirbench/fhirbench/internal/suite"
)

// ValidationResult holds the outcome of suite validation.
type ValidationResult struct {
	Dir    string   `json:"dir"`
	Issues []string `json:"issues,omitempty"`
	Valid  bool     `json:"valid"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [suites-dir]",
		Short: "Validate suite files against the schema",
		Long: `Validate suite definition files against the suite schema.

Without an argument, validates the configured suites directory. The loader
itself is lenient (a malformed suite is skipped, not fatal); validate is the
strict check for suite authors.

Exit codes:
  0 - All suite files conform
  1 - One or more files are invalid
  2 - Command error (missing directory, bad config, etc.)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
}

func runValidate(opts *RootOptions, args []string, cmd *cobra.Command) error {
	dir := ""
	if len(args) == 1 {
		dir = args[0]
	} else {
		cfg, err := config.Load(opts.Config)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load configuration", err)
		}
		dir = cfg.SuitesDir
	}

	validator, err := suite.NewValidator()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to initialize validator", err)
	}

	issues, err := validator.ValidateDir(dir)
	if err != nil {
		return WrapExitError(ExitCommandError, "validation failed", err)
	}

	result := ValidationResult{Dir: dir, Valid: len(issues) == 0}
	for _, issue := range issues {
		result.Issues = append(result.Issues, issue.String())
	}

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    "E_SUITE_INVALID",
				Message: fmt.Sprintf("%d suite file(s) invalid", len(issues)),
			}
		}
		if err := writeJSON(w, resp); err != nil {
			return err
		}
	} else {
		for _, issue := range result.Issues {
			fmt.Fprintf(w, "✗ %s\n", issue)
		}
		if result.Valid {
			fmt.Fprintln(w, "✓ All suite files conform")
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d suite file(s) invalid", len(issues)))
	}
	return nil
}
