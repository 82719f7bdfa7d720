package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/waabox/pipecheck/internal/analyzer"
	"github.com/waabox/pipecheck/internal/azure"
	"github.com/waabox/pipecheck/internal/config"
	"github.com/waabox/pipecheck/internal/domain"
	"github.com/waabox/pipecheck/internal/orchestrator"
	"github.com/waabox/pipecheck/internal/output"
	"github.com/waabox/pipecheck/internal/provider"
	"github.com/waabox/pipecheck/internal/provider/bamboo"
	"github.com/waabox/pipecheck/internal/provider/logstore"
	"github.com/waabox/pipecheck/internal/report"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

var (
	errStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#D73737", Dark: "#FF5555"})
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#0969DA", Dark: "#8BE9FD"})
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#59636E", Dark: "#6272A4"})
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#50FA7B"})
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		question   string
		format     string
		configPath string
		quiet      bool
		verbose    bool
	)

	root := &cobra.Command{
		Use:           "pipecheck",
		Short:         "Analyze CI/CD pipeline health and generate reports",
		Long:          "pipecheck fetches pipeline plans and execution logs, analyzes them with Azure AI (falling back to rule-based heuristics), and emits a traced health report.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := buildOrchestrator(configPath, quiet)
			if err != nil {
				return err
			}
			result := orch.Run(cmd.Context(), question)
			rendered, err := output.Render(result, format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			if verbose && result.Outputs.Summary != nil {
				printExecutionSummary(cmd.ErrOrStderr(), *result.Outputs.Summary)
			}
			if result.WorkflowInfo.Status != domain.WorkflowSuccess {
				return fmt.Errorf("workflow failed: %s", result.WorkflowInfo.ErrorMessage)
			}
			return nil
		},
	}

	root.Flags().StringVarP(&question, "question", "q", "", "question to answer about pipeline health (required)")
	root.Flags().StringVarP(&format, "output", "o", output.FormatJSON, "output format: json, yaml, or markdown")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "path to the config file")
	root.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress progress logging")
	root.Flags().BoolVar(&verbose, "verbose", false, "print the execution summary to stderr")
	_ = root.MarkFlagRequired("question")

	root.AddCommand(newStatusCmd(&configPath, &quiet))
	root.AddCommand(newHealthCmd(&configPath, &quiet))
	return root
}

func newStatusCmd(configPath *string, quiet *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Probe component wiring without running the workflow",
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := buildOrchestrator(*configPath, *quiet)
			if err != nil {
				return err
			}
			st := orch.Status()
			fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render("pipecheck components"))
			for name, ok := range st.Components {
				mark := successStyle.Render("ok")
				if !ok {
					mark = errStyle.Render("missing")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %-14s %s\n", name, mark)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ready: %t (version %s)\n", st.Ready, st.Version)
			return nil
		},
	}
}

func newHealthCmd(configPath *string, quiet *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Run the workflow and print a one-line health verdict",
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := buildOrchestrator(*configPath, *quiet)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), orch.QuickHealthCheck(cmd.Context()))
			return nil
		},
	}
}

// buildOrchestrator loads config, validates the AI settings, and wires the
// provider registry, analyzer, and reporter.
func buildOrchestrator(configPath string, quiet bool) (*orchestrator.Orchestrator, error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
	}

	ai, err := azure.New(cfg.Azure, "")
	if err != nil {
		return nil, err
	}

	registry := provider.NewRegistry()
	registry.Register("bamboo", provider.DataSource{
		Plans: bamboo.NewAdapter(),
		Logs:  logstore.NewAdapter(),
	})
	source, err := registry.Resolve("bamboo")
	if err != nil {
		return nil, err
	}

	var logger *slog.Logger
	if !quiet {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	an := analyzer.New(ai, cfg.Azure.AssistantID)
	rep := report.New(ai, cfg.Azure.ReportingAssistantID)
	return orchestrator.New(source, an, rep, logger), nil
}

func printExecutionSummary(w io.Writer, s domain.ExecutionSummary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Execution summary"))
	fmt.Fprintf(w, "  %s\n", s.QuickSummary)
	fmt.Fprintf(w, "  pipelines analyzed: %d\n", s.PipelinesAnalyzed)
	fmt.Fprintf(w, "  runs analyzed:      %d\n", s.TotalRunsAnalyzed)
	fmt.Fprintf(w, "  errors found:       %d\n", s.TotalErrorsFound)
	fmt.Fprintf(w, "  critical issues:    %d\n", s.CriticalIssues)
	fmt.Fprintf(w, "  success rate:       %.1f%%\n", s.PerformanceMetrics.SuccessRatePercent)
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("  completed in %.2fs", s.ExecutionTimeSeconds)))
}
