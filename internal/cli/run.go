package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ideaforge/ideaforge/internal/config"
	"github.com/ideaforge/ideaforge/internal/llm"
	"github.com/ideaforge/ideaforge/internal/memory"
	"github.com/ideaforge/ideaforge/internal/pipeline"
	"github.com/ideaforge/ideaforge/internal/safety"
)

var (
	runAll   bool
	runFocus string
)

var runCmd = &cobra.Command{
	Use:   "run [phase]",
	Short: "Run the pipeline",
	Long: `Run a single pipeline phase, or all phases in order with --all.

Each phase generates ideas, judges them against the phase gate, and
archives the failures. The run stops early on a budget breach, a loop
escalation, or a phase where nothing passes.

Examples:
  ideaforge run ideation
  ideaforge run ideation --focus "developer tools"
  ideaforge run --all --focus "healthcare"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().BoolVar(&runAll, "all", false, "run all phases in order")
	runCmd.Flags().StringVar(&runFocus, "focus", "", "domain focus for idea generation")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	if !runAll && len(args) == 0 {
		return fmt.Errorf("specify a phase or use --all")
	}

	var phase pipeline.Phase
	if len(args) == 1 {
		var ok bool
		phase, ok = parsePhase(args[0])
		if !ok {
			return fmt.Errorf("unknown phase %q (valid: %v)", args[0], pipeline.Phases())
		}
	}

	ctx := context.Background()

	monitor, err := buildMonitor()
	if err != nil {
		return err
	}

	var memorySink memory.Sink
	if dbClient != nil {
		memorySink = dbClient
	}
	engine := memory.NewEngine(memory.EngineConfig{Sink: memorySink, Logger: logger})

	generator, err := llm.NewGenerator(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init generator: %w", err)
	}
	evaluator, err := llm.NewEvaluator(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init evaluator: %w", err)
	}

	var ideaSink pipeline.IdeaSink
	if dbClient != nil {
		ideaSink = dbClient
	}
	controller := pipeline.NewController(pipeline.ControllerConfig{
		Safety:    monitor,
		Memory:    engine,
		Generator: generator,
		Evaluator: evaluator,
		Sink:      ideaSink,
		Logger:    logger,
	})

	saveSession(ctx, controller, string(safety.StatusRunning))

	var results []pipeline.PhaseResult
	if runAll {
		results = controller.ExecuteAll(ctx, runFocus)
	} else {
		results = append(results, controller.ExecutePhase(ctx, phase, runFocus))
	}

	finalStatus := string(safety.StatusCompleted)
	if monitor.Status() != safety.StatusRunning {
		finalStatus = string(monitor.Status())
	}
	saveSession(ctx, controller, finalStatus)

	printResults(results)
	fmt.Println()
	fmt.Println(controller.Summary())
	fmt.Println()
	fmt.Println(engine.Summary())
	return nil
}

// buildMonitor assembles the safety monitor from configuration,
// applying the pricing file overrides when one is configured.
func buildMonitor() (*safety.Monitor, error) {
	ledgerCfg := safety.LedgerConfig{BudgetUSD: cfg.BudgetUSD}

	if cfg.PricingFile != "" {
		pricing, err := config.LoadPricing(cfg.PricingFile)
		if err != nil {
			return nil, err
		}
		if pricing.BudgetUSD > 0 {
			ledgerCfg.BudgetUSD = pricing.BudgetUSD
		}
		if len(pricing.Models) > 0 {
			table := make(map[string]safety.Price, len(pricing.Models))
			for model, pair := range pricing.Models {
				table[model] = safety.Price{Input: pair.Input, Output: pair.Output}
			}
			ledgerCfg.Pricing = table
		}
		if pricing.Default != nil {
			ledgerCfg.Fallback = &safety.Price{Input: pricing.Default.Input, Output: pricing.Default.Output}
		}
	}

	var auditSink safety.AuditSink
	if dbClient != nil {
		auditSink = dbClient
	}
	return safety.NewMonitor(safety.MonitorConfig{
		Ledger:   safety.NewLedger(ledgerCfg),
		Detector: safety.NewLoopDetector(cfg.LoopThreshold, cfg.LoopWindowSize),
		Sink:     auditSink,
		Logger:   logger,
	}), nil
}

func saveSession(ctx context.Context, controller *pipeline.Controller, status string) {
	if dbClient == nil {
		return
	}
	run := controller.Run()
	if err := dbClient.SaveSession(ctx, run.SessionID, status, string(run.CurrentPhase)); err != nil {
		logger.Warn("failed to persist session", "error", err)
	}
}

func printResults(results []pipeline.PhaseResult) {
	theme := defaultTheme
	for _, res := range results {
		if res.Success {
			fmt.Printf("%s %-16s %d in, %d out  (%s)\n",
				theme.successStyle().Render("✓"),
				res.Phase, res.IdeasIn, res.IdeasOut,
				res.Duration.Round(time.Millisecond))
		} else {
			fmt.Printf("%s %-16s %s\n",
				theme.errorStyle().Render("✗"),
				res.Phase,
				theme.errorStyle().Render(res.Error))
		}
	}
}

func parsePhase(s string) (pipeline.Phase, bool) {
	for _, phase := range pipeline.Phases() {
		if string(phase) == s {
			return phase, true
		}
	}
	return "", false
}
