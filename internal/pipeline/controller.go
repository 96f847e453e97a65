package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ideaforge/ideaforge/internal/memory"
	"github.com/ideaforge/ideaforge/internal/models"
	"github.com/ideaforge/ideaforge/internal/safety"
)

// generatorAgent is the agent name the controller books generation
// work under, in cost entries and loop checks alike.
const generatorAgent = "Visionary"

// Usage is the token consumption reported by a capability call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Generator produces a batch of product ideas for a phase. It is an
// external collaborator: a remote model behind a narrow interface.
type Generator interface {
	Generate(ctx context.Context, phase Phase, focus, knowledge string) (*models.IdeaBatch, Usage, error)
	Model() string
}

// Evaluator scores a batch of ideas against a gate threshold. It must
// run on a different underlying provider than the generator so scores
// are not self-reinforcing.
type Evaluator interface {
	Evaluate(ctx context.Context, batch *models.IdeaBatch, gateThreshold int) (*models.EvaluationReport, error)
}

// IdeaSink persists ideas as gate decisions are applied to them.
// Optional; sink failures are logged and never fail the phase.
type IdeaSink interface {
	SaveIdea(ctx context.Context, sessionID string, idea *models.ProductIdea) error
}

// PhaseResult is the outcome of running a single pipeline phase.
// The controller converts every failure into a PhaseResult; no error
// escapes its boundary.
type PhaseResult struct {
	Phase      Phase                    `json:"phase"`
	Success    bool                     `json:"success"`
	IdeasIn    int                      `json:"ideas_in"`
	IdeasOut   int                      `json:"ideas_out"`
	Evaluation *models.EvaluationReport `json:"evaluation,omitempty"`
	Error      string                   `json:"error,omitempty"`
	Duration   time.Duration            `json:"duration"`
}

// Run is the state of one complete pipeline execution. The controller
// owns it for the run's lifetime.
type Run struct {
	SessionID     string
	CurrentPhase  Phase
	PhaseResults  []PhaseResult
	ActiveIdeas   []*models.ProductIdea
	ArchivedIdeas []*models.ProductIdea
	StartedAt     time.Time
}

// ControllerConfig wires a controller's collaborators. Safety, Memory,
// Generator, and Evaluator are required; Sink and Logger are optional.
type ControllerConfig struct {
	Safety    *safety.Monitor
	Memory    *memory.Engine
	Generator Generator
	Evaluator Evaluator
	Sink      IdeaSink
	Logger    *slog.Logger
}

// Controller drives one phase of work at a time: generate, safety-check,
// evaluate against the gate, partition into advanced and archived, and
// report a PhaseResult. All collaborators are injected so multiple
// isolated pipelines can run in one process.
type Controller struct {
	safety    *safety.Monitor
	memory    *memory.Engine
	generator Generator
	evaluator Evaluator
	sink      IdeaSink
	logger    *slog.Logger
	run       *Run
}

// NewController creates a controller with a fresh run.
func NewController(cfg ControllerConfig) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sessionID := models.NewID()
	cfg.Safety.SetSession(sessionID)
	return &Controller{
		safety:    cfg.Safety,
		memory:    cfg.Memory,
		generator: cfg.Generator,
		evaluator: cfg.Evaluator,
		sink:      cfg.Sink,
		logger:    logger,
		run: &Run{
			SessionID:    sessionID,
			CurrentPhase: PhaseIdeation,
			StartedAt:    time.Now().UTC(),
		},
	}
}

// Run returns the controller's run state.
func (c *Controller) Run() *Run {
	return c.run
}

// ExecutePhase runs one phase end-to-end. It never returns an error:
// budget breaches, loop kills, capability failures, and anything else
// raised mid-phase fold into a failed PhaseResult.
func (c *Controller) ExecutePhase(ctx context.Context, phase Phase, focus string) (result PhaseResult) {
	start := time.Now()
	result = PhaseResult{Phase: phase}

	defer func() {
		result.Duration = time.Since(start)
		c.run.PhaseResults = append(c.run.PhaseResults, result)
	}()
	defer func() {
		// Nothing may propagate past the phase boundary, a panicking
		// collaborator included.
		if r := recover(); r != nil {
			result.Success = false
			result.Error = fmt.Sprintf("phase panicked: %v", r)
		}
	}()

	gate, ok := GateFor(phase)
	if !ok {
		result.Error = fmt.Sprintf("no gate defined for phase %q", phase)
		return result
	}

	if !c.safety.IsSafeToProceed() {
		result.Error = fmt.Sprintf("system status: %s", c.safety.Status())
		return result
	}

	c.logger.Info("phase started", "phase", phase, "session", c.run.SessionID)

	knowledge := c.memory.BuildContext(string(phase))
	batch, usage, err := c.generator.Generate(ctx, phase, focus, knowledge)
	if err != nil {
		result.Error = fmt.Sprintf("generation failed: %v", err)
		return result
	}
	batch.SessionID = c.run.SessionID
	result.IdeasIn = len(batch.Ideas)

	if err := c.safety.RecordCost(ctx, generatorAgent, c.generator.Model(),
		usage.InputTokens, usage.OutputTokens, string(phase)); err != nil {
		result.Error = err.Error()
		return result
	}

	for _, idea := range batch.Ideas {
		action, flagged := c.safety.CheckMessage(ctx, generatorAgent, idea.ElevatorPitch)
		if !flagged {
			continue
		}
		if action == safety.ActionKill {
			// Items already produced stay produced, but the rest of
			// the phase is abandoned.
			result.Error = "loop escalation killed the run"
			return result
		}
		c.logger.Warn("loop action for generated idea", "idea", idea.Name, "action", action)
	}

	evaluation, err := c.evaluator.Evaluate(ctx, batch, gate.MinJudgeScore)
	if err != nil {
		result.Error = fmt.Sprintf("evaluation failed: %v", err)
		return result
	}
	evaluation.SessionID = c.run.SessionID
	evaluation.GateThreshold = gate.MinJudgeScore
	result.Evaluation = evaluation

	var passed []*models.ProductIdea
	for _, idea := range batch.Ideas {
		score := evaluation.ScoreFor(idea.ID, idea.Name)
		if score != nil && score.PassGate {
			idea.Status = models.IdeaPassed
			passed = append(passed, idea)
			c.logger.Info("idea passed gate", "idea", idea.Name, "score", score.Overall)
		} else {
			// An idea with no matching score is an implicit fail,
			// never a pass.
			idea.Status = models.IdeaFailed
			c.run.ArchivedIdeas = append(c.run.ArchivedIdeas, idea)
			c.archiveFailure(ctx, idea, phase, score)
		}
		c.persistIdea(ctx, idea)
	}

	c.run.ActiveIdeas = passed
	c.run.CurrentPhase = phase

	result.IdeasOut = len(passed)
	result.Success = len(passed) > 0
	c.logger.Info("phase finished",
		"phase", phase,
		"ideas_in", result.IdeasIn,
		"ideas_out", result.IdeasOut,
		"success", result.Success,
	)
	return result
}

// ExecuteAll runs the remaining phases in order, stopping at the first
// failed phase. Phases execute strictly sequentially.
func (c *Controller) ExecuteAll(ctx context.Context, focus string) []PhaseResult {
	var results []PhaseResult
	for _, phase := range Phases() {
		res := c.ExecutePhase(ctx, phase, focus)
		results = append(results, res)
		if !res.Success {
			break
		}
	}
	return results
}

// Summary renders the current pipeline state for the operator.
func (c *Controller) Summary() string {
	return fmt.Sprintf(
		"Session: %s\nPhase: %s\nActive ideas: %d\nArchived ideas: %d\nSystem status: %s\nCost: %s",
		c.run.SessionID,
		c.run.CurrentPhase,
		len(c.run.ActiveIdeas),
		len(c.run.ArchivedIdeas),
		c.safety.Status(),
		c.safety.Ledger().Summary(),
	)
}

func (c *Controller) archiveFailure(ctx context.Context, idea *models.ProductIdea, phase Phase, score *models.IdeaScore) {
	detail := "no matching score from evaluator"
	judgeScore := 0
	if score != nil {
		detail = score.Reasoning
		judgeScore = score.Overall
	}
	c.memory.Archive(ctx, idea, c.run.SessionID, string(phase),
		failureReasonFor(phase), detail, judgeScore, nil, "")
	c.logger.Info("idea archived", "idea", idea.Name, "phase", phase, "score", judgeScore)
}

func (c *Controller) persistIdea(ctx context.Context, idea *models.ProductIdea) {
	if c.sink == nil {
		return
	}
	if err := c.sink.SaveIdea(ctx, c.run.SessionID, idea); err != nil {
		c.logger.Warn("failed to persist idea", "idea", idea.Name, "error", err)
	}
}

// failureReasonFor maps a gate failure at a phase to the root-cause
// category its graveyard entry is filed under.
func failureReasonFor(phase Phase) models.FailureReason {
	switch phase {
	case PhaseIdeation:
		return models.FailLowNovelty
	case PhaseMarketResearch:
		return models.FailInsufficientMarket
	case PhaseFeasibility, PhasePrototyping, PhaseTesting:
		return models.FailTechnicalBlocker
	case PhaseProductDesign:
		return models.FailDesignFlaw
	default:
		return models.FailUnclearValueProp
	}
}
