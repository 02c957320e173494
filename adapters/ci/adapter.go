// Package ci runs the price lookup step inside a GitHub Actions job.
// It translates step results into action outputs, annotations and exit codes.
package ci

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/go-github/v80/github"
	"github.com/sethvargo/go-githubactions"
	"go.uber.org/zap"

	"commodity-price/core/output"
	"commodity-price/core/pricing"
	"commodity-price/core/step"
	"commodity-price/internal/config"
	"commodity-price/internal/errors"
)

// OutputPrice is the output name declared in the action metadata
const OutputPrice = "price"

// Runner file command variables
const (
	EnvOutput      = "GITHUB_OUTPUT"
	EnvStepSummary = "GITHUB_STEP_SUMMARY"
)

// Conclusion mirrors a check run conclusion
type Conclusion string

const (
	ConclusionSuccess Conclusion = "success"
	ConclusionFailure Conclusion = "failure"
)

// Adapter runs one step invocation against the Actions host
type Adapter struct {
	config *config.Config
	step   *step.Step
	action *githubactions.Action
	logger *zap.Logger
}

// NewAdapter creates a CI adapter. A nil logger discards logs.
func NewAdapter(cfg *config.Config, s *step.Step, action *githubactions.Action, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		config: cfg,
		step:   s,
		action: action,
		logger: logger.With(zap.String("invocation_id", s.InvocationID())),
	}
}

// Result is the CI outcome of one invocation
type Result struct {
	// Success indicates the price was resolved and published
	Success bool `json:"success"`

	// ExitCode for the process
	ExitCode int `json:"exit_code"`

	// Conclusion for the check run
	Conclusion Conclusion `json:"check_conclusion"`

	// Price is the published output value
	Price string `json:"price,omitempty"`

	// Currency of Price
	Currency string `json:"currency,omitempty"`

	// Message is the failure reason shown to the user
	Message string `json:"message,omitempty"`

	// Event summarizes the triggering event, when one was available
	Event *EventSummary `json:"event,omitempty"`

	// Metadata
	Metadata RunMetadata `json:"metadata"`
}

// RunMetadata is execution context
type RunMetadata struct {
	InvocationID string    `json:"invocation_id"`
	Timestamp    time.Time `json:"timestamp"`
	Duration     string    `json:"duration"`
}

// EventSummary is the typed view of the triggering webhook payload
type EventSummary struct {
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	Repository string `json:"repository,omitempty"`
	Sender     string `json:"sender,omitempty"`
	Ref        string `json:"ref,omitempty"`
	Action     string `json:"action,omitempty"`
}

// Run executes the step and publishes its outcome
func (a *Adapter) Run(ctx context.Context) *Result {
	start := time.Now()

	res, err := a.step.Run(ctx, step.Inputs{
		Commodity: a.config.Inputs.Commodity,
		Currency:  a.config.Inputs.Currency,
	})
	if err != nil {
		return a.fail(err, start)
	}

	if err := a.publish(res.Quote.Output()); err != nil {
		return a.fail(err, start)
	}

	result := &Result{
		Success:    true,
		ExitCode:   0,
		Conclusion: ConclusionSuccess,
		Price:      res.Quote.Output(),
		Currency:   string(res.Quote.Currency),
		Metadata:   a.metadata(start),
	}

	result.Event = a.logEvent()
	a.writeSummary(res)

	return result
}

// publish sets the price output, or prints it when not running on a runner
func (a *Adapter) publish(price string) error {
	path, err := a.fileCommand(EnvOutput)
	switch {
	case err != nil:
		return errors.Internal("cannot write step output "+path, err)
	case path == "":
		a.logger.Debug(EnvOutput + " is not set, printing the output instead")
		a.action.Infof("%s=%s", OutputPrice, price)
	default:
		a.action.SetOutput(OutputPrice, price)
	}
	return nil
}

func (a *Adapter) writeSummary(res *step.Result) {
	path, err := a.fileCommand(EnvStepSummary)
	if err != nil {
		a.logger.Warn("skipping step summary", zap.String("path", path), zap.Error(err))
		return
	}
	if path == "" {
		return
	}
	if summary := a.summary(res); summary != "" {
		a.action.AddStepSummary(summary)
	}
}

// fileCommand returns the runner file named by env after checking it can be
// appended to. The action library panics on an unwritable file.
func (a *Adapter) fileCommand(env string) (string, error) {
	path := a.action.Getenv(env)
	if path == "" {
		return "", nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return path, err
	}
	return path, f.Close()
}

func (a *Adapter) fail(err error, start time.Time) *Result {
	reason := errors.Reason(err)
	a.logger.Error("price lookup failed",
		zap.String("error_type", errorType(err)),
		zap.String("reason", reason),
	)
	a.action.Errorf("%s", reason)

	return &Result{
		Success:    false,
		ExitCode:   1,
		Conclusion: ConclusionFailure,
		Message:    reason,
		Metadata:   a.metadata(start),
	}
}

func (a *Adapter) metadata(start time.Time) RunMetadata {
	return RunMetadata{
		InvocationID: a.step.InvocationID(),
		Timestamp:    time.Now().UTC(),
		Duration:     time.Since(start).String(),
	}
}

// logEvent logs the full triggering payload and returns its typed summary.
// A missing or unreadable payload is never fatal.
func (a *Adapter) logEvent() *EventSummary {
	ghctx, err := a.action.Context()
	if err != nil {
		a.logger.Warn("could not load the GitHub context", zap.Error(err))
		if ghctx == nil {
			return nil
		}
	}

	if ghctx.Event == nil {
		a.logger.Warn("no event payload available", zap.String("event_path", ghctx.EventPath))
		return nil
	}

	pretty, err := json.MarshalIndent(ghctx.Event, "", "  ")
	if err != nil {
		a.logger.Warn("could not encode event payload", zap.Error(err))
		return nil
	}
	a.logger.Info("The event payload",
		zap.String("event", ghctx.EventName),
		zap.String("payload", string(pretty)),
	)

	summary, err := summarize(ghctx.EventName, pretty)
	if err != nil {
		a.logger.Debug("event payload is not a known webhook type",
			zap.String("event", ghctx.EventName),
			zap.Error(err),
		)
		return &EventSummary{Name: ghctx.EventName}
	}

	a.logger.Info("triggering event",
		zap.String("event", summary.Name),
		zap.String("repository", summary.Repository),
		zap.String("sender", summary.Sender),
		zap.String("ref", summary.Ref),
	)
	return summary
}

type repoGetter interface {
	GetRepo() *github.Repository
}

type senderGetter interface {
	GetSender() *github.User
}

// summarize decodes a webhook payload into its go-github type
func summarize(eventName string, payload []byte) (*EventSummary, error) {
	event, err := github.ParseWebHook(eventName, payload)
	if err != nil {
		return nil, err
	}

	s := &EventSummary{
		Name: eventName,
		Type: strings.TrimPrefix(fmt.Sprintf("%T", event), "*github."),
	}

	switch e := event.(type) {
	case *github.PushEvent:
		s.Repository = e.GetRepo().GetFullName()
		s.Ref = e.GetRef()
	case *github.WorkflowDispatchEvent:
		s.Ref = e.GetRef()
	case *github.PullRequestEvent:
		s.Action = e.GetAction()
		s.Ref = e.GetPullRequest().GetHead().GetRef()
	}

	if r, ok := event.(repoGetter); ok {
		s.Repository = r.GetRepo().GetFullName()
	}
	if u, ok := event.(senderGetter); ok {
		s.Sender = u.GetSender().GetLogin()
	}
	return s, nil
}

func (a *Adapter) summary(res *step.Result) string {
	report := &output.Report{
		Title:  "Commodity price",
		AsOf:   res.Quote.AsOf,
		Quotes: []pricing.Quote{res.Quote},
	}

	var sb strings.Builder
	if err := (output.MarkdownFormatter{}).Render(&sb, report); err != nil {
		a.logger.Warn("could not render step summary", zap.Error(err))
		return ""
	}
	return sb.String()
}

func errorType(err error) string {
	for _, t := range []errors.Type{errors.TypeInvalidInput, errors.TypeNotFound, errors.TypeConfig, errors.TypeInternal} {
		if errors.IsType(err, t) {
			return string(t)
		}
	}
	return "UNKNOWN"
}
