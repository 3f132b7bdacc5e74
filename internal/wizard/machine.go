package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rmgen/internal/events"
	"rmgen/internal/metrics"
)

var (
	ErrIllegalTransition = errors.New("illegal step transition")
	ErrMissingToken      = errors.New("github access token not found")
	ErrMissingCode       = errors.New("no authorization code found")
	ErrUnknownSection    = errors.New("unknown section")
)

// transitions lists, per step, the steps a view may move to. Reverse moves
// are included and never gated; forward moves are gated by the views.
var transitions = map[Step][]Step{
	StepLanding:      {StepSetup, StepAuthCallback},
	StepAuthCallback: {StepSelectRepo, StepLanding},
	StepSelectRepo:   {StepSetup, StepLanding},
	StepSetup:        {StepSections, StepLanding},
	StepSections:     {StepContent, StepSetup},
	StepContent:      {StepPreview, StepSections},
	StepPreview:      {StepContent},
}

// CanTransition reports whether the machine permits moving from one step to
// another. Staying on the same step is always allowed.
func CanTransition(from, to Step) bool {
	if from == to {
		return to.Valid()
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsBackward reports whether to precedes from in the linear part of the flow.
func IsBackward(from, to Step) bool {
	order := map[Step]int{StepLanding: 0, StepSetup: 1, StepSections: 2, StepContent: 3, StepPreview: 4}
	f, okFrom := order[from]
	t, okTo := order[to]
	return okFrom && okTo && t < f
}

// NeedsResetConfirmation reports whether resetting from step would throw
// away progress and so must be confirmed first.
func NeedsResetConfirmation(step Step) bool {
	return step != StepLanding
}

// Navigator moves a store's aggregate between steps.
type Navigator struct {
	store StateStore
}

func NewNavigator(store StateStore) *Navigator {
	return &Navigator{store: store}
}

// GoTo moves the aggregate to step, applying extra in the same revision. It
// fails with ErrIllegalTransition for moves the machine does not know and
// with ErrMissingToken when entering selectRepo without a token.
func (n *Navigator) GoTo(ctx context.Context, step Step, extra Patch) error {
	_, err := n.GoToWhen(ctx, step, nil, extra)
	return err
}

// GoToWhen is GoTo guarded by a predicate on the latest revision. A rejected
// guard reports false without error so late responses are dropped quietly.
func (n *Navigator) GoToWhen(ctx context.Context, step Step, guard func(State) bool, extra Patch) (bool, error) {
	var from Step
	var refused error
	applied, err := n.store.UpdateWhen(ctx, func(current State) bool {
		from = current.CurrentStep
		if guard != nil && !guard(current) {
			return false
		}
		if !CanTransition(from, step) {
			refused = fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, step)
			return false
		}
		if step == StepSelectRepo {
			token := current.GitHubAccessToken
			if extra.GitHubAccessToken.IsSet() {
				token = extra.GitHubAccessToken.Value()
			}
			if strings.TrimSpace(token) == "" {
				refused = ErrMissingToken
				return false
			}
		}
		return true
	}, extra.withStep(step))
	if err != nil {
		return false, err
	}
	if refused != nil {
		return false, refused
	}
	if applied && from != step {
		metrics.ObserveTransition(string(from), string(step))
		events.Emit(ctx, events.WizardTransition, events.NewInfo(fmt.Sprintf("step %s -> %s", from, step)))
	}
	return applied, nil
}

// Back moves to an earlier step of the linear flow without any gating.
func (n *Navigator) Back(ctx context.Context, step Step) error {
	from := n.store.Read().CurrentStep
	if !IsBackward(from, step) {
		return fmt.Errorf("%w: %s -> %s is not a backward move", ErrIllegalTransition, from, step)
	}
	return n.GoTo(ctx, step, Patch{})
}
