package service

import (
	"context"
	"log"

	"lenspost/internal/app/authz"
	"lenspost/internal/common"
)

// CascadeStep is one store call in an ordered cascade. Best-effort
// steps (media and cache cleanup) are logged and skipped on failure;
// record deletions are fatal.
type CascadeStep struct {
	Name       string
	BestEffort bool
	Run        func(ctx context.Context) error
}

// CascadePlan is the ordered list of steps a destructive operation
// will attempt. Plans are built before anything is mutated, so tests
// can assert the steps without executing them.
type CascadePlan struct {
	Steps []CascadeStep
}

func (p *CascadePlan) add(steps ...CascadeStep) {
	p.Steps = append(p.Steps, steps...)
}

func (p *CascadePlan) StepNames() []string {
	names := make([]string, len(p.Steps))
	for i, step := range p.Steps {
		names[i] = step.Name
	}
	return names
}

// Execute runs the steps in order. A best-effort failure is logged and
// the cascade continues; a fatal failure stops it, so partial
// completion is never reported as success.
func (p *CascadePlan) Execute(ctx context.Context) error {
	for _, step := range p.Steps {
		if err := step.Run(ctx); err != nil {
			if step.BestEffort {
				log.Printf("cascade step %q failed (non-fatal): %v", step.Name, err)
				continue
			}
			return common.Errorf("cascade step %q: %w", step.Name, err)
		}
	}
	return nil
}

// decisionErr translates a denial into the error taxonomy. Allowed
// decisions yield nil.
func decisionErr(d authz.Decision) error {
	if d.Allowed {
		return nil
	}
	if d.Reason == authz.ReasonUnauthenticated {
		return common.Errorf("authentication required: %w", common.ErrUnauthorized)
	}
	return common.Errorf("access denied, not allowed: %w", common.ErrForbidden)
}
