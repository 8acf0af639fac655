package solver

import (
	"fmt"
	"math/rand"

	"constellation/internal/app"
	"constellation/internal/domain"
)

// Agent is an automatic player that solves constellations.
type Agent struct {
	Name     string
	Strategy Strategy
}

// NewAgent builds an agent for the given level. Randomized levels are seeded
// with seed so runs are reproducible.
func NewAgent(name string, level Level, seed int64) (*Agent, error) {
	strategy, err := NewStrategy(level, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	return &Agent{Name: name, Strategy: strategy}, nil
}

// Step is one click the agent performed and the events it produced.
type Step struct {
	Click  domain.Point
	Events []app.Event
}

// Solve plays the agent's plan against sess through svc. onStep, if set, is
// called after every click. It returns the number of clicks used.
func (a *Agent) Solve(svc *app.Service, sess *domain.Session, onStep func(Step)) (int, error) {
	if sess == nil {
		return 0, app.ErrNoSession
	}

	plan := a.Strategy.Plan(sess.Constellation, sess.PickRadius)
	for i, p := range plan {
		events, err := svc.ClickStar(sess, p)
		if err != nil {
			return i, err
		}
		if onStep != nil {
			onStep(Step{Click: p, Events: events})
		}
	}

	if !sess.Completed {
		return len(plan), fmt.Errorf("agent %s left %s unsolved", a.Name, sess.Constellation.ID)
	}
	return len(plan), nil
}
