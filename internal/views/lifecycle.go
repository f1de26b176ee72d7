package views

import (
	"fmt"
	"slices"

	"github.com/FireRedDev/ebayklon/internal/catalogerrors"
)

// State is a step in the life of a view
type State string

const (
	Idle          State = "idle"
	Loading       State = "loading"
	Ready         State = "ready"
	Failed        State = "error"
	Submitting    State = "submitting"
	Succeeded     State = "succeeded"
	NavigatedAway State = "navigated-away"
)

var transitions = map[State][]State{
	Idle:       {Loading},
	Loading:    {Ready, Failed},
	Ready:      {Loading, Submitting, NavigatedAway},
	Failed:     {Loading, Submitting, NavigatedAway},
	Submitting: {Succeeded, Failed},
	Succeeded:  {NavigatedAway},
}

// Lifecycle tracks the state of one view and the states it went through
type Lifecycle struct {
	state State
	trail []State
}

func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: Idle, trail: []State{Idle}}
}

// To moves the view to next
func (l *Lifecycle) To(next State) error {
	if !slices.Contains(transitions[l.state], next) {
		return fmt.Errorf("views: %w: %s -> %s", catalogerrors.ErrInvalidTransition, l.state, next)
	}
	l.state = next
	l.trail = append(l.trail, next)
	return nil
}

func (l *Lifecycle) State() State {
	return l.state
}

// Trail returns every state the view has been in, oldest first
func (l *Lifecycle) Trail() []State {
	return slices.Clone(l.trail)
}

// settle ends a loading phase as ready or error
func (l *Lifecycle) settle(err error) error {
	if err != nil {
		if terr := l.To(Failed); terr != nil {
			return terr
		}
		return err
	}
	return l.To(Ready)
}
