// Package screen holds the per-screen view state and the controllers that drive one
// fetch or submit cycle against the record API.
//
// A controller and its State live for exactly one screen activation (one inbound
// request) and are discarded afterwards, so nothing carries over between screens.
package screen

import (
	"log/slog"

	"recordweb/internal/client"
	"recordweb/internal/model"
)

// Phase is the lifecycle position of a screen.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseSubmitting
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseSubmitting:
		return "submitting"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

const (
	// ServerErrorAlert is shown for every failed request.
	ServerErrorAlert = "Server Error"
	// ConfirmDeletePrompt is the question asked before a delete is issued.
	ConfirmDeletePrompt = "Are you sure to delete?"
	// EmptyListPlaceholder is rendered in place of rows when the list is empty.
	EmptyListPlaceholder = "No Data Found"
)

// State is the mutable view state of one screen.
type State struct {
	Phase   Phase
	Record  model.Record
	Records []model.Record
	// Alert is the message surfaced to the user, if any.
	Alert string
	Err   error
}

// Failed reports whether the last request of the screen failed.
func (s *State) Failed() bool { return s.Phase == PhaseError }

// base carries what every controller needs.
type base struct {
	client   client.Client
	resource model.Resource
	log      *slog.Logger
	state    *State
}

func newBase(c client.Client, res model.Resource, log *slog.Logger) base {
	if log == nil {
		log = slog.Default()
	}
	return base{
		client:   c,
		resource: res,
		log:      log,
		state:    &State{Phase: PhaseLoading, Record: model.NewRecord(res), Records: []model.Record{}},
	}
}

// State returns the screen state for rendering.
func (b *base) State() *State { return b.state }

func (b *base) fail(op string, err error) {
	b.state.Phase = PhaseError
	b.state.Err = err
	b.state.Alert = ServerErrorAlert
	b.log.Warn("record api request failed",
		"resource", b.resource.Name,
		"op", op,
		"status", client.StatusCode(err),
		"error", err.Error(),
	)
}

// bindFields writes every declared field of res into rec using get.
func bindFields(res model.Resource, rec *model.Record, get func(key string) string) {
	for _, f := range res.Fields {
		rec.Set(f.Key, get(f.Key))
	}
}
