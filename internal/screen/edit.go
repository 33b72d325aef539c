package screen

import (
	"context"
	"log/slog"

	"recordweb/internal/client"
	"recordweb/internal/model"
)

// EditController drives the edit form for one record.
type EditController struct {
	base
	id string
}

// NewEditController creates an edit form for the record id taken from the route.
func NewEditController(c client.Client, res model.Resource, id string, log *slog.Logger) *EditController {
	return &EditController{base: newBase(c, res, log), id: id}
}

// Load prefills the form from the server.
func (e *EditController) Load(ctx context.Context) error {
	e.state.Phase = PhaseLoading
	rec, err := e.client.Get(ctx, e.id)
	if err != nil {
		e.fail("get", err)
		return err
	}
	e.state.Record = rec
	e.state.Phase = PhaseReady
	return nil
}

// SetField writes value into a declared field. Unknown keys are ignored.
func (e *EditController) SetField(key, value string) {
	if e.resource.HasField(key) {
		e.state.Record.Set(key, value)
	}
}

// Bind copies every declared field from get, typically a form lookup.
func (e *EditController) Bind(get func(key string) string) {
	bindFields(e.resource, &e.state.Record, get)
	e.state.Phase = PhaseReady
}

// Submit sends the full record to replace the stored one and returns the list route.
func (e *EditController) Submit(ctx context.Context) (string, error) {
	e.state.Phase = PhaseSubmitting
	rec := e.state.Record
	if rec.ID == "" {
		rec.ID = e.id
	}
	res, err := e.client.Update(ctx, e.id, rec)
	if err != nil {
		e.fail("update", err)
		return "", err
	}
	e.state.Record = res.Record
	e.state.Alert = res.Message
	e.state.Phase = PhaseReady
	return e.resource.ListPath(), nil
}
