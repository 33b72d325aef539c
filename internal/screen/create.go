package screen

import (
	"context"
	"log/slog"

	"recordweb/internal/client"
	"recordweb/internal/model"
)

// CreateController drives the create form.
type CreateController struct {
	base
}

// NewCreateController creates a form whose fields are all empty strings.
func NewCreateController(c client.Client, res model.Resource, log *slog.Logger) *CreateController {
	cc := &CreateController{base: newBase(c, res, log)}
	cc.state.Phase = PhaseReady
	return cc
}

// SetField writes value into a declared field. Unknown keys are ignored.
func (cc *CreateController) SetField(key, value string) {
	if cc.resource.HasField(key) {
		cc.state.Record.Set(key, value)
	}
}

// Bind copies every declared field from get, typically a form lookup.
func (cc *CreateController) Bind(get func(key string) string) {
	bindFields(cc.resource, &cc.state.Record, get)
}

// Submit posts the record as-is. On success the state holds the stored record and the
// list route is returned; on failure the form keeps its values.
func (cc *CreateController) Submit(ctx context.Context) (string, error) {
	cc.state.Phase = PhaseSubmitting
	res, err := cc.client.Create(ctx, cc.state.Record)
	if err != nil {
		cc.fail("create", err)
		return "", err
	}
	cc.state.Record = res.Record
	cc.state.Alert = res.Message
	cc.state.Phase = PhaseReady
	return cc.resource.ListPath(), nil
}
