package screen

import (
	"context"
	"log/slog"

	"recordweb/internal/client"
	"recordweb/internal/model"
)

// ViewController drives the read-only detail screen.
type ViewController struct {
	base
}

// NewViewController creates a detail screen with an empty record.
func NewViewController(c client.Client, res model.Resource, log *slog.Logger) *ViewController {
	return &ViewController{base: newBase(c, res, log)}
}

// Load fetches id. On failure the screen keeps its empty record.
func (v *ViewController) Load(ctx context.Context, id string) error {
	v.state.Phase = PhaseLoading
	rec, err := v.client.Get(ctx, id)
	if err != nil {
		v.fail("get", err)
		return err
	}
	v.state.Record = rec
	v.state.Phase = PhaseReady
	return nil
}
