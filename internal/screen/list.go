package screen

import (
	"context"
	"log/slog"

	"recordweb/internal/client"
	"recordweb/internal/model"
)

// ListController drives the list screen.
type ListController struct {
	base
}

// NewListController creates a list screen with an empty collection.
func NewListController(c client.Client, res model.Resource, log *slog.Logger) *ListController {
	return &ListController{base: newBase(c, res, log)}
}

// Load fetches the collection. Rows keep the order the server returned.
func (l *ListController) Load(ctx context.Context) error {
	l.state.Phase = PhaseLoading
	if err := l.fetch(ctx); err != nil {
		l.fail("list", err)
		return err
	}
	l.state.Phase = PhaseReady
	return nil
}

// Refresh re-reads the collection after a mutation. The current alert is kept.
func (l *ListController) Refresh(ctx context.Context) error {
	return l.Load(ctx)
}

// ConfirmDelete prepares the confirmation prompt for id without calling the API.
func (l *ListController) ConfirmDelete(id string) string {
	l.state.Record.ID = id
	l.state.Phase = PhaseReady
	return ConfirmDeletePrompt
}

// Delete removes id and then refreshes the collection. Nothing is removed locally.
func (l *ListController) Delete(ctx context.Context, id string) error {
	if err := l.Remove(ctx, id); err != nil {
		return err
	}
	return l.Refresh(ctx)
}

// Remove issues the delete and keeps the server message as the alert. Callers that
// navigate to the list afterwards use it instead of Delete. On failure the collection is
// still re-read so the screen shows what the server has.
func (l *ListController) Remove(ctx context.Context, id string) error {
	l.state.Phase = PhaseSubmitting
	msg, err := l.client.Delete(ctx, id)
	if err != nil {
		l.fail("delete", err)
		_ = l.fetch(ctx)
		return err
	}
	l.state.Alert = msg
	l.state.Phase = PhaseReady
	return nil
}

func (l *ListController) fetch(ctx context.Context) error {
	recs, err := l.client.List(ctx)
	if err != nil {
		return err
	}
	if recs == nil {
		recs = []model.Record{}
	}
	l.state.Records = recs
	return nil
}
