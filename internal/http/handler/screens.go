package handler

import (
	"log/slog"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"recordweb/internal/model"
	"recordweb/internal/screen"
	"recordweb/internal/view"
)

// page renders one screen. Screen failures still render with 200: the alert banner
// carries the error and the screen keeps its prior state.
func page(c *fiber.Ctx, name string, res model.Resource, st *screen.State, extra fiber.Map) error {
	data := fiber.Map{
		"Title":    res.Title + "s",
		"Nav":      navFromCtx(c),
		"Resource": res,
		"State":    st,
		"Alert":    st.Alert,
		"Failed":   st.Failed(),
	}
	for k, v := range extra {
		data[k] = v
	}
	return c.Render(name, data, view.Layout)
}

// routeID returns the :id segment as the API knows it. Links escape ids, so the raw
// segment is unescaped exactly once here.
func routeID(c *fiber.Ctx) (string, error) {
	id, err := url.PathUnescape(c.Params("id"))
	if err != nil {
		return "", fiber.ErrBadRequest
	}
	return id, nil
}

func formValues(c *fiber.Ctx) func(string) string {
	return func(key string) string { return c.FormValue(key) }
}

func listPage(c *fiber.Ctx, res model.Resource, st *screen.State) error {
	return page(c, "list", res, st, fiber.Map{
		"Placeholder": screen.EmptyListPlaceholder,
		"Colspan":     len(res.Fields) + 2,
	})
}

func createPage(c *fiber.Ctx, res model.Resource, st *screen.State) error {
	return page(c, "form", res, st, fiber.Map{
		"Action":      res.CreatePath(),
		"Heading":     "Add " + res.Title,
		"Submit":      "Create " + res.Title,
		"ButtonClass": "btn-primary",
	})
}

func editPage(c *fiber.Ctx, res model.Resource, id string, st *screen.State) error {
	return page(c, "form", res, st, fiber.Map{
		"Action":      res.EditPath(id),
		"Heading":     "Edit " + res.Title,
		"Submit":      "Update " + res.Title,
		"ButtonClass": "btn-warning",
	})
}

// ListScreen renders the collection, showing any flash message left by a redirect.
func ListScreen(s Screen, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		flash := takeFlash(c)
		lc := screen.NewListController(s.Client, s.Resource, log)
		if err := lc.Load(c.UserContext()); err == nil && flash != "" {
			lc.State().Alert = flash
		}
		return listPage(c, s.Resource, lc.State())
	}
}

// CreateForm renders an empty create form.
func CreateForm(s Screen, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cc := screen.NewCreateController(s.Client, s.Resource, log)
		return createPage(c, s.Resource, cc.State())
	}
}

// CreateSubmit posts the form and redirects to the list on success.
func CreateSubmit(s Screen, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cc := screen.NewCreateController(s.Client, s.Resource, log)
		cc.Bind(formValues(c))
		target, err := cc.Submit(c.UserContext())
		if err != nil {
			return createPage(c, s.Resource, cc.State())
		}
		setFlash(c, cc.State().Alert)
		return c.Redirect(target, fiber.StatusSeeOther)
	}
}

// ViewScreen renders one record read-only.
func ViewScreen(s Screen, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := routeID(c)
		if err != nil {
			return err
		}
		vc := screen.NewViewController(s.Client, s.Resource, log)
		_ = vc.Load(c.UserContext(), id)
		return page(c, "view", s.Resource, vc.State(), nil)
	}
}

// EditForm renders the edit form prefilled from the API.
func EditForm(s Screen, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := routeID(c)
		if err != nil {
			return err
		}
		ec := screen.NewEditController(s.Client, s.Resource, id, log)
		_ = ec.Load(c.UserContext())
		return editPage(c, s.Resource, id, ec.State())
	}
}

// EditSubmit sends the full record and redirects to the list on success.
func EditSubmit(s Screen, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := routeID(c)
		if err != nil {
			return err
		}
		ec := screen.NewEditController(s.Client, s.Resource, id, log)
		ec.Bind(formValues(c))
		target, err := ec.Submit(c.UserContext())
		if err != nil {
			return editPage(c, s.Resource, id, ec.State())
		}
		setFlash(c, ec.State().Alert)
		return c.Redirect(target, fiber.StatusSeeOther)
	}
}

// DeleteConfirm asks for confirmation before deleting.
func DeleteConfirm(s Screen, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := routeID(c)
		if err != nil {
			return err
		}
		lc := screen.NewListController(s.Client, s.Resource, log)
		prompt := lc.ConfirmDelete(id)
		return page(c, "confirm", s.Resource, lc.State(), fiber.Map{
			"Prompt": prompt,
			"Action": s.Resource.DeletePath(id),
		})
	}
}

// DeleteSubmit deletes the record. Success redirects to the list with the server message;
// failure renders the re-read list with the error banner.
func DeleteSubmit(s Screen, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := routeID(c)
		if err != nil {
			return err
		}
		lc := screen.NewListController(s.Client, s.Resource, log)
		if err := lc.Remove(c.UserContext(), id); err != nil {
			return listPage(c, s.Resource, lc.State())
		}
		setFlash(c, lc.State().Alert)
		return c.Redirect(s.Resource.ListPath(), fiber.StatusSeeOther)
	}
}
