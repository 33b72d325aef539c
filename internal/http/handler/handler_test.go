package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"recordweb/internal/client"
	"recordweb/internal/client/clienttest"
	"recordweb/internal/client/mocks"
	"recordweb/internal/model"
	"recordweb/internal/view"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

var errUpstream = &client.RequestError{Method: "GET", URL: "http://api/students", StatusCode: http.StatusInternalServerError}

func newApp(t *testing.T, screens ...Screen) *fiber.App {
	t.Helper()
	engine, err := view.New()
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
		Views:        engine,
	})
	RegisterRoutes(app, screens, quiet)
	return app
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return req
}

func flashCookieOf(resp *http.Response) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == flashCookie {
			return ck
		}
	}
	return nil
}

func student(id, name, dept, email string) model.Record {
	r := model.NewRecord(model.Students)
	r.ID = id
	r.Set("name", name)
	r.Set("department", dept)
	r.Set("email", email)
	return r
}

func TestHealthCheck(t *testing.T) {
	mockClient := new(mocks.MockClient)
	app := fiber.New()
	app.Get("/health", HealthCheck([]Screen{{Resource: model.Students, Client: mockClient}}))

	t.Run("healthy", func(t *testing.T) {
		mockClient.On("Ping", mock.Anything).Return(nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res map[string]string
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "healthy", res["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		mockClient.On("Ping", mock.Anything).Return(errors.New("api down")).Once()

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "SERVICE_UNAVAILABLE", res.Error.Code)
	})

	mockClient.AssertExpectations(t)
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListScreen(t *testing.T) {
	t.Run("rows in server order", func(t *testing.T) {
		mockClient := new(mocks.MockClient)
		app := newApp(t, Screen{Resource: model.Students, Client: mockClient})
		mockClient.On("List", mock.Anything).
			Return([]model.Record{student("2", "Bo", "EE", "b@x.com"), student("1", "Ann", "CS", "a@x.com")}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/students/list", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		out := body(t, resp)
		assert.Less(t, strings.Index(out, `data-id="2"`), strings.Index(out, `data-id="1"`))
		assert.Contains(t, out, "a@x.com")
		assert.NotContains(t, out, "No Data Found")
		mockClient.AssertExpectations(t)
	})

	t.Run("empty list placeholder", func(t *testing.T) {
		mockClient := new(mocks.MockClient)
		app := newApp(t, Screen{Resource: model.Students, Client: mockClient})
		mockClient.On("List", mock.Anything).Return([]model.Record{}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body(t, resp), "No Data Found")
		mockClient.AssertExpectations(t)
	})

	t.Run("request failed", func(t *testing.T) {
		mockClient := new(mocks.MockClient)
		app := newApp(t, Screen{Resource: model.Students, Client: mockClient})
		mockClient.On("List", mock.Anything).Return(nil, errUpstream).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/students/list", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		out := body(t, resp)
		assert.Contains(t, out, "Server Error")
		assert.Contains(t, out, "alert-danger")
		mockClient.AssertExpectations(t)
	})
}

func TestCreateSubmit(t *testing.T) {
	t.Run("success redirects with flash", func(t *testing.T) {
		mockClient := new(mocks.MockClient)
		app := newApp(t, Screen{Resource: model.Students, Client: mockClient})
		mockClient.On("Create", mock.Anything, student("", "Ann", "CS", "a@x.com")).
			Return(&client.Result{Record: student("1", "Ann", "CS", "a@x.com"), Message: "Created"}, nil).Once()

		req := formRequest("/students/create", url.Values{"name": {"Ann"}, "department": {"CS"}, "email": {"a@x.com"}})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/students/list", resp.Header.Get("Location"))

		flash := flashCookieOf(resp)
		require.NotNil(t, flash)

		mockClient.On("List", mock.Anything).Return([]model.Record{student("1", "Ann", "CS", "a@x.com")}, nil).Once()
		next := httptest.NewRequest(http.MethodGet, "/students/list", nil)
		next.AddCookie(flash)
		resp, _ = app.Test(next)

		out := body(t, resp)
		assert.Contains(t, out, "Created")
		assert.Contains(t, out, "alert-success")
		mockClient.AssertExpectations(t)
	})

	t.Run("empty form still issues the request", func(t *testing.T) {
		mockClient := new(mocks.MockClient)
		app := newApp(t, Screen{Resource: model.Students, Client: mockClient})
		mockClient.On("Create", mock.Anything, student("", "", "", "")).
			Return(&client.Result{Record: student("1", "", "", "")}, nil).Once()

		resp, _ := app.Test(formRequest("/students/create", url.Values{}))

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		mockClient.AssertExpectations(t)
	})

	t.Run("failure keeps the form populated", func(t *testing.T) {
		mockClient := new(mocks.MockClient)
		app := newApp(t, Screen{Resource: model.Students, Client: mockClient})
		mockClient.On("Create", mock.Anything, mock.Anything).Return(nil, errUpstream).Once()

		req := formRequest("/students/create", url.Values{"name": {"Ann"}})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		out := body(t, resp)
		assert.Contains(t, out, "Server Error")
		assert.Contains(t, out, `value="Ann"`)
		mockClient.AssertExpectations(t)
	})
}

func TestCreateForm(t *testing.T) {
	mockClient := new(mocks.MockClient)
	app := newApp(t, Screen{Resource: model.Students, Client: mockClient})

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/students/create", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := body(t, resp)
	assert.Contains(t, out, "Create Student")
	assert.Contains(t, out, `placeholder="Please enter student name"`)
	assert.Contains(t, out, `type="email"`)
	mockClient.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestViewScreen(t *testing.T) {
	mockClient := new(mocks.MockClient)
	app := newApp(t, Screen{Resource: model.Students, Client: mockClient})

	t.Run("found", func(t *testing.T) {
		mockClient.On("Get", mock.Anything, "1").Return(student("1", "Ann", "CS", "a@x.com"), nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/students/view/1", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		out := body(t, resp)
		assert.Contains(t, out, "View Student")
		assert.Contains(t, out, "Ann")
	})

	t.Run("not found", func(t *testing.T) {
		mockClient.On("Get", mock.Anything, "9").Return(nil, errUpstream).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/students/view/9", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body(t, resp), "Server Error")
	})

	mockClient.AssertExpectations(t)
}

func TestEdit(t *testing.T) {
	t.Run("form is prefilled", func(t *testing.T) {
		mockClient := new(mocks.MockClient)
		app := newApp(t, Screen{Resource: model.Students, Client: mockClient})
		mockClient.On("Get", mock.Anything, "1").Return(student("1", "Ann", "CS", "a@x.com"), nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/students/edit/1", nil))

		out := body(t, resp)
		assert.Contains(t, out, `value="CS"`)
		assert.Contains(t, out, `action="/students/edit/1"`)
		assert.Contains(t, out, "Update Student")
		mockClient.AssertExpectations(t)
	})

	t.Run("submit sends full record", func(t *testing.T) {
		mockClient := new(mocks.MockClient)
		app := newApp(t, Screen{Resource: model.Students, Client: mockClient})
		want := student("1", "Ann", "Math", "a@x.com")
		mockClient.On("Update", mock.Anything, "1", want).
			Return(&client.Result{Record: want, Message: "Updated"}, nil).Once()

		req := formRequest("/students/edit/1", url.Values{"name": {"Ann"}, "department": {"Math"}, "email": {"a@x.com"}})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/students/list", resp.Header.Get("Location"))
		mockClient.AssertExpectations(t)
	})

	t.Run("submit failure", func(t *testing.T) {
		mockClient := new(mocks.MockClient)
		app := newApp(t, Screen{Resource: model.Students, Client: mockClient})
		mockClient.On("Update", mock.Anything, "1", mock.Anything).Return(nil, errUpstream).Once()

		req := formRequest("/students/edit/1", url.Values{"name": {"Ann"}})
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		out := body(t, resp)
		assert.Contains(t, out, "Server Error")
		assert.Contains(t, out, `value="Ann"`)
		mockClient.AssertExpectations(t)
	})
}

func TestDelete(t *testing.T) {
	t.Run("confirmation does not call the api", func(t *testing.T) {
		mockClient := new(mocks.MockClient)
		app := newApp(t, Screen{Resource: model.Students, Client: mockClient})

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/students/delete/1", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		out := body(t, resp)
		assert.Contains(t, out, "Are you sure to delete?")
		assert.Contains(t, out, `action="/students/delete/1"`)
		mockClient.AssertExpectations(t)
	})

	t.Run("success redirects to the list", func(t *testing.T) {
		mockClient := new(mocks.MockClient)
		app := newApp(t, Screen{Resource: model.Students, Client: mockClient})
		mockClient.On("Delete", mock.Anything, "1").Return("Student deleted successfully", nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/students/delete/1", nil))

		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/students/list", resp.Header.Get("Location"))
		flash := flashCookieOf(resp)
		require.NotNil(t, flash)
		mockClient.AssertNotCalled(t, "List", mock.Anything)

		mockClient.On("List", mock.Anything).Return([]model.Record{}, nil).Once()
		next := httptest.NewRequest(http.MethodGet, "/students/list", nil)
		next.AddCookie(flash)
		resp, _ = app.Test(next)

		out := body(t, resp)
		assert.Contains(t, out, "Student deleted successfully")
		assert.Contains(t, out, "No Data Found")
		mockClient.AssertExpectations(t)
	})

	t.Run("failure renders the unchanged list", func(t *testing.T) {
		mockClient := new(mocks.MockClient)
		app := newApp(t, Screen{Resource: model.Students, Client: mockClient})
		mockClient.On("Delete", mock.Anything, "9").Return("", errUpstream).Once()
		mockClient.On("List", mock.Anything).Return([]model.Record{student("1", "Ann", "CS", "a@x.com")}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/students/delete/9", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		out := body(t, resp)
		assert.Contains(t, out, "Server Error")
		assert.Contains(t, out, `data-id="1"`)
		assert.Nil(t, flashCookieOf(resp))
		mockClient.AssertExpectations(t)
	})
}

func TestOpaqueIDsRoundTrip(t *testing.T) {
	srv := clienttest.NewServer(model.Students)
	defer srv.Close()
	seeded := student("a b/é?", "Ann", "CS", "a@x.com")
	srv.Seed(seeded)
	app := newApp(t, Screen{Resource: model.Students, Client: client.New(srv.URL, model.Students)})

	escaped := "a%20b%2F%C3%A9%3F"

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/students/list", nil), -1)
	require.NoError(t, err)
	out := body(t, resp)
	assert.Contains(t, out, `href="/students/view/`+escaped+`"`)
	assert.Contains(t, out, `href="/students/edit/`+escaped+`"`)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/students/view/"+escaped, nil), -1)
	require.NoError(t, err)
	out = body(t, resp)
	assert.NotContains(t, out, "Server Error")
	assert.Contains(t, out, "Ann")

	req := formRequest("/students/edit/"+escaped, url.Values{"name": {"Ann"}, "department": {"Math"}, "email": {"a@x.com"}})
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/students/delete/"+escaped, nil), -1)
	require.NoError(t, err)
	assert.Contains(t, body(t, resp), `action="/students/delete/`+escaped+`"`)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/students/delete/"+escaped, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/students/list", nil), -1)
	require.NoError(t, err)
	assert.Contains(t, body(t, resp), "No Data Found")
}

func TestScenario_EndToEnd(t *testing.T) {
	srv := clienttest.NewServer(model.Students)
	defer srv.Close()
	app := newApp(t, Screen{Resource: model.Students, Client: client.New(srv.URL, model.Students)})

	req := formRequest("/students/create", url.Values{"name": {"Ann"}, "department": {"CS"}, "email": {"a@x.com"}})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/students/list", nil), -1)
	require.NoError(t, err)
	out := body(t, resp)
	assert.Equal(t, 1, strings.Count(out, "data-id="))
	assert.Contains(t, out, `data-id="1"`)

	// Deleting an id the server does not have leaves the list as it was.
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/students/delete/99", nil), -1)
	require.NoError(t, err)
	out = body(t, resp)
	assert.Contains(t, out, "Server Error")
	assert.Contains(t, out, `data-id="1"`)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/students/delete/1", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	next := httptest.NewRequest(http.MethodGet, "/students/list", nil)
	next.AddCookie(flashCookieOf(resp))
	resp, err = app.Test(next, -1)
	require.NoError(t, err)
	out = body(t, resp)
	assert.Contains(t, out, "Student deleted successfully")
	assert.NotContains(t, out, `data-id="1"`)
}

func TestCarsVariant(t *testing.T) {
	srv := clienttest.NewServer(model.Cars)
	defer srv.Close()
	car := model.NewRecord(model.Cars)
	car.Set("make", "Volvo")
	car.Set("model", "V70")
	srv.Seed(car)

	app := newApp(t,
		Screen{Resource: model.Students, Client: new(mocks.MockClient)},
		Screen{Resource: model.Cars, Client: client.New(srv.URL, model.Cars)},
	)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/car/view/1", nil), -1)
	require.NoError(t, err)
	out := body(t, resp)
	assert.Contains(t, out, "View Car")
	assert.Contains(t, out, "V70")
	assert.Contains(t, out, `href="/car/list"`)
}

func TestRouting(t *testing.T) {
	mockClient := new(mocks.MockClient)
	app := newApp(t, Screen{Resource: model.Students, Client: mockClient})

	t.Run("not found route as json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		req.Header.Set("Accept", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("not found route as html", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		req.Header.Set("Accept", "text/html")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body(t, resp), "resource not found")
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		req.Header.Set("Accept", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})
}
