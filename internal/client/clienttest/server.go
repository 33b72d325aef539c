// Package clienttest provides an in-memory record API for tests.
package clienttest

import (
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"recordweb/internal/model"
)

// Server is a fake record API speaking the same envelopes as the real backend.
// IDs are assigned sequentially starting at 1; list order is insertion order.
type Server struct {
	URL string

	res  model.Resource
	ts   *httptest.Server
	mu   sync.Mutex
	next int
	ids  []string
	rows map[string]model.Record
	hits map[string]int
}

// NewServer starts a fake API for res. Call Close when done.
func NewServer(res model.Resource) *Server {
	s := &Server{
		res:  res,
		next: 1,
		rows: make(map[string]model.Record),
		hits: make(map[string]int),
	}

	// Params are stored in the map, so they must outlive the request.
	app := fiber.New(fiber.Config{Immutable: true})
	app.Use(func(c *fiber.Ctx) error {
		s.mu.Lock()
		s.hits[c.Method()]++
		s.mu.Unlock()
		return c.Next()
	})

	base := "/" + res.Name
	app.Get(base, s.list)
	app.Post(base, s.create)
	app.Get(base+"/:id", s.get)
	app.Put(base+"/:id", s.update)
	app.Delete(base+"/:id", s.delete)

	s.ts = httptest.NewServer(adaptor.FiberApp(app))
	s.URL = s.ts.URL
	return s
}

// Close shuts the server down.
func (s *Server) Close() { s.ts.Close() }

// Seed stores records as if they had been created, assigning IDs to those without one.
func (s *Server) Seed(recs ...model.Record) []model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, s.insert(r))
	}
	return out
}

// Hits returns how many requests used method.
func (s *Server) Hits(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method]
}

func (s *Server) insert(r model.Record) model.Record {
	r = r.Clone()
	if r.ID == "" {
		r.ID = strconv.Itoa(s.next)
		s.next++
	}
	if _, exists := s.rows[r.ID]; !exists {
		s.ids = append(s.ids, r.ID)
	}
	s.rows[r.ID] = r
	return r.Clone()
}

// pathID returns the unescaped :id segment.
func pathID(c *fiber.Ctx) string {
	id, err := url.PathUnescape(c.Params("id"))
	if err != nil {
		return c.Params("id")
	}
	return id
}

func (s *Server) notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": s.res.Title + " not found"})
}

func (s *Server) list(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Record, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.rows[id])
	}
	return c.JSON(out)
}

func (s *Server) get(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[pathID(c)]
	if !ok {
		return s.notFound(c)
	}
	return c.JSON(r)
}

func (s *Server) create(c *fiber.Ctx) error {
	var in model.Record
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	in.ID = ""

	s.mu.Lock()
	stored := s.insert(in)
	s.mu.Unlock()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      s.res.Title + " created successfully",
		s.res.Singular: stored,
	})
}

func (s *Server) update(c *fiber.Ctx) error {
	var in model.Record
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(c)
	if _, ok := s.rows[id]; !ok {
		return s.notFound(c)
	}
	in = in.Clone()
	in.ID = id
	s.rows[id] = in

	return c.JSON(fiber.Map{
		"message":      s.res.Title + " updated successfully",
		s.res.Singular: in,
	})
}

func (s *Server) delete(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := pathID(c)
	if _, ok := s.rows[id]; !ok {
		return s.notFound(c)
	}
	delete(s.rows, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return c.JSON(fiber.Map{"message": s.res.Title + " deleted successfully"})
}
