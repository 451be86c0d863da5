package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ProductsAPI/pkg/kit"
)

const rootGreeting = "Hello World from Products API!"

type Server struct {
	Store     Store
	Validator *Validator
	Log       *zap.Logger
}

// Routes builds the service routes. protect wraps everything under /api;
// the root and probe endpoints stay open.
func (s *Server) Routes(protect ...func(http.Handler) http.Handler) http.Handler {
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	if s.Validator == nil {
		s.Validator = NewValidator()
	}

	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		kit.WriteError(w, r, s.Log, kit.NotFound("Route not found."))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		kit.WriteError(w, r, s.Log, kit.NewError(http.StatusMethodNotAllowed, "Method not allowed."))
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		kit.WriteText(w, http.StatusOK, rootGreeting)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.readyz)

	r.Route("/api", func(api chi.Router) {
		api.Use(protect...)
		api.Route("/products", s.productRoutes)
	})

	return r
}

// productRoutes registers the fixed segments (search, stats) before the
// {id} wildcard. chi already ranks static segments above parameters; the
// order keeps that precedence visible.
func (s *Server) productRoutes(r chi.Router) {
	h := func(fn kit.HandlerFunc) http.HandlerFunc { return kit.Handle(s.Log, fn) }

	r.Get("/", h(s.list))
	r.Post("/", h(s.create))

	r.Get("/search", h(s.search))
	r.Get("/stats", h(s.stats))

	r.Get("/{id}", h(s.get))
	r.Put("/{id}", h(s.update))
	r.Delete("/{id}", h(s.delete))
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.Log.Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, nil, kit.NewError(http.StatusServiceUnavailable, "Not ready."))
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) error {
	page, err := s.Store.List(r.Context(), listQuery(r.URL.Query()))
	if err != nil {
		return err
	}
	kit.WriteJSON(w, http.StatusOK, page)
	return nil
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) error {
	found, err := s.Store.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		return err
	}
	kit.WriteJSON(w, http.StatusOK, found)
	return nil
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) error {
	st, err := s.Store.Stats(r.Context())
	if err != nil {
		return err
	}
	kit.WriteJSON(w, http.StatusOK, st)
	return nil
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) error {
	p, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	kit.WriteJSON(w, http.StatusOK, p)
	return nil
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) error {
	body, err := decodeBody(r)
	if err != nil {
		return err
	}
	in, err := s.Validator.Create(body)
	if err != nil {
		return err
	}

	p, err := s.Store.Create(r.Context(), in)
	if err != nil {
		return err
	}

	s.Log.Info("product created", zap.String("id", p.ID), zap.String("category", p.Category))
	kit.WriteJSON(w, http.StatusCreated, p)
	return nil
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")

	body, err := decodeBody(r)
	if err != nil {
		return err
	}
	patch, err := s.Validator.Update(body)
	if err != nil {
		return err
	}

	p, err := s.Store.Update(r.Context(), id, patch)
	if err != nil {
		return err
	}

	s.Log.Info("product updated", zap.String("id", id))
	kit.WriteJSON(w, http.StatusOK, p)
	return nil
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")
	if err := s.Store.Delete(r.Context(), id); err != nil {
		return err
	}

	s.Log.Info("product deleted", zap.String("id", id))
	w.WriteHeader(http.StatusNoContent)
	return nil
}
