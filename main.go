package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/tbanek/hoist/app"
	"github.com/tbanek/hoist/config"
	"github.com/tbanek/hoist/host"
	"github.com/tbanek/hoist/httpscope"
	"github.com/tbanek/hoist/modules"
)

func main() {
	reg := host.NewRegistry().Install(
		modules.ConfigModule{},
		modules.LoggingModule{},
		app.Services{},
	)

	h, err := host.Initialize(reg)
	if err != nil {
		log.Fatalf("host: %v", err)
	}
	defer func() { _ = h.Close() }()

	cfg := host.MustGet[*config.Config](h)
	logger := host.MustGet[*zap.Logger](h)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpscope.Middleware(h))

	r.Get("/users", listUsers)
	r.Post("/users", createUser)
	r.Get("/content", listContent)

	addr := ":" + cfg.App.Port
	logger.Info("listening",
		zap.String("app", cfg.App.Name),
		zap.String("addr", addr),
		zap.String("env", cfg.App.Env))
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func listUsers(w http.ResponseWriter, r *http.Request) {
	tracer, err := httpscope.Get[*app.RequestTracer](r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer tracer.Done("list users")

	store, err := httpscope.Get[*app.UserStore](r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	users, err := store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users, "trace_id": tracer.TraceID})
}

func createUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	store, err := httpscope.Get[*app.UserStore](r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	user, err := store.Create(body.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func listContent(w http.ResponseWriter, r *http.Request) {
	// Singletons resolve through a request scope too; the instance is the
	// shared one from the root scope.
	catalog, err := httpscope.Get[*app.ContentCatalog](r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"content": catalog.Entries()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
