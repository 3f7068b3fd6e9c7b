// Package http exposes the expense ledger as a JSON REST API.
package http

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"homespend/internal/core"
	"homespend/internal/ledger"
	applog "homespend/internal/log"
	"homespend/internal/metrics"
	"homespend/internal/store"
)

type Server struct {
	http.Server

	expenses   *ledger.ExpenseRepository
	categories *ledger.CategoryRepository
	reporter   *ledger.Reporter
	rows       store.RowStore
	principal  core.Principal
	validate   *validator.Validate
	logger     *applog.Logger
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, rows store.RowStore, principal core.Principal, logger *applog.Logger) *Server {
	expenses := ledger.NewExpenseRepository(rows)

	s := &Server{
		expenses:   expenses,
		categories: ledger.NewCategoryRepository(rows),
		reporter:   ledger.NewReporter(expenses),
		rows:       rows,
		principal:  principal,
		validate:   validator.New(),
		logger:     logger.WithComponent(applog.ComponentHTTP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /expenses/init", s.route("/expenses/init", s.handleInit))
	mux.HandleFunc("GET /expenses", s.route("/expenses", s.handleListExpenses))
	mux.HandleFunc("POST /expenses", s.route("/expenses", s.handleCreateExpense))
	mux.HandleFunc("PUT /expenses/{id}", s.route("/expenses/{id}", s.handleUpdateExpense))
	mux.HandleFunc("DELETE /expenses/{id}", s.route("/expenses/{id}", s.handleDeleteExpense))

	mux.HandleFunc("GET /expenses/categories", s.route("/expenses/categories", s.handleListCategories))
	mux.HandleFunc("POST /expenses/categories", s.route("/expenses/categories", s.handleCreateCategory))
	mux.HandleFunc("PUT /expenses/categories/{name}", s.route("/expenses/categories/{name}", s.handleRenameCategory))
	mux.HandleFunc("DELETE /expenses/categories/{name}", s.route("/expenses/categories/{name}", s.handleDeleteCategory))

	mux.HandleFunc("POST /expenses/reclassify", s.route("/expenses/reclassify", s.handleReclassify))
	mux.HandleFunc("GET /expenses/summary", s.route("/expenses/summary", s.handleSummary))
	mux.HandleFunc("GET /expenses/report/monthly", s.route("/expenses/report/monthly", s.handleMonthlyReport))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.withObservability(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleInit seeds the store headers and default categories. Safe to call
// more than once.
func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	if err := ledger.Init(r.Context(), s.rows); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "store initialized",
	})
}
