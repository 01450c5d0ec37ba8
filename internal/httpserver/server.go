package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/markdg/habit-hub/internal/blob"
	"github.com/markdg/habit-hub/internal/checklist"
	"github.com/markdg/habit-hub/internal/config"
	"github.com/markdg/habit-hub/internal/foodlog"
	"github.com/markdg/habit-hub/internal/plan"
	"github.com/markdg/habit-hub/internal/reports"
	"github.com/markdg/habit-hub/internal/storage"
	"github.com/markdg/habit-hub/internal/storage/memory"
	"github.com/markdg/habit-hub/internal/storage/postgres"
	"github.com/markdg/habit-hub/internal/week"
)

// Server представляет HTTP сервер
type Server struct {
	config  *config.Config
	mux     *http.ServeMux
	storage storage.Storage
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	// Инициализируем storage
	s.initStorage()

	// Регистрируем маршруты
	s.routes()
	return s
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Используется in-memory storage")
		s.storage = memory.New()
	} else {
		log.Println("Подключение к PostgreSQL...")
		ctx := context.Background()
		pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
		if err != nil {
			log.Printf("Ошибка подключения к PostgreSQL: %v", err)
			log.Println("Fallback на in-memory storage")
			s.storage = memory.New()
		} else {
			log.Println("PostgreSQL подключен успешно")
			s.storage = pgStorage
		}
	}
}

// routes регистрирует маршруты
func (s *Server) routes() {
	// Health check
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Plan API: resolve the active program once at startup, then serve and
	// swap it via the service.
	resolution := plan.Resolve(context.Background(), s.storage, log.Default())
	planService := plan.NewService(s.storage, resolution)

	// GET /v1/plan - active weekly program
	s.mux.HandleFunc("GET /v1/plan", plan.HandleGet(planService))

	// PUT /v1/plan - publish a new active plan
	s.mux.HandleFunc("PUT /v1/plan", plan.HandleUpdate(planService))

	// Checklist API
	checklistService := checklist.NewService(s.storage, planService)

	// GET /v1/checklist/day - day program joined with completions
	s.mux.HandleFunc("GET /v1/checklist/day", checklist.HandleDay(checklistService))

	// GET /v1/checklist/completions - raw completion records in a range
	s.mux.HandleFunc("GET /v1/checklist/completions", checklist.HandleListCompletions(checklistService))

	// PUT /v1/checklist/completions - mark an item completed
	s.mux.HandleFunc("PUT /v1/checklist/completions", checklist.HandleSetCompletion(checklistService))

	// DELETE /v1/checklist/completions - clear a completion
	s.mux.HandleFunc("DELETE /v1/checklist/completions", checklist.HandleClearCompletion(checklistService))

	// Food log API
	foodService := foodlog.NewService(s.storage)

	// GET /v1/food - one day's entries, newest first
	s.mux.HandleFunc("GET /v1/food", foodlog.HandleList(foodService))

	// POST /v1/food - append an entry
	s.mux.HandleFunc("POST /v1/food", foodlog.HandleAppend(foodService))

	// GET /v1/food/range - entries grouped by date
	s.mux.HandleFunc("GET /v1/food/range", foodlog.HandleListRange(foodService))

	// Week API
	weekService := week.NewService(s.storage, s.storage, planService)

	// GET /v1/week/summary - aggregated week statistics
	s.mux.HandleFunc("GET /v1/week/summary", week.HandleSummary(weekService))

	// GET /v1/week/report - plain-text check-in report
	s.mux.HandleFunc("GET /v1/week/report", week.HandleReport(weekService))

	// Report archive API. Reports are the only blob consumer, so the
	// REPORTS_MODE override (if set) wins over BLOB_MODE directly.
	blobCfg := s.config.Blob
	blobCfg.Mode = blobCfg.EffectiveReportsMode()
	blobStore, blobMode, err := blob.NewBlobStore(blobCfg, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize reports store: %v", err)
	}
	log.Printf("INFO blob: reports blob mode: %s", blobMode)

	reportsService := reports.NewService(
		s.storage,
		weekService,
		blobStore,
		s.config.Blob.S3.PresignTTLSeconds,
		s.config.Blob.S3.PublicBaseURL,
		s.config.Blob.S3.PreferPublicURL,
		s.config.ReportsKeepPerWeek,
	)
	reportsHandler := reports.NewHandlers(reportsService, s.config.ReportsListLimit)

	// POST /v1/reports - archive the current check-in report
	s.mux.HandleFunc("POST /v1/reports", reportsHandler.HandleCreate)

	// GET /v1/reports - list archived reports
	s.mux.HandleFunc("GET /v1/reports", reportsHandler.HandleList)

	// GET /v1/reports/{id}/download - fetch the archived bytes
	s.mux.HandleFunc("GET /v1/reports/{id}/download", reportsHandler.HandleDownload)

	// DELETE /v1/reports/{id} - delete an archived report
	s.mux.HandleFunc("DELETE /v1/reports/{id}", reportsHandler.HandleDelete)
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Handler возвращает полный handler с middleware (для тестов)
func (s *Server) Handler() http.Handler {
	// Build middleware chain (outermost first): CORS → Rate Limit → Router
	var handler http.Handler = s.mux
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	handler := s.Handler()

	log.Printf("Сервер запущен на http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Plan API: http://localhost%s/v1/plan\n", addr)

	return http.ListenAndServe(addr, handler)
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
