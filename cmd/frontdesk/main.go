package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinicdesk/frontdesk/internal/auth"
	billingapi "github.com/clinicdesk/frontdesk/internal/billing/api"
	billinginfra "github.com/clinicdesk/frontdesk/internal/billing/infrastructure"
	"github.com/clinicdesk/frontdesk/internal/catalog"
	"github.com/clinicdesk/frontdesk/internal/expense"
	"github.com/clinicdesk/frontdesk/internal/patient"
	"github.com/clinicdesk/frontdesk/internal/report"
	sharedauth "github.com/clinicdesk/frontdesk/internal/shared/auth"
	"github.com/clinicdesk/frontdesk/internal/shared/config"
	"github.com/clinicdesk/frontdesk/internal/shared/database"
	"github.com/clinicdesk/frontdesk/internal/shared/metrics"
	appmiddleware "github.com/clinicdesk/frontdesk/internal/shared/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Billing writes through the database on every request, so there is
	// no degraded mode without it.
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db.Pool); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	patientRepo := patient.NewRepository(db.Pool)
	catalogRepo := catalog.NewRepository(db.Pool, cfg.Billing.AllowNegativeStock)
	billRepo := billinginfra.NewPostgresRepository(db.Pool, catalogRepo)
	expenseRepo := expense.NewRepository(db.Pool)
	reportRepo := report.NewRepository(db.Pool)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmiddleware.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(appmiddleware.SecurityHeaders)
	r.Use(appmiddleware.RateLimiter(50, 100))
	r.Use(metrics.Middleware)
	r.Use(corsMiddleware)

	// Health checks (unauthenticated)
	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(db))
	r.Handle("/metrics", metrics.Handler())

	r.Get("/", infoHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", auth.NewHandler(cfg.Auth).Routes())

		r.Group(func(r chi.Router) {
			// Dev mode skips auth so the UI can be exercised without a login
			if cfg.Server.Env == "production" {
				r.Use(sharedauth.Middleware(cfg.Auth))
			}

			patientHandler := patient.NewHandler(patientRepo)
			r.Mount("/", patientHandler.Routes())

			catalogHandler := catalog.NewHandler(catalogRepo)
			r.Mount("/medicines", catalogHandler.MedicineRoutes())
			r.Mount("/treatments", catalogHandler.TreatmentRoutes())

			r.Mount("/bills", billingapi.NewHandler(billRepo).Routes())
			r.Mount("/expenses", expense.NewHandler(expenseRepo).Routes())

			reportHandler := report.NewHandler(reportRepo)
			r.Mount("/reports", reportHandler.Routes())
			r.Mount("/dashboard", reportHandler.DashboardRoutes())
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("server shutdown error: %v", err)
		}
		close(done)
	}()

	log.Printf("clinic front desk listening on :%d (env: %s)", cfg.Server.Port, cfg.Server.Env)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}

	<-done
	log.Println("server stopped")
}

func infoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":    "Clinic Front Desk",
		"version": "1.0.0",
		"docs":    "/api/v1",
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func readyHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{"server": "ready"}

		if err := db.Health(r.Context()); err != nil {
			checks["database"] = "not ready: " + err.Error()
		} else {
			checks["database"] = "ready"
		}

		allReady := true
		for _, status := range checks {
			if status != "ready" {
				allReady = false
				break
			}
		}

		status := http.StatusOK
		if !allReady {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"status": map[bool]string{true: "ready", false: "not ready"}[allReady],
			"checks": checks,
		})
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
