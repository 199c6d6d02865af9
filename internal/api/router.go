package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hyeon/stockpilot/internal/api/handlers"
	"github.com/hyeon/stockpilot/pkg/logger"
)

// Handlers bundles the wired endpoint handlers
type Handlers struct {
	Report    *handlers.ReportHandler
	Chart     *handlers.ChartHandler
	Portfolio *handlers.PortfolioHandler
	Glossary  *handlers.GlossaryHandler
	Averaging *handlers.AveragingHandler
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// REST API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/report/{ticker}", h.Report.GetReport).Methods("GET")
	api.HandleFunc("/chart/{ticker}", h.Chart.GetChart).Methods("GET")
	api.HandleFunc("/portfolio", h.Portfolio.GetPortfolio).Methods("GET")
	api.HandleFunc("/portfolio/history", h.Portfolio.GetHistory).Methods("GET")
	api.HandleFunc("/glossary", h.Glossary.GetCategories).Methods("GET")
	api.HandleFunc("/glossary/{term}", h.Glossary.GetTerm).Methods("GET")

	// Kakao skill endpoints
	skill := r.PathPrefix("/skill").Subrouter()
	skill.HandleFunc("/report", h.Report.SkillReport).Methods("POST")
	skill.HandleFunc("/news", h.Report.SkillNews).Methods("POST")
	skill.HandleFunc("/transaction", h.Report.SkillTransaction).Methods("POST")
	skill.HandleFunc("/glossary", h.Glossary.SkillGlossary).Methods("POST")
	skill.HandleFunc("/averaging", h.Averaging.SkillAveraging).Methods("POST")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "stockpilot-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Call next handler
			next.ServeHTTP(w, r)

			// Log request
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
