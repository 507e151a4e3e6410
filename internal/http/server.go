package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"payday/internal/core"
	"payday/internal/cycle"
	"payday/internal/log"
	appweb "payday/web"
)

// ExpenseService is what the handlers need from the expense service.
type ExpenseService interface {
	Record(ctx context.Context, e core.Expense) (string, error)
	List(ctx context.Context) ([]core.Expense, error)
	Summary(ctx context.Context, ref core.Date) (cycle.Summary, error)
}

// Settings carries display and request handling options.
type Settings struct {
	// DefaultSalary is used when a request carries no salary parameter.
	DefaultSalary core.Money
	// Currency prefixes every rendered amount.
	Currency string
	// Now supplies the reference date. Defaults to time.Now.
	Now func() time.Time
	// RateLimit caps POST requests per client per minute.
	RateLimit int
	// Ready backs /readyz when set, e.g. a database ping.
	Ready  func(ctx context.Context) error
	Logger *log.Logger
}

type Server struct {
	http.Server
	templates   *template.Template
	svc         ExpenseService
	settings    Settings
	printer     *message.Printer
	logger      *log.Logger
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, svc ExpenseService, settings Settings) *Server {
	if settings.Now == nil {
		settings.Now = time.Now
	}
	if settings.Currency == "" {
		settings.Currency = "₹"
	}
	logger := settings.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	mux := http.NewServeMux()
	s := &Server{
		svc:         svc,
		settings:    settings,
		printer:     message.NewPrinter(language.English),
		logger:      logger,
		rateLimiter: newRateLimiter(settings.RateLimit),
		metrics:     &securityMetrics{},
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/expenses", s.withSecurityHeaders(s.handleCreateExpense))
	// UI partials
	mux.HandleFunc("/ui/cycle-summary", s.withSecurityHeaders(s.handleCycleSummary))
	mux.HandleFunc("/ui/expenses", s.withSecurityHeaders(s.handleExpensesTable))
	// JSON
	mux.HandleFunc("/api/cycle", s.withSecurityHeaders(s.handleAPICycle))

	var handler http.Handler = mux
	handler = log.RequestIDMiddleware(requestID)(handler)
	handler = log.Middleware(logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// requestID reuses a well-formed inbound X-Request-ID or generates one.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); requestIDPattern.MatchString(id) {
		return id
	}
	return generateRequestID()
}

// today is the reference date for every cycle computation.
func (s *Server) today() core.Date {
	return core.DateOf(s.settings.Now())
}

// Shutdown stops background routines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		s.logger.InfoContext(ctx, "Stopping HTTP server",
			"rate_limit_hits", atomic.LoadInt64(&s.metrics.rateLimitHits),
			"suspicious_requests", atomic.LoadInt64(&s.metrics.suspiciousRequests))
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		logger := log.FromContext(ctx)
		clientIP := extractClientIP(r)

		logger.DebugContext(ctx, "Request started",
			log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.Header.Get("User-Agent"), clientIP).ToSlice()...)

		if detectSuspiciousRequest(r, s.metrics) {
			logger.WarnContext(ctx, "Suspicious request", "client_ip", clientIP, "url", r.URL.String())
		}

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.metrics) {
			logger.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		logger.InfoContext(ctx, "Request completed",
			log.NewFields().
				WithHTTPRequest(r.Method, r.URL.Path, r.Header.Get("User-Agent"), clientIP).
				WithHTTPResponse(rw.statusCode, time.Since(start).Milliseconds()).
				ToSlice()...)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.settings.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.settings.Ready(ctx); err != nil {
			s.logger.WarnContext(ctx, "Readiness check failed", "error", err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
