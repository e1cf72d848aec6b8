package httpapi

import (
	"net/http"

	"github.com/riskibarqy/football-elo/internal/platform/logging"
)

type RouterOptions struct {
	ServiceName        string
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
}

func NewRouter(handler *Handler, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "football-elo"
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts.SwaggerEnabled)
	registerPlayerRoutes(mux, handler)
	registerMatchRoutes(mux, handler)

	return RequestTracing(opts.ServiceName,
		RequestLogging(logger,
			CORS(opts.CORSAllowedOrigins,
				recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
