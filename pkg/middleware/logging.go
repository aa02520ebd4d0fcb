package middleware

import (
	"net/http"
	"time"

	"github.com/Dastan2231/Social_Network/pkg/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LoggingMiddleware tags every request with an id and logs method, path,
// status and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		logger.Log.WithFields(logrus.Fields{
			"requestID": requestID,
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    recorder.status,
			"duration":  time.Since(start).String(),
		}).Info("Request handled")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
