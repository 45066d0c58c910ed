package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"

	"github.com/KaramelBytes/dataglance/internal/session"
)

const (
	cookieName = "dataglance"
	sessionKey = "sid"
)

type ctxKey struct{}

// requestCtx carries the cookie session and the dataset session of a request.
type requestCtx struct {
	cookie *sessions.Session
	data   *session.Session
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// withSession resolves the dataset session named by the signed cookie,
// creating one when the cookie is absent, invalid or expired.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A decode error still returns a usable new session.
		cs, err := s.cookies.Get(r, cookieName)
		if err != nil {
			s.logger.Debug("discarding session cookie", "error", err)
		}
		id, _ := cs.Values[sessionKey].(string)
		data, created := s.sessions.GetOrCreate(id)
		if created {
			cs.Values[sessionKey] = data.ID
			if err := cs.Save(r, w); err != nil {
				s.logger.Error("save session cookie", "error", err)
				http.Error(w, "session error", http.StatusInternalServerError)
				return
			}
			s.logger.Debug("session created", "session", data.ID)
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, &requestCtx{cookie: cs, data: data})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func fromContext(ctx context.Context) *requestCtx {
	rc, _ := ctx.Value(ctxKey{}).(*requestCtx)
	return rc
}
