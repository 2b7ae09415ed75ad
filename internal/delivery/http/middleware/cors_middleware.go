package middleware

import "net/http"

// CORSMiddleware answers preflights for the mobile and web clients. An
// allowed origin of "*" admits any origin.
type CORSMiddleware struct {
	allowAll bool
	origins  map[string]struct{}
}

func NewCORSMiddleware(allowedOrigins ...string) *CORSMiddleware {
	m := &CORSMiddleware{origins: make(map[string]struct{}, len(allowedOrigins))}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			m.allowAll = true
		}
		m.origins[origin] = struct{}{}
	}
	return m
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if origin := m.allowedOrigin(req.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
		}
		w.Header().Add("Vary", "Origin")

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}

func (m *CORSMiddleware) allowedOrigin(origin string) string {
	if m.allowAll {
		return "*"
	}
	if _, ok := m.origins[origin]; ok && origin != "" {
		return origin
	}
	return ""
}
