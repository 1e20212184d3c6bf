package middleware

import (
	"net/http"
	"strings"
)

type CORSMiddleware struct {
	anyOrigin bool
	origins   map[string]bool
}

// NewCORSMiddleware takes a comma separated origin list; empty or "*" allows every origin.
func NewCORSMiddleware(allowedOrigins string) *CORSMiddleware {
	m := &CORSMiddleware{origins: map[string]bool{}}
	for _, origin := range strings.Split(allowedOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			m.anyOrigin = true
		} else if origin != "" {
			m.origins[origin] = true
		}
	}
	if len(m.origins) == 0 {
		m.anyOrigin = true
	}
	return m
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		header := w.Header()
		if m.anyOrigin {
			header.Set("Access-Control-Allow-Origin", "*")
		} else {
			header.Add("Vary", "Origin")
			if origin := req.Header.Get("Origin"); m.origins[origin] {
				header.Set("Access-Control-Allow-Origin", origin)
			}
		}
		header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}
