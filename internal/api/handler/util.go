package handler

import (
	"net/http"
	"strconv"

	"github.com/yieldwise/yieldwise/internal/api/middleware"
)

func requestID(r *http.Request) string {
	return middleware.GetRequestID(r.Context())
}

func strPtr(s string) *string {
	return &s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
