package middleware

import (
	"net/http"

	"saraobi.com/web/internal/httpx"
)

func writeError(w http.ResponseWriter, r *http.Request, code int, errCode, msg string) {
	httpx.WriteError(r.Context(), w, r, httpx.NewError(errCode, msg, code))
}
