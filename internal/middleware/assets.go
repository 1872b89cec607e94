package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"net/http"
	"strings"
)

// AssetsWithCache serves fsys with long-lived caching and content ETags. Mount
// it with the URL prefix already stripped.
func AssetsWithCache(fsys fs.FS) http.Handler {
	etags := map[string]string{}
	_ = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil
		}
		sum := sha256.Sum256(raw)
		etags["/"+path] = `W/"` + hex.EncodeToString(sum[:16]) + `"`
		return nil
	})
	files := http.FileServer(http.FS(fsys))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Vary", "Accept-Encoding")
		w.Header().Set("Cache-Control", "public, max-age=604800, stale-while-revalidate=86400")
		if et := etags["/"+strings.TrimPrefix(r.URL.Path, "/")]; et != "" {
			w.Header().Set("ETag", et)
			if inm := r.Header.Get("If-None-Match"); inm != "" && inm == et {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}
