package api

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"github.com/tickerlogos/tickerlogos/internal/lookup"
	"github.com/tickerlogos/tickerlogos/internal/types"
)

const defaultDocsURL = "/docs"

// LogoHandler serves GET /logo/{ticker} and GET /logo?ticker=X.
type LogoHandler struct {
	logger  *zap.Logger
	svc     *lookup.Service
	docsURL string
}

// NewLogoHandler creates a new LogoHandler.
func NewLogoHandler(svc *lookup.Service, logger *zap.Logger, docsURL string) *LogoHandler {
	if docsURL == "" {
		docsURL = defaultDocsURL
	}
	return &LogoHandler{
		logger:  logger.Named("logo"),
		svc:     svc,
		docsURL: docsURL,
	}
}

// ServeByPath handles GET /logo/{ticker}.
func (h *LogoHandler) ServeByPath(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	h.serve(w, r, r.PathValue("ticker"))
}

// ServeByQuery handles GET /logo?ticker=X. Without a ticker parameter the
// client is redirected to the docs page.
func (h *LogoHandler) ServeByQuery(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	q := r.URL.Query()
	if !q.Has("ticker") {
		http.Redirect(w, r, h.docsURL, http.StatusFound)
		return
	}
	h.serve(w, r, q.Get("ticker"))
}

func (h *LogoHandler) serve(w http.ResponseWriter, r *http.Request, ticker string) {
	res, err := h.svc.Resolve(r.Context(), ticker)
	switch {
	case errors.Is(err, types.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Ticker must not be empty")
		return
	case errors.Is(err, types.ErrNotFound):
		writeNotFound(w, ticker)
		return
	case errors.Is(err, context.Canceled):
		h.logger.Debug("Client went away during lookup", zap.String("ticker", ticker))
		return
	case err != nil:
		h.logger.Error("Lookup failed", zap.String("ticker", ticker), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.serveFile(w, r, res)
}

// serveFile streams res.Path. A file removed between lookup and open is
// reported exactly like an unknown ticker.
func (h *LogoHandler) serveFile(w http.ResponseWriter, r *http.Request, res lookup.Result) {
	fsys := h.svc.Filesystem()

	f, err := fsys.Open(res.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeNotFound(w, res.Ticker)
			return
		}
		h.logger.Error("Failed to open logo", zap.String("path", res.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	defer f.Close()

	info, err := fsys.Stat(res.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeNotFound(w, res.Ticker)
			return
		}
		h.logger.Error("Failed to stat logo", zap.String("path", res.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	name := path.Base(res.Path)
	header := w.Header()
	header.Set("Content-Type", ContentType(name))
	header.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	header.Set("ETag", ETag(res.Path, info.Size(), info.ModTime().UnixNano()))

	// ServeContent handles Range and conditional requests. A client that
	// disconnects surfaces as a write error and ends the copy.
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// fixedMediaTypes pins types that the host MIME tables may lack or disagree on.
var fixedMediaTypes = map[string]string{
	".svg": "image/svg+xml",
	".ico": "image/vnd.microsoft.icon",
}

// ContentType guesses the media type from the file extension. Unknown
// extensions are application/octet-stream.
func ContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if t, ok := fixedMediaTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// ETag derives a strong entity tag from the file's identity and version.
func ETag(relPath string, size, modNanos int64) string {
	sum := blake3.Sum256([]byte(relPath + "\x00" + strconv.FormatInt(size, 10) + "\x00" + strconv.FormatInt(modNanos, 10)))
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func writeNotFound(w http.ResponseWriter, ticker string) {
	writeError(w, http.StatusNotFound, fmt.Sprintf("Logo not found for ticker '%s'", ticker))
}

func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	return false
}
