package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"campus-canteen/logging"

	"github.com/gorilla/mux"
)

const (
	apiPrefix   = "/api"
	statsPrefix = "/api/stats/"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	OrderSvcURL string
	StatsSvcURL string
}

// Gateway fronts order-svc and stats-svc. REST calls under /api are forwarded
// through HTTPClient; /ws is handed to a reverse proxy so the upgrade passes
// through.
type Gateway struct {
	config Config
	client HTTPClient
	ws     http.Handler
}

func NewGateway(config Config, client HTTPClient) (*Gateway, error) {
	target, err := url.Parse(config.OrderSvcURL)
	if err != nil {
		return nil, err
	}
	ws := httputil.NewSingleHostReverseProxy(target)
	ws.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logging.Warn().Err(err).Str("path", r.URL.Path).Msg("websocket proxy failed")
		writeUpstreamError(w)
	}
	return &Gateway{config: config, client: client, ws: ws}, nil
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	})
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL, path string) {
	u := targetURL + path
	if r.URL.RawQuery != "" {
		u += "?" + r.URL.RawQuery
	}
	logging.Debug().Str("method", r.Method).Str("path", r.URL.Path).Str("upstream", u).Msg("proxy")

	req, err := http.NewRequestWithContext(r.Context(), r.Method, u, r.Body)
	if err != nil {
		logging.Error().Err(err).Msg("failed to build upstream request")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for k, v := range r.Header {
		req.Header[k] = v
	}
	req.Header.Set("X-Forwarded-Host", r.Host)

	resp, err := g.client.Do(req)
	if err != nil {
		logging.Warn().Err(err).Str("upstream", targetURL).Msg("upstream request failed")
		writeUpstreamError(w)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		logging.Warn().Err(err).Msg("failed to copy upstream response")
	}
}

// RouteHandler sends /api/stats/* to stats-svc unchanged and every other
// /api/* call to order-svc with the /api prefix removed.
func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case strings.HasPrefix(path, statsPrefix):
		g.ProxyRequest(w, r, g.config.StatsSvcURL, path)
	case strings.HasPrefix(path, apiPrefix+"/"):
		g.ProxyRequest(w, r, g.config.OrderSvcURL, strings.TrimPrefix(path, apiPrefix))
	default:
		http.Error(w, "route not found", http.StatusNotFound)
	}
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods(http.MethodGet)
	r.Handle("/ws", g.ws)
	r.PathPrefix(apiPrefix + "/").HandlerFunc(g.RouteHandler)
	r.NotFoundHandler = http.HandlerFunc(g.RouteHandler)
	return r
}

func writeUpstreamError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":     false,
		"error":  "upstream unavailable",
		"reason": "upstream_unavailable",
	})
}
