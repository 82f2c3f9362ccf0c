package portal

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/skip2/go-qrcode"

	"shoecare-portal/internal/config"
	"shoecare-portal/internal/credstore"
	"shoecare-portal/internal/device"
	"shoecare-portal/internal/logx"
	"shoecare-portal/internal/metrics"
	"shoecare-portal/internal/ui"
	"shoecare-portal/internal/wifi"
)

const (
	// scanTimeout bounds the scan done while the setup form is requested.
	scanTimeout = 15 * time.Second

	// restartTimeout bounds the restart command.
	restartTimeout = 30 * time.Second

	tokenCookie = "setup_token"
)

// captiveChecks are the URLs operating systems fetch to detect a captive
// portal. Redirecting them makes the phone open the setup form by itself.
var captiveChecks = []string{
	"/generate_204",
	"/gen_204",
	"/hotspot-detect.html",
	"/library/test/success.html",
	"/connecttest.txt",
	"/ncsi.txt",
}

type Server struct {
	cfg       config.Config
	scanner   wifi.Scanner
	store     credstore.Store
	restarter Restarter
	metrics   *metrics.Metrics
	device    device.Identity

	// RestartDelay is how long after a save the restart hook runs. It
	// defaults to the confirmation page countdown.
	RestartDelay time.Duration

	restartPending atomic.Bool
}

func NewServer(cfg config.Config, id device.Identity, scanner wifi.Scanner, store credstore.Store, restarter Restarter, m *metrics.Metrics) *Server {
	if restarter == nil {
		restarter = NopRestarter{}
	}
	if m == nil {
		m = metrics.New()
	}
	return &Server{
		cfg:          cfg,
		scanner:      scanner,
		store:        store,
		restarter:    restarter,
		metrics:      m,
		device:       id,
		RestartDelay: ui.CountdownSeconds * time.Second,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(s.deviceHeader)

	r.Get("/healthz", s.healthz)
	r.Get("/qr", s.qr)
	for _, p := range captiveChecks {
		r.Get(p, s.redirectToSetup)
	}
	if s.cfg.Metrics {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}

	r.Group(func(g chi.Router) {
		g.Use(s.requireToken)
		g.Get("/", s.setup)
		g.Get("/device", s.deviceInfo)
		g.Post("/save", s.save)
	})

	return r
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Log.Info().Str("addr", srv.Addr).Msg("setup portal listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

func (s *Server) redirectToSetup(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

// deviceHeader tags every response with the device id so the admin panel
// can tell which machine it is talking to.
func (s *Server) deviceHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.device.ID != "" {
			w.Header().Set("X-Device-ID", s.device.ID)
		}
		next.ServeHTTP(w, r)
	})
}

type deviceResponse struct {
	DeviceID    string `json:"deviceId"`
	PairingCode string `json:"pairingCode"`
	Provisioned bool   `json:"provisioned"`
}

// deviceInfo reports the id and pairing code the owner enters in the admin
// panel. It sits behind the setup token like the form.
func (s *Server) deviceInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(deviceResponse{
		DeviceID:    s.device.ID,
		PairingCode: s.device.PairingCode,
		Provisioned: s.Provisioned(),
	})
}

// qr serves the portal URL as a PNG, with the setup token when one is set,
// so scanning the code on the machine opens a form that works.
func (s *Server) qr(w http.ResponseWriter, r *http.Request) {
	png, err := qrcode.Encode(s.portalURL(), qrcode.Medium, 256)
	if err != nil {
		logx.Log.Error().Err(err).Msg("qr encode")
		http.Error(w, "failed to generate qr", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

func (s *Server) portalURL() string {
	if s.cfg.SetupToken == "" {
		return s.cfg.PortalURL
	}
	u, err := url.Parse(s.cfg.PortalURL)
	if err != nil {
		return s.cfg.PortalURL
	}
	q := u.Query()
	q.Set("token", s.cfg.SetupToken)
	u.RawQuery = q.Encode()
	return u.String()
}

// requireToken checks the optional setup token. A token given in the query
// is remembered in a cookie so the form post does not need to carry it.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.SetupToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		token := r.URL.Query().Get("token")
		fromQuery := token != ""
		if !fromQuery {
			if c, err := r.Cookie(tokenCookie); err == nil {
				token = c.Value
			}
		}
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.SetupToken)) != 1 {
			http.Error(w, "invalid token", http.StatusForbidden)
			return
		}
		if fromQuery {
			http.SetCookie(w, &http.Cookie{
				Name:     tokenCookie,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteStrictMode,
			})
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) setup(w http.ResponseWriter, r *http.Request) {
	if s.Provisioned() {
		http.Error(w, "setup already completed", http.StatusGone)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), scanTimeout)
	defer cancel()

	networks, err := s.scanner.Scan(ctx)
	s.metrics.ScanResult(len(networks), err)
	if err != nil {
		logx.Log.Warn().Err(err).Int("networks", len(networks)).Msg("wifi scan failed")
	}

	writePage(w, http.StatusOK, ui.RenderSetup(ui.OptionList(networks)))
	s.metrics.PageRendered("setup")
}

func (s *Server) save(w http.ResponseWriter, r *http.Request) {
	if s.Provisioned() {
		http.Error(w, "setup already completed", http.StatusGone)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.metrics.SaveResult("invalid")
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	creds, err := credstore.New(r.PostForm.Get("ssid"), r.PostForm.Get("password"))
	if err != nil {
		s.metrics.SaveResult("invalid")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	creds.DeviceID = s.device.ID

	if !s.restartPending.CompareAndSwap(false, true) {
		http.Error(w, "credentials already submitted", http.StatusConflict)
		return
	}

	if err := s.store.Save(r.Context(), creds); err != nil {
		s.restartPending.Store(false)
		s.metrics.SaveResult("error")
		logx.Log.Error().Err(err).Msg("save credentials")
		http.Error(w, "failed to save credentials", http.StatusInternalServerError)
		return
	}
	if err := s.markProvisioned(creds.SavedAt); err != nil {
		s.restartPending.Store(false)
		s.metrics.SaveResult("error")
		logx.Log.Error().Err(err).Msg("write provisioned marker")
		http.Error(w, "failed to finalize setup", http.StatusInternalServerError)
		return
	}

	s.metrics.SaveResult("ok")
	logx.Log.Info().Str("id", creds.ID).Str("device_id", creds.DeviceID).Str("ssid", creds.SSID).Msg("credentials saved")

	w.Header().Set("X-Provision-ID", creds.ID)
	writePage(w, http.StatusOK, ui.RenderSaved(creds.SSID))
	s.metrics.PageRendered("saved")

	time.AfterFunc(s.RestartDelay, s.restart)
}

func (s *Server) restart() {
	ctx, cancel := context.WithTimeout(context.Background(), restartTimeout)
	defer cancel()

	logx.Log.Info().Msg("restart: countdown finished")
	if err := s.restarter.Restart(ctx); err != nil {
		logx.Log.Error().Err(err).Msg("restart failed")
		s.restartPending.Store(false)
	}
}

func writePage(w http.ResponseWriter, status int, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(page)); err != nil {
		logx.Log.Debug().Err(err).Msg("write page")
	}
}
