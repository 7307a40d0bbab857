// SPDX-License-Identifier: GPL-3.0-or-later

// Package webapi exposes the simulation over an HTTP JSON API.
//
// Every handler executes on the simulation goroutine through
// [*runner.Runner.Do], so requests observe a consistent snapshot
// taken between two ticks.
package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rbmk-project/ndnsim/netsim"
	"github.com/rbmk-project/ndnsim/netsim/geolink"
	"github.com/rbmk-project/ndnsim/netsim/packet"
	"github.com/rbmk-project/ndnsim/netsim/runner"
	"github.com/rbmk-project/ndnsim/netsim/session"
	"github.com/rbmk-project/ndnsim/netsim/topology"
)

// Config contains configuration for [NewHandler].
type Config struct {
	// Runner is the MANDATORY runner owning the simulator.
	Runner *runner.Runner

	// Logger is the optional structured logger. If this field
	// is nil, we will not be emitting structured logs.
	Logger *slog.Logger

	// Metrics enables the /metrics endpoint.
	Metrics bool

	// CORSOrigins contains the allowed origins. If empty, we allow all.
	CORSOrigins []string
}

var (
	// errMissingCoordinates is returned when x or y is missing.
	errMissingCoordinates = errors.New("x and y are required")

	// errLevelNotComplete is returned by next-level outside level_complete.
	errLevelNotComplete = errors.New("level is not complete")
)

// handler implements the API.
type handler struct {
	// logger is the optional logger.
	logger *slog.Logger

	// runner serializes the access to the simulator.
	runner *runner.Runner
}

// NewHandler returns the [http.Handler] serving the API.
func NewHandler(cfg *Config) http.Handler {
	h := &handler{logger: cfg.Logger, runner: cfg.Runner}

	origins := cfg.CORSOrigins
	if len(origins) <= 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/snapshot", h.getSnapshot)
		r.Post("/spawn", h.postSpawn)
		r.Get("/hover", h.getHover)
		r.Post("/interest", h.postInterest)
		r.Post("/game/start", h.postStart)
		r.Post("/game/next-level", h.postNextLevel)
		r.Post("/game/menu", h.postMenu)
		r.Put("/settings", h.putSettings)
		r.Get("/leaderboard", h.getLeaderboard)
	})

	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}
	return r
}

func (h *handler) getSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap netsim.Snapshot
	if !h.do(w, r, func(sim *netsim.Simulator) { snap = sim.Snapshot() }) {
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

// point is the body of a click.
type point struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// SpawnResponse is the response of POST /api/spawn.
type SpawnResponse struct {
	Sent int `json:"sent"`
}

func (h *handler) postSpawn(w http.ResponseWriter, r *http.Request) {
	var body point
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if body.X == nil || body.Y == nil {
		h.writeError(w, http.StatusBadRequest, errMissingCoordinates)
		return
	}
	pt := packet.Point{X: *body.X, Y: *body.Y}
	var resp SpawnResponse
	if !h.do(w, r, func(sim *netsim.Simulator) { resp.Sent = sim.SpawnAt(pt) }) {
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) getHover(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if err := errors.Join(errX, errY); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	var (
		view  netsim.NodeView
		found bool
	)
	if !h.do(w, r, func(sim *netsim.Simulator) { view, found = sim.NodeAt(packet.Point{X: x, Y: y}) }) {
		return
	}
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

// InterestResponse is the response of POST /api/interest.
type InterestResponse struct {
	Sent bool `json:"sent"`
}

func (h *handler) postInterest(w http.ResponseWriter, r *http.Request) {
	var resp InterestResponse
	if !h.do(w, r, func(sim *netsim.Simulator) { resp.Sent = sim.SendRandomInterest() }) {
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// GameResponse is the response of the game controls.
type GameResponse struct {
	State session.State `json:"state"`
	Level int           `json:"level"`
}

// game runs fx and writes the resulting game state.
func (h *handler) game(w http.ResponseWriter, r *http.Request, fx func(sim *netsim.Simulator) error) {
	var (
		resp GameResponse
		err  error
	)
	if !h.do(w, r, func(sim *netsim.Simulator) {
		err = fx(sim)
		snap := sim.Snapshot()
		resp = GameResponse{State: snap.State, Level: snap.Level}
	}) {
		return
	}
	if err != nil {
		h.writeError(w, http.StatusConflict, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) postStart(w http.ResponseWriter, r *http.Request) {
	h.game(w, r, func(sim *netsim.Simulator) error {
		sim.StartGame()
		return nil
	})
}

func (h *handler) postNextLevel(w http.ResponseWriter, r *http.Request) {
	h.game(w, r, func(sim *netsim.Simulator) error {
		if !sim.NextLevel() {
			return errLevelNotComplete
		}
		return nil
	})
}

func (h *handler) postMenu(w http.ResponseWriter, r *http.Request) {
	h.game(w, r, func(sim *netsim.Simulator) error {
		sim.Menu()
		return nil
	})
}

// Settings is the body and the response of PUT /api/settings. Missing
// fields in the body leave the corresponding setting unchanged.
type Settings struct {
	Topology   *topology.Name `json:"topology,omitempty"`
	Speed      *geolink.Speed `json:"speed,omitempty"`
	PacketLoss *bool          `json:"packetLoss,omitempty"`
}

func (h *handler) putSettings(w http.ResponseWriter, r *http.Request) {
	var body Settings
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if body.Topology != nil {
		if _, err := topology.Parse(string(*body.Topology)); err != nil {
			h.writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if body.Speed != nil {
		if _, err := geolink.ParseSpeed(string(*body.Speed)); err != nil {
			h.writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	var resp Settings
	if !h.do(w, r, func(sim *netsim.Simulator) {
		// names were validated above, so these cannot fail
		if body.Topology != nil {
			_ = sim.SetTopology(*body.Topology)
		}
		if body.Speed != nil {
			_ = sim.SetSpeed(*body.Speed)
		}
		if body.PacketLoss != nil {
			sim.SetPacketLoss(*body.PacketLoss)
		}
		snap := sim.Snapshot()
		resp = Settings{Topology: &snap.Topology, Speed: &snap.Speed, PacketLoss: &snap.PacketLoss}
	}) {
		return
	}
	h.logInfo("settingsChanged", slog.Any("topology", *resp.Topology), slog.Any("speed", *resp.Speed),
		slog.Bool("packetLoss", *resp.PacketLoss))
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	var entries []session.Entry
	if !h.do(w, r, func(sim *netsim.Simulator) { entries = sim.Leaderboard() }) {
		return
	}
	if entries == nil {
		entries = []session.Entry{}
	}
	h.writeJSON(w, http.StatusOK, entries)
}

// do runs fx on the simulation goroutine, writing an error response
// and returning false when that is not possible.
func (h *handler) do(w http.ResponseWriter, r *http.Request, fx func(sim *netsim.Simulator)) bool {
	err := h.runner.Do(r.Context(), fx)
	switch {
	case err == nil:
		return true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.writeError(w, http.StatusRequestTimeout, err)
	case errors.Is(err, runner.ErrStopped):
		h.writeError(w, http.StatusServiceUnavailable, err)
	default:
		h.writeError(w, http.StatusInternalServerError, err)
	}
	return false
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// ErrorResponse is the body of an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes an error response.
func (h *handler) writeError(w http.ResponseWriter, status int, err error) {
	h.logInfo("requestFailed", slog.Int("status", status), slog.Any("err", err))
	h.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// writeJSON writes v as a JSON response.
func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// logInfo emits an info structured log, if a logger is configured.
func (h *handler) logInfo(msg string, attrs ...slog.Attr) {
	if h.logger != nil {
		h.logger.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
	}
}
