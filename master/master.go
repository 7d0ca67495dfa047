// SPDX-License-Identifier: Unlicense OR MIT

// Package master implements the renderer's HTTP coordination server: it
// serves the scene, hands out tiles to claimants (its own in-process
// worker goroutines and remote HTTP workers alike), receives tile
// results, and integrates them into the shared image.
package master

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/oov/downscale"

	"github.com/rayforge/raybun/imageio"
	"github.com/rayforge/raybun/internal/rerr"
	"github.com/rayforge/raybun/scene"
	"github.com/rayforge/raybun/tile"
	"github.com/rayforge/raybun/wire"
)

// maxInMemoryBody is the spill-to-disk threshold for request bodies.
const maxInMemoryBody = 1 << 20 // 1 MiB

// maxBodySize is the absolute cap; larger bodies get a 413.
const maxBodySize = 64 << 20 // 64 MiB

// Server is the master's HTTP handler and shared render state.
type Server struct {
	Scene *scene.Scene
	State *scene.State
	Work  *tile.Work

	mu          sync.Mutex
	assignments []tile.Assignment
	workers     map[string]wire.RegisterRequest
	startTime   time.Time
}

// New builds a Server over sc/st, with one Assignment row per tile in
// work, all initially Unassigned.
func New(sc *scene.Scene, st *scene.State, work *tile.Work) *Server {
	assignments := make([]tile.Assignment, len(work.Tiles))
	for i, t := range work.Tiles {
		assignments[i] = tile.Assignment{Tile: t, Status: tile.Unassigned}
	}
	return &Server{
		Scene:       sc,
		State:       st,
		Work:        work,
		assignments: assignments,
		workers:     make(map[string]wire.RegisterRequest),
		startTime:   time.Now(),
	}
}

// Handler returns the http.Handler serving every master endpoint:
// scene/work/register/result plus the /api/stats and /api/preview
// telemetry routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/scene", s.handleScene)
	mux.HandleFunc("/api/work", s.handleWork)
	mux.HandleFunc("/api/register", s.handleRegister)
	mux.HandleFunc("/api/result", s.handleResult)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/preview", s.handlePreview)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, wire.ErrorResponse{Error: msg})
}

// handleScene serves GET /api/scene: {scene_crc, scene_json}.
func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	writeJSON(w, http.StatusOK, wire.SceneResponse{
		SceneCRC:  s.Scene.SceneCRC,
		SceneJSON: s.Scene.SceneJSON,
	})
}

// handleWork serves GET /api/work?worker_id=<id>&scene_crc=<crc>: on CRC
// mismatch 400; otherwise atomically claims the next UNASSIGNED tile.
func (s *Server) handleWork(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	q := r.URL.Query()
	workerID := q.Get("worker_id")
	crcStr := q.Get("scene_crc")
	if workerID == "" || crcStr == "" {
		writeError(w, http.StatusBadRequest, "worker_id and scene_crc are required")
		return
	}
	var crc uint32
	if _, err := fmt.Sscanf(crcStr, "%d", &crc); err != nil {
		writeError(w, http.StatusBadRequest, "scene_crc must be numeric")
		return
	}
	if crc != s.Scene.SceneCRC {
		writeError(w, http.StatusBadRequest, "scene_crc mismatch: worker has a stale scene")
		return
	}

	idx, t, ok := s.Work.Claim()
	if !ok {
		writeJSON(w, http.StatusOK, wire.WorkResponse{Status: wire.AllWorkDone})
		return
	}

	s.mu.Lock()
	s.assignments[idx].Status = tile.InFlight
	s.assignments[idx].AssignedWorkerID = workerID
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, wire.WorkResponse{
		TileID: idx,
		Tile:   &wire.TileDesc{X: t.X, Y: t.Y, TW: t.TW, TH: t.TH},
	})
}

// handleRegister serves POST /api/register: {name, perf, thread_count,
// simd} -> {success:true} after validating perf in [0,10] and
// thread_count > 0.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req wire.RegisterRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeProtocolOrCapacityError(w, err)
		return
	}
	if req.Perf < 0 || req.Perf > 10 {
		writeError(w, http.StatusBadRequest, "perf must be in [0,10]")
		return
	}
	if req.ThreadCount <= 0 {
		writeError(w, http.StatusBadRequest, "thread_count must be positive")
		return
	}

	s.mu.Lock()
	if _, exists := s.workers[req.Name]; exists {
		log.Printf("master: worker name %q re-registered (best-effort uniqueness)", req.Name)
	}
	s.workers[req.Name] = req
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, wire.RegisterResponse{Success: true})
}

// handleResult serves POST /api/result: validates tile_id and pixel blob
// length, splats pixels into the shared image, marks the tile COMPLETED.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req wire.ResultRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeProtocolOrCapacityError(w, err)
		return
	}
	if req.TileID < 0 || req.TileID >= s.Work.TileCount() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("tile_id %d out of range", req.TileID))
		return
	}

	t := s.Work.Tiles[req.TileID]
	pixels, err := wire.DecodeTile(req.Pixels, t.TW*t.TH)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	for y := 0; y < t.TH; y++ {
		rowOff := (t.Y + y) * s.State.Width
		for x := 0; x < t.TW; x++ {
			s.State.Image[rowOff+t.X+x] = pixels[y*t.TW+x]
		}
	}

	s.mu.Lock()
	s.assignments[req.TileID].Status = tile.Completed
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, wire.ResultResponse{Success: true})
}

// handleStats serves GET /api/stats, the render-progress telemetry endpoint.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	done := 0
	s.mu.Lock()
	for _, a := range s.assignments {
		if a.Status == tile.Completed {
			done++
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, wire.StatsResponse{
		TilesDone:  done,
		TilesTotal: s.Work.TileCount(),
		Rays:       s.Work.RayCount(),
		ElapsedSec: time.Since(s.startTime).Seconds(),
	})
}

// handlePreview serves GET /api/preview?w=<width>, downsampling the
// in-progress image to a thumbnail of the requested width (default 256)
// using a pure-Go downscaler so the master has no cgo dependency.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	width := 256
	if ws := r.URL.Query().Get("w"); ws != "" {
		if _, err := fmt.Sscanf(ws, "%d", &width); err != nil || width <= 0 {
			writeError(w, http.StatusBadRequest, "w must be a positive integer")
			return
		}
	}
	if width > s.State.Width {
		width = s.State.Width
	}
	height := width * s.State.Height / s.State.Width
	if height < 1 {
		height = 1
	}

	src := imageio.ToRGBA(s.State.Image, s.State.Width, s.State.Height)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := downscale.RGBA(r.Context(), dst, src); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, dst); err != nil {
		log.Printf("master: preview encode: %v", err)
	}
}

// decodeJSONBody reads r.Body under the master's upload-buffering policy:
// bodies <= maxInMemoryBody stay in memory; larger bodies spill to a temp
// file; anything beyond maxBodySize is rejected with a CapacityError.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	limited := http.MaxBytesReader(w, r.Body, maxBodySize+1)

	if r.ContentLength > 0 && r.ContentLength <= maxInMemoryBody {
		dec := json.NewDecoder(limited)
		if err := dec.Decode(v); err != nil {
			return classifyBodyError(err)
		}
		return nil
	}

	tmp, err := os.CreateTemp("", "raybun-upload-*")
	if err != nil {
		return &rerr.IOError{Msg: "creating spill file", Err: err}
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	n, err := io.Copy(tmp, limited)
	if err != nil {
		return classifyBodyError(err)
	}
	if n > maxBodySize {
		return &rerr.CapacityError{Msg: "payload exceeds 64 MiB limit"}
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return &rerr.IOError{Msg: "rewinding spill file", Err: err}
	}
	dec := json.NewDecoder(tmp)
	if err := dec.Decode(v); err != nil {
		return &rerr.ProtocolError{Msg: "malformed JSON body: " + err.Error()}
	}
	return nil
}

func classifyBodyError(err error) error {
	if err.Error() == "http: request body too large" {
		return &rerr.CapacityError{Msg: "payload exceeds 64 MiB limit"}
	}
	return &rerr.ProtocolError{Msg: "malformed JSON body: " + err.Error()}
}

func writeProtocolOrCapacityError(w http.ResponseWriter, err error) {
	if ce, ok := err.(*rerr.CapacityError); ok {
		writeError(w, http.StatusRequestEntityTooLarge, ce.Msg)
		return
	}
	if ie, ok := err.(*rerr.IOError); ok {
		writeError(w, http.StatusInternalServerError, ie.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

// Serve starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return &rerr.IOError{Msg: "master HTTP server", Err: err}
	}
}
