// SPDX-License-Identifier: Unlicense OR MIT

// Package worker implements the remote-worker lifecycle: self-benchmark,
// scene fetch, registration, and the claim/render/report loop against a
// master's HTTP API.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/rayforge/raybun/internal/rerr"
	"github.com/rayforge/raybun/pathtrace"
	"github.com/rayforge/raybun/scene"
	"github.com/rayforge/raybun/tile"
	"github.com/rayforge/raybun/wire"
)

// Worker is a single-threaded remote render client: one process claims
// and renders one tile at a time against its master.
type Worker struct {
	MasterURL string
	Name      string
	Client    *http.Client

	sceneCRC uint32
	sc       *scene.Scene
	st       *scene.State
	seed     uint32
}

// New builds a Worker targeting masterURL, identified to the master as
// name.
func New(masterURL, name string, seed uint32) *Worker {
	return &Worker{
		MasterURL: masterURL,
		Name:      name,
		Client:    &http.Client{Timeout: 30 * time.Second},
		seed:      seed,
	}
}

// Benchmark runs the tile loop single-threaded over refScene and derives a
// perf score in [0,10] by linear interpolation between 1s -> 10 and
// 10s -> 0.
func Benchmark(refScene []byte) (float64, error) {
	sc, st, err := scene.Load(refScene)
	if err != nil {
		return 0, err
	}
	tiles := tile.Plan(st.Width, st.Height, 32)
	work := tile.NewWork(tiles)

	start := time.Now()
	for {
		tileID, t, ok := work.Claim()
		if !ok {
			break
		}
		pathtrace.RenderTile(sc, st, t, tileID, 0, 1)
	}
	elapsed := time.Since(start).Seconds()

	return scoreFromSeconds(elapsed), nil
}

// scoreFromSeconds implements the 1s->10, 10s->0 linear interpolation,
// clamped to [0,10].
func scoreFromSeconds(seconds float64) float64 {
	score := 10 - (seconds-1)*(10.0/9.0)
	if score > 10 {
		score = 10
	}
	if score < 0 {
		score = 0
	}
	return score
}

// FetchScene performs GET /api/scene and loads the returned JSON into a
// local Scene/State, caching scene_crc for later GET /api/work calls.
func (w *Worker) FetchScene(ctx context.Context) error {
	var resp wire.SceneResponse
	if err := w.getJSON(ctx, "/api/scene", &resp); err != nil {
		return err
	}
	sc, st, err := scene.Load([]byte(resp.SceneJSON))
	if err != nil {
		return err
	}
	w.sc, w.st, w.sceneCRC = sc, st, resp.SceneCRC
	return nil
}

// Register performs POST /api/register with info. A registration failure
// is logged and non-fatal: the worker keeps requesting work either way.
func (w *Worker) Register(ctx context.Context, info wire.RegisterRequest) {
	var resp wire.RegisterResponse
	if err := w.postJSON(ctx, "/api/register", info, &resp); err != nil {
		log.Printf("worker: registration failed: %v", err)
		return
	}
	if !resp.Success {
		log.Printf("worker: master rejected registration")
	}
}

// Run loops GET /api/work -> render -> POST /api/result until the master
// reports all work done or a CRC mismatch ends the loop.
func (w *Worker) Run(ctx context.Context) (*scene.State, error) {
	threadID := 0
	for {
		select {
		case <-ctx.Done():
			return w.st, ctx.Err()
		default:
		}

		work, err := w.claimWork(ctx)
		if err != nil {
			return w.st, err
		}
		if work.Status == wire.AllWorkDone {
			return w.st, nil
		}

		pixels := make([]uint32, work.Tile.TW*work.Tile.TH)
		t := tile.Tile{X: work.Tile.X, Y: work.Tile.Y, TW: work.Tile.TW, TH: work.Tile.TH}
		pathtrace.RenderTile(w.sc, w.st, t, work.TileID, threadID, w.seed)
		for y := 0; y < t.TH; y++ {
			rowOff := (t.Y + y) * w.st.Width
			for x := 0; x < t.TW; x++ {
				pixels[y*t.TW+x] = w.st.Image[rowOff+t.X+x]
			}
		}

		result := wire.ResultRequest{Name: w.Name, TileID: work.TileID, Pixels: wire.EncodeTile(pixels)}
		var resultResp wire.ResultResponse
		if err := w.postJSON(ctx, "/api/result", result, &resultResp); err != nil {
			return w.st, err
		}
	}
}

// claimWork performs one GET /api/work call. A CRC mismatch (HTTP 400)
// ends the work loop.
func (w *Worker) claimWork(ctx context.Context) (wire.WorkResponse, error) {
	path := fmt.Sprintf("/api/work?worker_id=%s&scene_crc=%d", w.Name, w.sceneCRC)
	var resp wire.WorkResponse
	if err := w.getJSON(ctx, path, &resp); err != nil {
		return wire.WorkResponse{}, err
	}
	return resp, nil
}

func (w *Worker) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.MasterURL+path, nil)
	if err != nil {
		return &rerr.IOError{Msg: "building request", Err: err}
	}
	return w.do(req, out)
}

func (w *Worker) postJSON(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return &rerr.IOError{Msg: "encoding request body", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.MasterURL+path, bytes.NewReader(b))
	if err != nil {
		return &rerr.IOError{Msg: "building request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return w.do(req, out)
}

func (w *Worker) do(req *http.Request, out any) error {
	resp, err := w.Client.Do(req)
	if err != nil {
		return &rerr.IOError{Msg: "contacting master", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp wire.ErrorResponse
		body, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(body, &errResp)
		if errResp.Error == "" {
			errResp.Error = string(body)
		}
		return &rerr.ProtocolError{Msg: fmt.Sprintf("master returned %d: %s", resp.StatusCode, errResp.Error)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &rerr.ProtocolError{Msg: "decoding master response: " + err.Error()}
	}
	return nil
}
