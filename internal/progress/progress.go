// SPDX-License-Identifier: Unlicense OR MIT

// Package progress reports tile-completion progress to stderr as a single
// carriage-return-updated line, surfacing the Work.ray_count telemetry
// that would otherwise go unread until the render finishes.
//
// golang.org/x/term handles terminal-width and TTY detection; this
// package only needs the width and the "is this even a terminal" check,
// not a full cell-buffer renderer.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

const defaultWidth = 80

// Reporter prints "tiles done/total, rays/sec" on a single updating line.
type Reporter struct {
	out       io.Writer
	isTTY     bool
	width     int
	start     time.Time
	lastPrint time.Time
}

// NewReporter builds a Reporter writing to out (normally os.Stderr). fd is
// the file descriptor to probe for terminal width/TTY-ness; pass -1 when
// out isn't an *os.File.
func NewReporter(out io.Writer, fd int) *Reporter {
	r := &Reporter{out: out, width: defaultWidth, start: time.Now()}
	if fd >= 0 && term.IsTerminal(fd) {
		r.isTTY = true
		if w, _, err := term.GetSize(fd); err == nil && w > 10 {
			r.width = w
		}
	}
	return r
}

// NewStderrReporter is the common case: report to os.Stderr, probing its
// own descriptor for size.
func NewStderrReporter() *Reporter {
	return NewReporter(os.Stderr, int(os.Stderr.Fd()))
}

// Update redraws the progress line. It throttles to at most 10 updates per
// second so a fast render doesn't spend more time printing than rendering.
func (r *Reporter) Update(tilesDone, tilesTotal int, rays uint64) {
	now := time.Now()
	if now.Sub(r.lastPrint) < 100*time.Millisecond && tilesDone < tilesTotal {
		return
	}
	r.lastPrint = now

	elapsed := now.Sub(r.start).Seconds()
	rps := float64(0)
	if elapsed > 0 {
		rps = float64(rays) / elapsed
	}

	barWidth := r.width - 40
	if barWidth < 10 {
		barWidth = 10
	}
	filled := 0
	if tilesTotal > 0 {
		filled = barWidth * tilesDone / tilesTotal
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)

	line := fmt.Sprintf("[%s] %d/%d tiles  %.0f rays/s", bar, tilesDone, tilesTotal, rps)
	if r.isTTY {
		fmt.Fprintf(r.out, "\r%-*s", r.width, line)
	} else {
		fmt.Fprintln(r.out, line)
	}
}

// Done prints a trailing newline after the final Update (a TTY's
// carriage-return line otherwise never gets one).
func (r *Reporter) Done() {
	if r.isTTY {
		fmt.Fprintln(r.out)
	}
}
