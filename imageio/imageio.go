// SPDX-License-Identifier: Unlicense OR MIT

// Package imageio exports a rendered State.Image to PPM or PNG. PNG goes
// through stdlib image/png, which already does everything an 8-bit RGBA
// encode needs without pulling in a third-party codec; PPM has no stdlib
// support at all, so it gets a small hand-rolled P6 writer instead.
package imageio

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"path/filepath"
	"strings"
)

// WriteAuto picks PPM or PNG by the output path's extension, defaulting to
// PPM with a warning for an unrecognised or missing extension.
func WriteAuto(w io.Writer, path string, pixels []uint32, width, height int) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return WritePNG(w, pixels, width, height)
	case ".ppm":
		return WritePPM(w, pixels, width, height)
	default:
		log.Printf("imageio: unrecognised output extension %q, defaulting to PPM\n", filepath.Ext(path))
		return WritePPM(w, pixels, width, height)
	}
}

// WritePPM writes a raw PPM P6 (max value 255) image from packed ARGB
// pixels, dropping the alpha channel (PPM carries no alpha).
func WritePPM(w io.Writer, pixels []uint32, width, height int) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", width, height); err != nil {
		return err
	}
	buf := make([]byte, 3)
	for _, p := range pixels {
		buf[0] = byte(p >> 16)
		buf[1] = byte(p >> 8)
		buf[2] = byte(p)
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WritePNG writes an 8-bit RGBA PNG from packed ARGB pixels.
func WritePNG(w io.Writer, pixels []uint32, width, height int) error {
	img := ToRGBA(pixels, width, height)
	return png.Encode(w, img)
}

// ToRGBA converts packed ARGB32 pixels into a stdlib *image.RGBA, shared
// by the PNG writer and the master's preview-downscale endpoint.
func ToRGBA(pixels []uint32, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, p := range pixels {
		a := uint8(p >> 24)
		r := uint8(p >> 16)
		g := uint8(p >> 8)
		b := uint8(p)
		img.SetRGBA(i%width, i/width, color.RGBA{R: r, G: g, B: b, A: a})
	}
	return img
}
