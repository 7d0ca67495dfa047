// SPDX-License-Identifier: Unlicense OR MIT

package wire

import "testing"

func TestPixelCodecRoundTrip(t *testing.T) {
	vals := []uint32{0, 1, 0xFFFFFFFF, 0xFF00FF00, 0x12345678}
	for _, v := range vals {
		s := EncodePixel(v)
		if len(s) != 8 {
			t.Fatalf("EncodePixel(%x) = %q, want 8 chars", v, s)
		}
		got, err := DecodePixel(s)
		if err != nil {
			t.Fatalf("DecodePixel(%q): %v", s, err)
		}
		if got != v {
			t.Errorf("round trip %x -> %q -> %x", v, s, got)
		}
	}
}

func TestEncodePixelIsLowercaseAndZeroPadded(t *testing.T) {
	if got := EncodePixel(0x000000FF); got != "000000ff" {
		t.Errorf("EncodePixel = %q, want %q", got, "000000ff")
	}
}

func TestDecodeTileRejectsLengthMismatch(t *testing.T) {
	if _, err := DecodeTile("00000000", 2); err == nil {
		t.Fatal("expected error for mismatched pixel count")
	}
}

func TestEncodeDecodeTileRoundTrip(t *testing.T) {
	pixels := []uint32{0xFFFF0000, 0xFF00FF00, 0xFF0000FF, 0xFFFFFFFF}
	encoded := EncodeTile(pixels)
	if len(encoded) != len(pixels)*8 {
		t.Fatalf("encoded length = %d, want %d", len(encoded), len(pixels)*8)
	}
	decoded, err := DecodeTile(encoded, len(pixels))
	if err != nil {
		t.Fatalf("DecodeTile: %v", err)
	}
	for i := range pixels {
		if decoded[i] != pixels[i] {
			t.Errorf("pixel %d = %x, want %x", i, decoded[i], pixels[i])
		}
	}
}
