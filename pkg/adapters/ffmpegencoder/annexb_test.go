package ffmpegencoder

import (
	"bytes"
	"testing"
)

var (
	aud   = []byte{0x09, 0xF0}
	sps   = []byte{0x67, 0x42, 0xC0, 0x1E, 0xD9, 0x00, 0xA0, 0x47, 0xFE, 0xC8}
	pps   = []byte{0x68, 0xCE, 0x3C, 0x80}
	idr   = []byte{0x65, 0x88, 0x84, 0x00}
	slice = []byte{0x41, 0x9A, 0x02}
)

func annexB(nalus ...[]byte) []byte {
	var buf bytes.Buffer
	for i, n := range nalus {
		if i%2 == 0 {
			buf.Write([]byte{0, 0, 0, 1})
		} else {
			buf.Write([]byte{0, 0, 1})
		}
		buf.Write(n)
	}
	return buf.Bytes()
}

func TestParseAnnexB(t *testing.T) {
	got := parseAnnexB(annexB(sps, pps, idr))
	want := [][]byte{sps, pps, idr}
	if len(got) != len(want) {
		t.Fatalf("got %d NAL units, want %d", len(got), len(want))
	}
	for i := range want {
		if !bytes.Equal(got[i], want[i]) {
			t.Errorf("nalu %d = % x, want % x", i, got[i], want[i])
		}
	}
}

func TestSplitAccessUnits(t *testing.T) {
	stream := annexB(aud, sps, pps, idr, aud, slice, aud, slice, aud)

	units := splitAccessUnits(stream)
	if len(units) != 3 {
		t.Fatalf("got %d access units, want 3", len(units))
	}
	if !units[0].keyframe || units[1].keyframe || units[2].keyframe {
		t.Errorf("keyframes = %v %v %v, want true false false", units[0].keyframe, units[1].keyframe, units[2].keyframe)
	}

	gotSPS, gotPPS, err := parameterSets(units)
	if err != nil {
		t.Fatalf("parameterSets: %v", err)
	}
	if !bytes.Equal(gotSPS, sps) || !bytes.Equal(gotPPS, pps) {
		t.Errorf("parameter sets = % x / % x", gotSPS, gotPPS)
	}
}

func TestToAVCC(t *testing.T) {
	got := toAVCC(annexB(aud, sps, pps, idr))
	want := append([]byte{0, 0, 0, byte(len(idr))}, idr...)
	if !bytes.Equal(got, want) {
		t.Errorf("toAVCC = % x, want % x", got, want)
	}
}

func TestParameterSets_Missing(t *testing.T) {
	if _, _, err := parameterSets(splitAccessUnits(annexB(aud, idr))); err == nil {
		t.Error("expected error when SPS is missing")
	}
}
