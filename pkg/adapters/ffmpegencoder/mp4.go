package ffmpegencoder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"sync"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/devshot/pkg/ports"
)

// H.264 NAL unit types.
const (
	nalIDR = 5
	nalSPS = 7
	nalPPS = 8
	nalAUD = 9
)

// accessUnit is one encoded picture in Annex B form.
type accessUnit struct {
	data        []byte
	keyframe    bool
	timestampMs int
}

// MP4Encoder produces H.264 MP4. ffmpeg emits an Annex B elementary stream
// with access unit delimiters; the container is written with mp4ff.
type MP4Encoder struct {
	mu         sync.Mutex
	proc       *process
	width      int
	height     int
	fps        float64
	timestamps []int
}

// NewMP4 creates an MP4 encoder.
func NewMP4() *MP4Encoder {
	return &MP4Encoder{}
}

func mp4Args(width, height int, fps float64, opts ports.EncoderOptions) []string {
	args := rawInputArgs(width, height, fps)
	args = append(args,
		"-c:v", "libx264",
		"-preset", "fast",
		"-pix_fmt", "yuv420p",
		"-profile:v", "baseline",
		"-crf", fmt.Sprintf("%d", crf(opts, 51, 23)),
	)
	if opts.Bitrate > 0 {
		args = append(args, "-b:v", fmt.Sprintf("%dk", opts.Bitrate))
	}
	return append(args,
		"-bsf:v", "h264_metadata=aud=insert",
		"-f", "h264", "pipe:1",
	)
}

// Begin starts ffmpeg. Width and height are rounded down to even values,
// as required by yuv420p.
func (e *MP4Encoder) Begin(width, height int, fps float64, opts ports.EncoderOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.proc != nil {
		e.proc.kill()
		e.proc = nil
	}
	width, height = width&^1, height&^1
	if width == 0 || height == 0 || fps <= 0 {
		return fmt.Errorf("invalid video geometry %dx%d@%v", width, height, fps)
	}

	proc, err := startProcess(width, height, mp4Args(width, height, fps, opts))
	if err != nil {
		return err
	}
	e.proc = proc
	e.width, e.height, e.fps = width, height, fps
	e.timestamps = e.timestamps[:0]
	return nil
}

// EncodeFrame pipes one frame to ffmpeg and remembers its timestamp for
// the container.
func (e *MP4Encoder) EncodeFrame(img image.Image, timestampMs int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.proc == nil {
		return ErrNotInitialized
	}
	if err := e.proc.write(img); err != nil {
		return err
	}
	e.timestamps = append(e.timestamps, timestampMs)
	return nil
}

// End waits for ffmpeg and muxes its output into MP4.
func (e *MP4Encoder) End() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.proc == nil {
		return nil, ErrNotInitialized
	}
	proc := e.proc
	e.proc = nil

	if len(e.timestamps) == 0 {
		proc.kill()
		return nil, ErrNoFrames
	}
	stream, err := proc.finish()
	if err != nil {
		return nil, err
	}

	units := splitAccessUnits(stream)
	for i := range units {
		if i < len(e.timestamps) {
			units[i].timestampMs = e.timestamps[i]
		} else {
			units[i].timestampMs = int(float64(i) * 1000 / e.fps)
		}
	}
	return buildMP4(units, e.width, e.height, e.fps)
}

// Format implements ports.VideoEncoder.
func (e *MP4Encoder) Format() ports.VideoFormat {
	return ports.FormatMP4
}

var _ ports.VideoEncoder = (*MP4Encoder)(nil)

// splitAccessUnits cuts an Annex B stream at access unit delimiters.
func splitAccessUnits(stream []byte) []accessUnit {
	var units []accessUnit
	var cur *accessUnit

	for _, n := range findNALUs(stream) {
		nalu := stream[n.start:n.end]
		if len(nalu) == 0 {
			continue
		}
		typ := nalu[0] & 0x1F
		if typ == nalAUD || cur == nil {
			units = append(units, accessUnit{})
			cur = &units[len(units)-1]
		}
		if typ == nalIDR {
			cur.keyframe = true
		}
		cur.data = append(cur.data, 0, 0, 0, 1)
		cur.data = append(cur.data, nalu...)
	}

	// Drop units that carry no picture, such as a trailing delimiter.
	out := units[:0]
	for _, u := range units {
		if hasSlice(u.data) {
			out = append(out, u)
		}
	}
	return out
}

func hasSlice(au []byte) bool {
	for _, nalu := range parseAnnexB(au) {
		if len(nalu) > 0 {
			if typ := nalu[0] & 0x1F; typ >= 1 && typ <= nalIDR {
				return true
			}
		}
	}
	return false
}

type naluSpan struct{ start, end int }

// findNALUs locates NAL unit payloads between 3- or 4-byte start codes.
func findNALUs(data []byte) []naluSpan {
	var spans []naluSpan
	start := -1
	for i := 0; i+2 < len(data); {
		if data[i] == 0 && data[i+1] == 0 && data[i+2] == 1 {
			end := i
			if end > 0 && data[end-1] == 0 {
				end--
			}
			if start >= 0 {
				spans = append(spans, naluSpan{start, end})
			}
			i += 3
			start = i
			continue
		}
		i++
	}
	if start >= 0 && start < len(data) {
		spans = append(spans, naluSpan{start, len(data)})
	}
	return spans
}

// parseAnnexB returns the NAL units of an Annex B buffer.
func parseAnnexB(data []byte) [][]byte {
	spans := findNALUs(data)
	nalus := make([][]byte, 0, len(spans))
	for _, s := range spans {
		nalus = append(nalus, data[s.start:s.end])
	}
	return nalus
}

// toAVCC converts an access unit to length-prefixed form, leaving out the
// parameter sets and delimiters that live in the sample description.
func toAVCC(au []byte) []byte {
	var buf bytes.Buffer
	var size [4]byte
	for _, nalu := range parseAnnexB(au) {
		if len(nalu) == 0 {
			continue
		}
		switch nalu[0] & 0x1F {
		case nalSPS, nalPPS, nalAUD:
			continue
		}
		binary.BigEndian.PutUint32(size[:], uint32(len(nalu)))
		buf.Write(size[:])
		buf.Write(nalu)
	}
	return buf.Bytes()
}

// parameterSets returns the first SPS and PPS found in the stream.
func parameterSets(units []accessUnit) (sps, pps []byte, err error) {
	for _, u := range units {
		for _, nalu := range parseAnnexB(u.data) {
			if len(nalu) == 0 {
				continue
			}
			switch nalu[0] & 0x1F {
			case nalSPS:
				if sps == nil {
					sps = append([]byte(nil), nalu...)
				}
			case nalPPS:
				if pps == nil {
					pps = append([]byte(nil), nalu...)
				}
			}
		}
		if sps != nil && pps != nil {
			return sps, pps, nil
		}
	}
	if sps == nil {
		return nil, nil, fmt.Errorf("SPS not found")
	}
	return nil, nil, fmt.Errorf("PPS not found")
}

// buildMP4 writes ftyp, moov and a single fragment holding every sample.
func buildMP4(units []accessUnit, width, height int, fps float64) ([]byte, error) {
	if len(units) == 0 {
		return nil, ErrNoFrames
	}

	const timescale = 1000
	sps, pps, err := parameterSets(units)
	if err != nil {
		return nil, fmt.Errorf("extract SPS/PPS: %w", err)
	}
	avcC, err := mp4.CreateAvcC([][]byte{sps}, [][]byte{pps}, true)
	if err != nil {
		return nil, fmt.Errorf("create avcC: %w", err)
	}

	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(timescale, "video", "und")
	trak := init.Moov.Trak
	trak.Mdia.Minf.Stbl.Stsd.AddChild(mp4.CreateVisualSampleEntryBox("avc1", uint16(width), uint16(height), avcC))
	trak.Tkhd.Width = mp4.Fixed32(width << 16)
	trak.Tkhd.Height = mp4.Fixed32(height << 16)

	frag, err := mp4.CreateFragment(1, trak.Tkhd.TrackID)
	if err != nil {
		return nil, fmt.Errorf("create fragment: %w", err)
	}

	frameDur := uint32(float64(timescale) / fps)
	if frameDur == 0 {
		frameDur = 1
	}
	for i, u := range units {
		dur := frameDur
		if i+1 < len(units) {
			if d := units[i+1].timestampMs - u.timestampMs; d > 0 {
				dur = uint32(d)
			}
		}
		flags := mp4.NonSyncSampleFlags
		if u.keyframe {
			flags = mp4.SyncSampleFlags
		}
		data := toAVCC(u.data)
		frag.AddFullSample(mp4.FullSample{
			Sample: mp4.Sample{
				Flags: flags,
				Size:  uint32(len(data)),
				Dur:   dur,
			},
			DecodeTime: uint64(u.timestampMs),
			Data:       data,
		})
	}

	var buf bytes.Buffer
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "avc1", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode ftyp: %w", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode moov: %w", err)
	}
	if err := frag.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode fragment: %w", err)
	}
	return buf.Bytes(), nil
}
