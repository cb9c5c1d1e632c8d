// Package webvmt parses WebVMT-style timed text cues into the raw
// (duration, payload) samples that populate a metadata sequence track,
// grounded on original_source/examples/vmt.cc's encode_vmt_metadata_track.
package webvmt

import (
	"encoding/base64"
	"regexp"
	"strconv"
	"strings"
)

// BadTimestamp is the sentinel a malformed or out-of-grammar cue timestamp
// resolves to (spec.md §4.H's BAD_VMT_TIMESTAMP).
const BadTimestamp uint32 = 0xFFFFFFFE

// Sample is one (duration, payload) pair destined for a raw metadata
// sequence sample (spec.md §3's WebVMT sample: timescale fixed at 1000).
type Sample struct {
	DurationMS uint32
	Payload    []byte
}

var (
	notePattern = regexp.MustCompile(`^\s*NOTE`)
	cuePattern  = regexp.MustCompile(`^\s*(-?\d[\d:.]*)\s*-->\s*(-?\d[\d:.]*)?.*`)
	tsPattern   = regexp.MustCompile(`^(-)?(?:(\d*):)?(\d\d):(\d\d)(?:\.(\d*))?$`)

	syncPattern = regexp.MustCompile(`\{\s*"sync"\s*:\s*\{(.*?)\}\s*\}`)
	typePattern = regexp.MustCompile(`"type"\s*:\s*"(.*?)"`)
	dataPattern = regexp.MustCompile(`"data"\s*:\s*"(.*?)"`)
)

// parseTimestamp converts a cue-header timestamp into milliseconds, per
// spec.md §4.H's grammar `(-?)((H*):)?MM:SS(.fff)?`. A negative or
// malformed timestamp, or one whose fractional part isn't exactly three
// digits, yields BadTimestamp.
func parseTimestamp(s string) uint32 {
	m := tsPattern.FindStringSubmatch(s)
	if m == nil {
		return BadTimestamp
	}
	if m[1] == "-" {
		return BadTimestamp
	}

	var hh, mm, ss, ms int
	if m[2] != "" {
		hh, _ = strconv.Atoi(m[2])
	}
	mm, _ = strconv.Atoi(m[3])
	ss, _ = strconv.Atoi(m[4])
	if m[5] != "" {
		if len(m[5]) != 3 {
			return BadTimestamp
		}
		ms, _ = strconv.Atoi(m[5])
	}

	return uint32(hh*3600*1000 + mm*60*1000 + ss*1000 + ms)
}

func nibbleToVal(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// hexToBinary decodes line as hex, ignoring any non-hex characters, per
// vmt.cc's hex_to_binary.
func hexToBinary(line string) []byte {
	var data []byte
	var current uint8
	highNibble := true
	for i := 0; i < len(line); i++ {
		v, ok := nibbleToVal(line[i])
		if !ok {
			continue
		}
		if highNibble {
			current = v << 4
			highNibble = false
		} else {
			current |= v
			data = append(data, current)
			highNibble = true
		}
	}
	return data
}

// decodeSyncPayload decodes a sync fragment's data field per its type
// suffix: ".hex" -> hex, ".base64" -> base64, anything else -> passthrough
// bytes (spec.md §4.H).
func decodeSyncPayload(typ, data string) []byte {
	switch {
	case strings.HasSuffix(typ, ".hex"):
		return hexToBinary(data)
	case strings.HasSuffix(typ, ".base64"):
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil
		}
		return decoded
	default:
		return []byte(data)
	}
}

// parseSyncData extracts every `{"sync":{"type":"...","data":"..."}}`
// fragment from content and concatenates their decoded payloads, per
// vmt.cc's parse_vmt_sync_data.
func parseSyncData(content string) []byte {
	var out []byte
	for _, m := range syncPattern.FindAllStringSubmatch(content, -1) {
		sync := m[1]
		tm := typePattern.FindStringSubmatch(sync)
		if tm == nil {
			continue
		}
		typ := tm[1]
		var data string
		if dm := dataPattern.FindStringSubmatch(sync); dm != nil {
			data = dm[1]
		}
		out = append(out, decodeSyncPayload(typ, data)...)
	}
	return out
}

type parserState int

const (
	stateIdle parserState = iota
	stateNote
	stateCueBody
)

// Parser accumulates WebVMT cues fed one line at a time and emits samples,
// encapsulating the prev_ts/prev_payload state that vmt.cc keeps as file
// statics (spec.md §9's note that this must become per-parser state).
type Parser struct {
	binary bool
	state  parserState

	cueStart  string
	bodyLines []string

	prevTs      uint32
	prevPayload []byte

	samples []Sample
}

// NewParser returns a Parser for either binary-mode (hex-per-line) or
// text-mode (JSON-ish sync fragment) cue bodies (spec.md §4.H's binary
// input-mode flag). prev_ts starts at 0, resolving spec.md §4.H's open
// question about the first cue's uninitialized prev_ts.
func NewParser(binary bool) *Parser {
	return &Parser{binary: binary}
}

// Feed processes one line of input text (no trailing newline).
func (p *Parser) Feed(line string) {
	switch p.state {
	case stateNote:
		if line == "" {
			p.state = stateIdle
		}
		return

	case stateCueBody:
		if line == "" {
			p.finishCue()
			p.state = stateIdle
			return
		}
		p.bodyLines = append(p.bodyLines, line)
		return
	}

	if notePattern.MatchString(line) {
		p.state = stateNote
		return
	}

	m := cuePattern.FindStringSubmatch(line)
	if m == nil {
		return
	}

	p.cueStart = m[1]
	p.bodyLines = nil
	p.state = stateCueBody
}

// finishCue resolves the accumulated cue body into a payload and applies
// spec.md §4.H's sample-emission rule, mirroring vmt.cc's per-cue handling
// after the blank-line body terminator.
func (p *Parser) finishCue() {
	ts := parseTimestamp(p.cueStart)
	if ts == BadTimestamp {
		return
	}

	var concat []byte
	if p.binary {
		for _, line := range p.bodyLines {
			concat = append(concat, hexToBinary(line)...)
		}
	} else {
		var content strings.Builder
		for _, line := range p.bodyLines {
			content.WriteString(line)
			content.WriteByte('\n')
		}
		concat = parseSyncData(content.String())
	}

	switch {
	case ts > p.prevTs:
		p.samples = append(p.samples, Sample{DurationMS: ts - p.prevTs, Payload: p.prevPayload})
	case ts == p.prevTs:
		concat = append(append([]byte{}, p.prevPayload...), concat...)
	default:
		// out-of-order cue: no sample is emitted and no warning is
		// printed; as in vmt.cc, prev_ts/prev_payload still advance to
		// this cue's values below.
	}

	p.prevTs = ts
	p.prevPayload = concat
}

// Finish flushes any cue body still open (as if terminated by EOF) and
// returns every emitted sample, ending with the mandatory terminal sample
// of duration 1 carrying the last cue's payload (spec.md §4.H).
func (p *Parser) Finish() []Sample {
	if p.state == stateCueBody {
		p.finishCue()
		p.state = stateIdle
	}

	p.samples = append(p.samples, Sample{DurationMS: 1, Payload: p.prevPayload})
	return p.samples
}
