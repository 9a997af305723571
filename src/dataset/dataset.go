// Package dataset loads chart series and annotation mappings from disk.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PresageLabs/PrediBench-sub001/src/logging"
	"github.com/PresageLabs/PrediBench-sub001/src/types"
)

var logger = logging.New("dataset")

// MaxLineBytes caps a single JSONL record.
const MaxLineBytes = 16 * 1024 * 1024

var (
	ErrEmpty      = errors.New("dataset has no series")
	ErrBadDomain  = errors.New("domain must be [min,max]")
	ErrBadPoint   = errors.New("bad point")
	ErrLineTooBig = errors.New("line too large")
)

// Dataset is the content of a series file.
type Dataset struct {
	Series []types.Series
	Domain *types.Domain // nil when the file does not fix one
}

// rawPoint is one point as written in a file. X is a date string or a
// number of Unix milliseconds; a null or missing y marks a gap.
type rawPoint struct {
	X json.RawMessage `json:"x"`
	Y *float64        `json:"y"`
}

type rawSeries struct {
	Key    string            `json:"key"`
	Name   string            `json:"name"`
	Color  string            `json:"color"`
	Points []json.RawMessage `json:"points"`
}

type rawDocument struct {
	Series []rawSeries `json:"series"`
	Domain []float64   `json:"domain"`
}

// record is one JSONL line: a single point tagged with its series.
type record struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// LoadSeries reads a JSON document or, for .jsonl/.ndjson files, one point
// record per line. A null or missing x or y yields an invalid point, which
// breaks the line like a gap.
func LoadSeries(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer f.Close()
	var ds Dataset
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		ds, err = ReadRecords(f, path)
	default:
		ds, err = ReadDocument(f)
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	n := 0
	for _, s := range ds.Series {
		n += len(s.Points)
	}
	logger.Infof("loaded %d series (%d points) from %s", len(ds.Series), n, path)
	return ds, nil
}

// ReadDocument decodes the single-document format.
func ReadDocument(r io.Reader) (Dataset, error) {
	var doc rawDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Dataset{}, fmt.Errorf("decode: %w", err)
	}
	if len(doc.Series) == 0 {
		return Dataset{}, ErrEmpty
	}
	var ds Dataset
	if doc.Domain != nil {
		if len(doc.Domain) != 2 {
			return Dataset{}, ErrBadDomain
		}
		ds.Domain = &types.Domain{Min: doc.Domain[0], Max: doc.Domain[1]}
	}
	for i, rs := range doc.Series {
		s := types.Series{Key: rs.Key, Name: rs.Name, Color: rs.Color}
		if s.Key == "" {
			s.Key = fmt.Sprintf("series-%d", i)
		}
		s.Points = make([]types.DataPoint, 0, len(rs.Points))
		for j, raw := range rs.Points {
			p, err := decodePoint(raw)
			if err != nil {
				return Dataset{}, fmt.Errorf("series %q point %d: %w", s.Key, j, err)
			}
			s.Points = append(s.Points, p)
		}
		ds.Series = append(ds.Series, s)
	}
	return ds, nil
}

// ReadRecords decodes JSONL point records, grouping them by key in the order
// keys first appear. Blank lines and lines that are not JSON objects are
// skipped with a warning; name and color are taken from the first record of
// a key that carries them.
func ReadRecords(r io.Reader, name string) (Dataset, error) {
	reader := bufio.NewReader(r)
	index := map[string]int{}
	var ds Dataset
	lineNo := 0
readLoop:
	for {
		var line []byte
		for {
			part, rerr := reader.ReadBytes('\n')
			if len(part) > 0 {
				if len(line)+len(part) > MaxLineBytes {
					return Dataset{}, fmt.Errorf("%w: %d bytes exceeds limit %d", ErrLineTooBig, len(line)+len(part), MaxLineBytes)
				}
				line = append(line, part...)
			}
			if rerr == nil {
				break
			}
			if errors.Is(rerr, io.EOF) {
				if len(line) == 0 {
					break readLoop
				}
				break
			}
			return Dataset{}, fmt.Errorf("read: %w", rerr)
		}
		lineNo++
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			logger.Warnf("%s:%d skipped: %v", name, lineNo, err)
			continue
		}
		p, err := decodePoint(line)
		if err != nil {
			logger.Warnf("%s:%d skipped: %v", name, lineNo, err)
			continue
		}
		i, ok := index[rec.Key]
		if !ok {
			i = len(ds.Series)
			index[rec.Key] = i
			ds.Series = append(ds.Series, types.Series{Key: rec.Key})
		}
		s := &ds.Series[i]
		if s.Name == "" {
			s.Name = rec.Name
		}
		if s.Color == "" {
			s.Color = rec.Color
		}
		s.Points = append(s.Points, p)
	}
	if len(ds.Series) == 0 {
		return Dataset{}, ErrEmpty
	}
	return ds, nil
}

// recordFields are not copied into DataPoint.Extra.
var recordFields = map[string]bool{"x": true, "y": true, "key": true, "name": true, "color": true}

func decodePoint(raw []byte) (types.DataPoint, error) {
	var rp rawPoint
	if err := json.Unmarshal(raw, &rp); err != nil {
		return types.DataPoint{}, fmt.Errorf("%w: %v", ErrBadPoint, err)
	}
	p := types.DataPoint{Y: math.NaN()}
	if rp.Y != nil {
		p.Y = *rp.Y
	}
	x, err := decodeTime(rp.X)
	if err != nil {
		return types.DataPoint{}, err
	}
	p.X = x

	var all map[string]any
	if err := json.Unmarshal(raw, &all); err == nil {
		for k, v := range all {
			if recordFields[k] {
				continue
			}
			if p.Extra == nil {
				p.Extra = map[string]any{}
			}
			p.Extra[k] = v
		}
	}
	return p, nil
}

// decodeTime accepts a date string, Unix milliseconds, or null/missing (the
// zero time, which marks the point invalid).
func decodeTime(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrBadPoint, err)
		}
		t, err := types.ParseTime(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrBadPoint, err)
		}
		return t, nil
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return time.Time{}, fmt.Errorf("%w: x must be a date or unix milliseconds", ErrBadPoint)
	}
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, nil
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}
