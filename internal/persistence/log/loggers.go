package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"craftlab.ai/internal/crafting/lab"
)

// JSONLZstdWriter appends JSON lines to hourly zstd-compressed files named
// <prefix>-YYYY-MM-DD-HH.jsonl.zst.
type JSONLZstdWriter struct {
	baseDir string
	prefix  string
	now     func() time.Time

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewJSONLZstdWriter(baseDir, prefix string) *JSONLZstdWriter {
	return &JSONLZstdWriter{
		baseDir: baseDir,
		prefix:  prefix,
		now:     time.Now,
	}
}

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hour := w.now().UTC().Format("2006-01-02-15")
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *JSONLZstdWriter) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return err
	}
	// Each hour gets its own zstd frame; reopening an hour appends a frame.
	f, err := os.OpenFile(w.pathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	w.curHour = hour
	return nil
}

func (w *JSONLZstdWriter) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	w.curHour = ""
	return err1
}

func (w *JSONLZstdWriter) pathForHour(hour string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

// RunEntry is one matching pass as written to the run log.
type RunEntry struct {
	PassID     string    `json:"pass_id"`
	At         time.Time `json:"at"`
	Schematic  string    `json:"schematic"`
	Taxonomy   string    `json:"taxonomy_digest,omitempty"`
	ResLimit   int       `json:"res_limit"`
	Candidates int       `json:"candidates"`
	Rows       []RunRow  `json:"rows"`
}

type RunRow struct {
	Line       string  `json:"line"`
	Class      string  `json:"class"`
	Weights    string  `json:"weights"`
	Header     bool    `json:"header,omitempty"`
	ResourceID int64   `json:"resource_id,omitempty"`
	Resource   string  `json:"resource,omitempty"`
	Score      float64 `json:"score,omitempty"`
	Marker     int64   `json:"marker,omitempty"`
}

// NewRunEntry flattens matcher output into a log record with a fresh pass id.
func NewRunEntry(schematic string, resLimit, candidates int, rows []lab.Row) RunEntry {
	e := RunEntry{
		PassID:     uuid.NewString(),
		At:         time.Now().UTC(),
		Schematic:  schematic,
		ResLimit:   lab.ClampLimit(resLimit),
		Candidates: candidates,
		Rows:       make([]RunRow, 0, len(rows)),
	}
	for _, r := range rows {
		rr := RunRow{
			Line:    r.Line.Name(),
			Class:   r.Line.Class.Token(),
			Weights: r.Line.Weights.String(),
			Header:  r.IsHeader(),
		}
		if r.Resource != nil {
			rr.ResourceID = r.Resource.ID
			rr.Resource = r.Resource.Name
			rr.Score = r.Score
			rr.Marker = r.Marker.Int()
		}
		e.Rows = append(e.Rows, rr)
	}
	return e
}

// MatchLogger writes one compressed JSONL entry per matching pass.
type MatchLogger struct{ w *JSONLZstdWriter }

func NewMatchLogger(dir string) *MatchLogger {
	return &MatchLogger{w: NewJSONLZstdWriter(dir, "runs")}
}

func (l *MatchLogger) WriteRun(v RunEntry) error { return l.w.Write(v) }
func (l *MatchLogger) Close() error              { return l.w.Close() }

// ReadRuns decodes every entry in a run log file.
func ReadRuns(path string) ([]RunEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []RunEntry
	jd := json.NewDecoder(dec)
	for {
		var e RunEntry
		if err := jd.Decode(&e); err == io.EOF {
			break
		} else if err != nil {
			return out, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		out = append(out, e)
	}
	return out, nil
}

// RunFiles lists run log files in dir, oldest first.
func RunFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "runs-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
