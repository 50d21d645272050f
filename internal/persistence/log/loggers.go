package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"hexsettlers/internal/sim/match"
)

// TurnFilePrefix starts every turn log file name.
const TurnFilePrefix = "turns"

// maxHourFiles bounds the fresh files one hour may hold, one per reopen.
const maxHourFiles = 1000

var ErrClosed = errors.New("log: writer closed")

// JSONLZstdWriter appends JSON lines to hourly zstd files named
// <prefix>-YYYY-MM-DD-HH.jsonl.zst. Every line is its own zstd frame, so a
// torn write only damages the last line of a file. A writer never appends to
// a file it did not create: reopening in the same hour starts
// <prefix>-YYYY-MM-DD-HH_NNN.jsonl.zst, which sorts after the base name.
type JSONLZstdWriter struct {
	baseDir string
	prefix  string

	now func() time.Time

	mu      sync.Mutex
	closed  bool
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

// Close flushes the current file. Later writes fail with ErrClosed.
func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return w.closeLocked()
}

func (w *JSONLZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	hour := w.now().UTC().Format("2006-01-02-15")
	if hour != w.curHour || w.w == nil {
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
	if err := w.w.Flush(); err != nil {
		return err
	}
	// End the frame here; the next line starts a new one.
	if err := w.enc.Close(); err != nil {
		return err
	}
	w.enc.Reset(w.f)
	return nil
}

func (w *JSONLZstdWriter) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return err
	}
	f, err := w.createLocked(hour)
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
	w.w = bufio.NewWriterSize(enc, 128*1024)
	w.curHour = hour
	return nil
}

func (w *JSONLZstdWriter) createLocked(hour string) (*os.File, error) {
	for n := 0; n < maxHourFiles; n++ {
		f, err := os.OpenFile(w.pathForHour(hour, n), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		return f, err
	}
	return nil, fmt.Errorf("log: %d files already open for hour %s", maxHourFiles, hour)
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

func (w *JSONLZstdWriter) pathForHour(hour string, n int) string {
	name := fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour)
	if n > 0 {
		name = fmt.Sprintf("%s-%s_%03d.jsonl.zst", w.prefix, hour, n)
	}
	return filepath.Join(w.baseDir, name)
}

// TurnLogger writes one JSONL entry per command (compressed) under
// <matchDir>/turns.
type TurnLogger struct{ w *JSONLZstdWriter }

func NewTurnLogger(matchDir string) *TurnLogger {
	return &TurnLogger{w: NewJSONLZstdWriter(filepath.Join(matchDir, "turns"), TurnFilePrefix)}
}

func (l *TurnLogger) WriteTurn(v match.TurnLogEntry) error { return l.w.Write(v) }
func (l *TurnLogger) Close() error                         { return l.w.Close() }
