package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"hexsettlers/internal/sim/match"
)

// ListFiles returns the <prefix>-*.jsonl.zst files in dir in write order.
func ListFiles(dir, prefix string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, prefix+"-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

// TornTailError reports a turn log file whose last line never finished
// writing. Every complete line before it was delivered.
type TornTailError struct {
	Path string
	Err  error
}

func (e *TornTailError) Error() string {
	return fmt.Sprintf("%s: torn tail: %v", filepath.Base(e.Path), e.Err)
}

func (e *TornTailError) Unwrap() error { return e.Err }

// ReadTurns streams every entry of one turn log file to fn. It stops at the
// first error fn returns. A file cut short mid-line yields *TornTailError
// after the complete lines.
func ReadTurns(path string, fn func(match.TurnLogEntry) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	r := bufio.NewReaderSize(dec, 64*1024)
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			if err == io.EOF && len(line) == 0 {
				return nil
			}
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return &TornTailError{Path: path, Err: err}
		}
		var entry match.TurnLogEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
}

// ReadTurnsFrom streams, in order, every entry under dir with seq >= from.
// A missing directory holds no entries. Files with a torn tail are returned
// in torn and reading goes on with the next file; a gap in the sequence is
// an error.
func ReadTurnsFrom(dir string, from uint64, fn func(match.TurnLogEntry) error) (torn []string, err error) {
	files, err := ListFiles(dir, TurnFilePrefix)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	next := from
	for _, path := range files {
		err := ReadTurns(path, func(e match.TurnLogEntry) error {
			if e.Seq < next {
				return nil
			}
			if e.Seq != next {
				return fmt.Errorf("turn log gap: want seq %d, got %d", next, e.Seq)
			}
			next++
			return fn(e)
		})
		var tt *TornTailError
		if errors.As(err, &tt) {
			torn = append(torn, path)
			continue
		}
		if err != nil {
			return torn, err
		}
	}
	return torn, nil
}
