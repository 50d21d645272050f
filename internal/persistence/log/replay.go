package log

import (
	"fmt"

	"hexsettlers/internal/sim/match"
)

// Replay re-applies every logged command from m's current seq onward and
// checks that each step reproduces the recorded digest and code. It returns
// the number of commands applied and the files whose torn last line was
// skipped; the command on a torn line is lost, not failed.
func Replay(m *match.Match, turnsDir string) (int, []string, error) {
	n := 0
	torn, err := ReadTurnsFrom(turnsDir, m.Seq(), func(e match.TurnLogEntry) error {
		seq, digest, code := m.StepOnce(e.Seat, e.Cmd)
		if seq != e.Seq {
			return fmt.Errorf("replay: logged seq %d applied at %d", e.Seq, seq)
		}
		if code != e.Code {
			return fmt.Errorf("replay: seq %d: code %q, logged %q", e.Seq, code, e.Code)
		}
		if digest != e.Digest {
			return fmt.Errorf("replay: seq %d: digest mismatch", e.Seq)
		}
		n++
		return nil
	})
	return n, torn, err
}
