package scenario

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// TranscriptLine is one pilot transmission in a JSONL transcript.
type TranscriptLine struct {
	Message string `json:"message"`
}

// Replay starts a scenario from p and runs every transcript line through
// Step, writing one Turn per line as JSONL. Blank lines are skipped.
func (s *Session) Replay(r io.Reader, w io.Writer, p Params) error {
	data, err := s.StartData(p)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var tl TranscriptLine
		if err := json.Unmarshal([]byte(line), &tl); err != nil {
			return fmt.Errorf("transcript line %d: %w", lineNo, err)
		}
		turn, err := s.Step(data, tl.Message)
		if err != nil {
			return err
		}
		if err := enc.Encode(turn); err != nil {
			return fmt.Errorf("write turn %d: %w", lineNo, err)
		}
		data.CurrentState = turn.State
	}
	return sc.Err()
}
