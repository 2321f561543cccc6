package partitioner

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// AssignmentEvent is one line of the assignment log.
type AssignmentEvent struct {
	Step        int    `json:"step"`
	Strategy    string `json:"strategy"`
	Vertex      int    `json:"vertex"`
	Block       int    `json:"block"`
	Weight      int    `json:"weight"`
	BlockWeight int    `json:"block_weight"`
	Timestamp   int64  `json:"timestamp"`
}

// AssignmentTracker writes every ledger assignment as a JSON line.
// All methods are no-ops on a nil tracker.
type AssignmentTracker struct {
	file     *os.File
	encoder  *json.Encoder
	strategy string
	step     int
	err      error
}

func NewAssignmentTracker(filename, strategy string) (*AssignmentTracker, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment log: %w", err)
	}

	return &AssignmentTracker{
		file:     file,
		encoder:  json.NewEncoder(file),
		strategy: strategy,
	}, nil
}

func (at *AssignmentTracker) LogAssignment(vertex, block, weight, blockWeight int) {
	if at == nil || at.err != nil {
		return
	}

	at.step++
	at.err = at.encoder.Encode(AssignmentEvent{
		Step:        at.step,
		Strategy:    at.strategy,
		Vertex:      vertex,
		Block:       block,
		Weight:      weight,
		BlockWeight: blockWeight,
		Timestamp:   time.Now().Unix(),
	})
}

// Close closes the log and reports the first write error, if any.
func (at *AssignmentTracker) Close() error {
	if at == nil || at.file == nil {
		return nil
	}
	closeErr := at.file.Close()
	if at.err != nil {
		return fmt.Errorf("failed to write assignment log: %w", at.err)
	}
	return closeErr
}
