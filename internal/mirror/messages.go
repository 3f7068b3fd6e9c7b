// Package mirror keeps the family's Google Sheet in step with a local
// backend. The service publishes one event per row write to a durable
// queue; an out-of-process worker replays them against the sheet. Reads
// never touch the mirror.
package mirror

import (
	"encoding/json"
	"fmt"
	"time"
)

// Row-change operations carried by a RowEvent.
const (
	OpAppend = "append"
	OpUpdate = "update"
	OpClear  = "clear"
)

// RowEvent describes one write against a partition. Events carry the full
// row payload so the worker never has to read the local store back; the
// header rides along so the worker can create missing sheet tabs.
type RowEvent struct {
	Op        string    `json:"op"`
	Partition string    `json:"partition"`
	Header    []string  `json:"header,omitempty"`
	Index     int       `json:"index"`
	Cells     []string  `json:"cells,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRowEvent(op, partition string, index int, cells []string) *RowEvent {
	return &RowEvent{
		Op:        op,
		Partition: partition,
		Index:     index,
		Cells:     cells,
		Timestamp: time.Now().UTC(),
	}
}

func (e *RowEvent) Validate() error {
	switch e.Op {
	case OpAppend, OpUpdate, OpClear:
	default:
		return fmt.Errorf("unknown row event op %q", e.Op)
	}
	if e.Partition == "" {
		return fmt.Errorf("row event without partition")
	}
	return nil
}

func (e *RowEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func RowEventFromJSON(data []byte) (*RowEvent, error) {
	var e RowEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
