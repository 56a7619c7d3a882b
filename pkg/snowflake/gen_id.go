package snowflake

import (
	"fmt"
	"time"

	"github.com/sony/sonyflake"
)

// Epoch is 1 Baisakh 2081 (13 April 2024), the start of the first billing
// year the service issues serials for.
var Epoch = time.Date(2024, time.April, 13, 0, 0, 0, 0, time.UTC)

// Generator issues time-ordered, unique bill serials.
type Generator struct {
	node *sonyflake.Sonyflake
}

// NewGenerator creates a generator for one machine. Two processes sharing a
// machine id can issue the same serial.
func NewGenerator(machineID uint16) (*Generator, error) {
	sf, err := sonyflake.New(sonyflake.Settings{
		StartTime: Epoch,
		MachineID: func() (uint16, error) { return machineID, nil },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sonyflake node %d: %w", machineID, err)
	}
	return &Generator{node: sf}, nil
}

// GetID returns the next serial.
func (g *Generator) GetID() (uint64, error) {
	id, err := g.node.NextID()
	if err != nil {
		return 0, fmt.Errorf("failed to issue serial: %w", err)
	}
	return id, nil
}
