package types

import (
	"sync/atomic"
)

type StatisticsItem struct {
	Count uint64 `json:",omitempty"`
	Bytes uint64 `json:",omitempty"`
}

type CountersItem struct {
	Count atomic.Uint64
	Bytes atomic.Uint64
}

func NewCountersItem() *CountersItem {
	return &CountersItem{}
}

func (c *CountersItem) Increment(msgSize uint64) {
	c.Count.Add(1)
	c.Bytes.Add(msgSize)
}

func (c *CountersItem) ToStats() StatisticsItem {
	return StatisticsItem{
		Count: c.Count.Load(),
		Bytes: c.Bytes.Load(),
	}
}

// PinStatistics is a snapshot of PinCounters.
type PinStatistics struct {
	Sent      StatisticsItem `json:",omitempty"`
	Received  StatisticsItem `json:",omitempty"`
	Processed StatisticsItem `json:",omitempty"`
	Returned  StatisticsItem `json:",omitempty"`
	Reclaimed StatisticsItem `json:",omitempty"`
}

// PinCounters counts buffers passing through each step of the pin
// buffer-exchange protocol.
type PinCounters struct {
	Sent      CountersItem
	Received  CountersItem
	Processed CountersItem
	Returned  CountersItem
	Reclaimed CountersItem
}

func (c *PinCounters) ToStats() PinStatistics {
	return PinStatistics{
		Sent:      c.Sent.ToStats(),
		Received:  c.Received.ToStats(),
		Processed: c.Processed.ToStats(),
		Returned:  c.Returned.ToStats(),
		Reclaimed: c.Reclaimed.ToStats(),
	}
}

// InFlight returns how many buffers were sent but not yet reclaimed
// by the producer.
func (s PinStatistics) InFlight() uint64 {
	return s.Sent.Count - s.Reclaimed.Count
}
