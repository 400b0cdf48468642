package spi

import (
	"fmt"
	"math"
)

// HWUnitID identifies one hardware SPI unit.
type HWUnitID uint8

// ChannelID identifies one channel.
type ChannelID uint8

// JobID identifies one job.
type JobID uint16

// SequenceID identifies one sequence.
type SequenceID uint8

// HWUnit binds a unit id to its transceiver and bus settings.
type HWUnit struct {
	ID          HWUnitID
	Transceiver Transceiver
	Settings    Settings
}

// Channel is a logical data path bound to exactly one unit.
// Default is transmitted for jobs that carry no data.
type Channel struct {
	ID      ChannelID
	Unit    HWUnitID
	Default byte
}

// Job is one transfer unit on one channel.
type Job struct {
	ID      JobID
	Channel ChannelID
	Data    []byte
}

// Sequence is an ordered, non-empty list of jobs executed as one operation.
type Sequence struct {
	ID   SequenceID
	Jobs []JobID
}

// Config is the build-time topology handed to Init.
// Ids are dense: entry i of every table carries id i.
type Config struct {
	Units     []HWUnit
	Channels  []Channel
	Jobs      []Job
	Sequences []Sequence
}

// tables is the validated, immutable form of Config.
// Every id reachable from it is in range; lookups need no further checks.
type tables struct {
	units     []HWUnit
	channels  []Channel
	jobs      []Job
	sequences []Sequence

	jobUnit  []HWUnitID   // job id -> unit id
	seqUnits [][]HWUnitID // sequence id -> distinct units, first-use order
}

func buildTables(cfg *Config) (*tables, error) {
	if len(cfg.Units) == 0 {
		return nil, fmt.Errorf("%w: no hardware units configured", ErrInvalidArgument)
	}
	if len(cfg.Units) > math.MaxUint8+1 {
		return nil, fmt.Errorf("%w: too many units (%d)", ErrInvalidArgument, len(cfg.Units))
	}
	if len(cfg.Channels) > math.MaxUint8+1 {
		return nil, fmt.Errorf("%w: too many channels (%d)", ErrInvalidArgument, len(cfg.Channels))
	}
	if len(cfg.Jobs) > math.MaxUint16+1 {
		return nil, fmt.Errorf("%w: too many jobs (%d)", ErrInvalidArgument, len(cfg.Jobs))
	}
	if len(cfg.Sequences) > math.MaxUint8+1 {
		return nil, fmt.Errorf("%w: too many sequences (%d)", ErrInvalidArgument, len(cfg.Sequences))
	}

	// ---- UNITS ----

	for i, u := range cfg.Units {
		if int(u.ID) != i {
			return nil, fmt.Errorf("%w: unit at index %d has id %d", ErrInvalidID, i, u.ID)
		}
		if u.Transceiver == nil {
			return nil, fmt.Errorf("%w: unit %d has no transceiver", ErrInvalidArgument, u.ID)
		}
	}

	// ---- CHANNELS ----

	for i, c := range cfg.Channels {
		if int(c.ID) != i {
			return nil, fmt.Errorf("%w: channel at index %d has id %d", ErrInvalidID, i, c.ID)
		}
		if int(c.Unit) >= len(cfg.Units) {
			return nil, fmt.Errorf("%w: channel %d references unknown unit %d", ErrInvalidID, c.ID, c.Unit)
		}
	}

	// ---- JOBS ----

	jobUnit := make([]HWUnitID, len(cfg.Jobs))
	for i, j := range cfg.Jobs {
		if int(j.ID) != i {
			return nil, fmt.Errorf("%w: job at index %d has id %d", ErrInvalidID, i, j.ID)
		}
		if int(j.Channel) >= len(cfg.Channels) {
			return nil, fmt.Errorf("%w: job %d references unknown channel %d", ErrInvalidID, j.ID, j.Channel)
		}
		jobUnit[i] = cfg.Channels[j.Channel].Unit
	}

	// ---- SEQUENCES ----

	seqUnits := make([][]HWUnitID, len(cfg.Sequences))
	for i, s := range cfg.Sequences {
		if int(s.ID) != i {
			return nil, fmt.Errorf("%w: sequence at index %d has id %d", ErrInvalidID, i, s.ID)
		}
		if len(s.Jobs) == 0 {
			return nil, fmt.Errorf("%w: sequence %d has no jobs", ErrInvalidArgument, s.ID)
		}

		seen := make(map[HWUnitID]bool)
		for _, jid := range s.Jobs {
			if int(jid) >= len(cfg.Jobs) {
				return nil, fmt.Errorf("%w: sequence %d references unknown job %d", ErrInvalidID, s.ID, jid)
			}
			u := jobUnit[jid]
			if !seen[u] {
				seen[u] = true
				seqUnits[i] = append(seqUnits[i], u)
			}
		}
	}

	t := &tables{
		units:     make([]HWUnit, len(cfg.Units)),
		channels:  append([]Channel(nil), cfg.Channels...),
		jobs:      make([]Job, len(cfg.Jobs)),
		sequences: make([]Sequence, len(cfg.Sequences)),
		jobUnit:   jobUnit,
		seqUnits:  seqUnits,
	}

	for i, u := range cfg.Units {
		u.Settings = u.Settings.WithDefaults()
		t.units[i] = u
	}
	for i, j := range cfg.Jobs {
		j.Data = append([]byte(nil), j.Data...)
		t.jobs[i] = j
	}
	for i, s := range cfg.Sequences {
		s.Jobs = append([]JobID(nil), s.Jobs...)
		t.sequences[i] = s
	}

	return t, nil
}

func (t *tables) transceiverFor(ch ChannelID) (Transceiver, error) {
	if int(ch) >= len(t.channels) {
		return nil, fmt.Errorf("%w: channel %d", ErrInvalidID, ch)
	}
	return t.units[t.channels[ch].Unit].Transceiver, nil
}
