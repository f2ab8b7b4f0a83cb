// Streaming pipeline: reader -> validator -> sampler or direct aggregation -> composition

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
)

// Mode selects which accepted reads contribute to the composition
type Mode int

const (
	// ModeSample aggregates a reservoir sample of TargetCount accepted reads
	ModeSample Mode = iota
	// ModeHead aggregates the first TargetCount accepted reads
	ModeHead
	// ModeAll aggregates every accepted read
	ModeAll
)

func parseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "sample":
		return ModeSample, nil
	case "head":
		return ModeHead, nil
	case "all":
		return ModeAll, nil
	default:
		return 0, fmt.Errorf("invalid mode: %s (must be sample, head or all)", s)
	}
}

// RunStats summarises one pass over the input
type RunStats struct {
	Records    int
	Accepted   int
	Rejected   RejectCounts
	Extracted  int
	Colorspace bool
}

func (s RunStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("records", s.Records),
		slog.Int("accepted", s.Accepted),
		slog.Int("rejected", s.Rejected.Total()),
		slog.Int("extracted", s.Extracted),
		slog.Bool("colorspace", s.Colorspace),
	)
}

// readStream couples a record reader with its validator
type readStream struct {
	reader    *RecordReader
	validator *ReadValidator
	logger    *slog.Logger

	accepted   int
	colorspace bool
}

func newReadStream(r io.Reader, cfg FilterConfig, logger *slog.Logger) *readStream {
	return &readStream{
		reader:    NewRecordReader(r, cfg.trim(), logger),
		validator: NewReadValidator(cfg, logger),
		logger:    logger,
	}
}

// each calls fn for every accepted (trimmed) read until the input ends, the
// validator signals a colorspace stop, or fn returns false
func (s *readStream) each(fn func(*Record) (bool, error)) error {
	for {
		rec, err := s.reader.ReadNext()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch s.validator.Check(rec) {
		case Reject:
			continue
		case Stop:
			s.colorspace = true
			return nil
		}

		s.accepted++
		more, err := fn(rec)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

func (s *readStream) stats() RunStats {
	return RunStats{
		Records:    s.reader.Records(),
		Accepted:   s.accepted,
		Rejected:   s.validator.Rejected,
		Colorspace: s.colorspace,
	}
}

func targetInt(target uint64) (int, error) {
	if target > math.MaxInt32 {
		return 0, fmt.Errorf("target count %d is too large", target)
	}
	return int(target), nil
}

// extractComposition runs the pipeline over r and returns the finalized
// composition table. A colorspace stop or an early end of input is not an
// error: whatever was aggregated so far is returned
func extractComposition(r io.Reader, cfg FilterConfig, mode Mode, rng Random, logger *slog.Logger) (*CompositionTable, RunStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	table := NewCompositionTable()
	stream := newReadStream(r, cfg, logger)

	k, err := targetInt(cfg.TargetCount)
	if err != nil {
		return nil, RunStats{}, err
	}

	switch mode {
	case ModeSample:
		res := NewReservoir[string](k, rng)
		err = stream.each(func(rec *Record) (bool, error) {
			res.Offer(strings.Clone(rec.Seq))
			return true, nil
		})
		if err == nil {
			for _, seq := range res.Items() {
				if err = table.Extract(seq); err != nil {
					break
				}
			}
		}
	case ModeHead:
		if k > 0 {
			err = stream.each(func(rec *Record) (bool, error) {
				if err := table.Extract(rec.Seq); err != nil {
					return false, err
				}
				return table.Extracted() < k, nil
			})
		}
	case ModeAll:
		err = stream.each(func(rec *Record) (bool, error) {
			return true, table.Extract(rec.Seq)
		})
	default:
		err = fmt.Errorf("unsupported mode: %d", mode)
	}

	stats := stream.stats()
	stats.Extracted = table.Extracted()
	if err != nil {
		return nil, stats, err
	}

	if stats.Accepted < k && mode != ModeAll && !stats.Colorspace {
		logger.Info("input ended before the target read count was reached", "target", k, "accepted", stats.Accepted)
	}
	if err := table.Finalize(); err != nil {
		return nil, stats, err
	}
	logger.Info("composition extracted", "stats", stats)
	return table, stats, nil
}
