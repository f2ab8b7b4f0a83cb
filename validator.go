// Read validation: trimming, colorspace detection, N-content and quality filters

package main

import (
	"log/slog"
	"regexp"
)

// Verdict is the outcome of validating a single read
type Verdict int

const (
	Accept Verdict = iota
	Reject
	// Stop ends the whole run: the input looks like colorspace data
	Stop
)

func (v Verdict) String() string {
	switch v {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// RejectCounts tallies rejected reads by reason
type RejectCounts struct {
	TooShort       int
	NContent       int
	LowQuality     int
	ExpectedErrors int
}

func (c RejectCounts) Total() int {
	return c.TooShort + c.NContent + c.LowQuality + c.ExpectedErrors
}

// ReadValidator applies the configured filters to parsed records
type ReadValidator struct {
	cfg        FilterConfig
	colorspace *regexp.Regexp
	logger     *slog.Logger

	Rejected RejectCounts
}

func NewReadValidator(cfg FilterConfig, logger *slog.Logger) *ReadValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReadValidator{
		cfg:        cfg,
		colorspace: regexp.MustCompile(`\d`),
		logger:     logger,
	}
}

// Check trims rec in place and decides whether it is accepted. The checks run
// in a fixed order: trim length, colorspace, N-content, average quality,
// expected errors. Colorspace detection yields Stop rather than Reject
func (v *ReadValidator) Check(rec *Record) Verdict {
	if v.cfg.TrimLength != nil {
		n := *v.cfg.TrimLength
		if len(rec.Seq) < n || len(rec.Qual) < n {
			v.logger.Debug("read shorter than trim length - skipping", "length", len(rec.Seq), "trim", n)
			v.Rejected.TooShort++
			return Reject
		}
		rec.Seq, rec.Qual = rec.Seq[:n], rec.Qual[:n]
	}

	if v.colorspace.MatchString(rec.Seq) {
		v.logger.Info("found numbers in reads - this is probably colorspace", "seq", rec.Seq)
		return Stop
	}

	if v.cfg.MaxNCount != nil {
		if n := countN(rec.Seq); n > *v.cfg.MaxNCount {
			v.logger.Debug("N count of current read too high - skipping", "n", n)
			v.Rejected.NContent++
			return Reject
		}
	}

	if q := averageQuality(rec.Qual); q < v.cfg.MinAvgQuality {
		v.logger.Debug("quality too low - skipping", "avg", q)
		v.Rejected.LowQuality++
		return Reject
	}

	if v.cfg.MaxExpectedErrors != nil {
		if ee := expectedErrors(rec.Qual); ee > *v.cfg.MaxExpectedErrors {
			v.logger.Debug("expected errors too high - skipping", "maxee", ee)
			v.Rejected.ExpectedErrors++
			return Reject
		}
	}

	return Accept
}
