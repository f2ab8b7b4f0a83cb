// Subcommand (`fastq2comp sample`) for reservoir-sampling FASTQ reads.
// Sampled reads are written as FASTQ instead of being aggregated

package main

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/maruel/natural"
	"github.com/spf13/cobra"
)

// sampledRead is a reservoir entry. When compression is enabled, data holds
// the zstd-compressed sequence and quality concatenated
type sampledRead struct {
	Header string
	Data   []byte
	SeqLen int
}

// readPacker stores sampled reads either raw or zstd-compressed
type readPacker struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// newReadPacker creates a packer. compLevel 0 disables compression
func newReadPacker(compLevel int) (*readPacker, error) {
	if compLevel == 0 {
		return &readPacker{}, nil
	}
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(compLevel)))
	if err != nil {
		return nil, fmt.Errorf("error creating ZSTD encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("error creating ZSTD decoder: %w", err)
	}
	return &readPacker{encoder: encoder, decoder: decoder}, nil
}

func (p *readPacker) Close() {
	if p.encoder != nil {
		p.encoder.Close()
	}
	if p.decoder != nil {
		p.decoder.Close()
	}
}

func (p *readPacker) pack(rec *Record) sampledRead {
	data := make([]byte, 0, len(rec.Seq)+len(rec.Qual))
	data = append(data, rec.Seq...)
	data = append(data, rec.Qual...)
	if p.encoder != nil {
		data = p.encoder.EncodeAll(data, make([]byte, 0, len(data)))
	}
	return sampledRead{Header: strings.Clone(rec.Header), Data: data, SeqLen: len(rec.Seq)}
}

func (p *readPacker) unpack(s sampledRead) (*Record, error) {
	data := s.Data
	if p.decoder != nil {
		var err error
		data, err = p.decoder.DecodeAll(s.Data, nil)
		if err != nil {
			return nil, fmt.Errorf("error decompressing record: %w", err)
		}
	}
	if s.SeqLen > len(data) {
		return nil, fmt.Errorf("corrupted sampled record %q", s.Header)
	}
	return &Record{Header: s.Header, Seq: string(data[:s.SeqLen]), Qual: string(data[s.SeqLen:])}, nil
}

// sortByID orders sampled reads by read ID using natural ordering
func sortByID(reads []sampledRead) {
	sort.SliceStable(reads, func(i, j int) bool {
		return natural.Less(recordID(reads[i].Header), recordID(reads[j].Header))
	})
}

// SampleCommand creates the `sample` subcommand, which writes a uniform random
// subset of the accepted (and trimmed) reads as FASTQ
func SampleCommand(opts *globalOptions) *cobra.Command {
	var (
		inFile    string
		outFile   string
		compLevel int
		sortIDs   bool
		seed      int64
		filters   filterFlags
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Reservoir-sample FASTQ reads that pass the filters",
		Long: `Select a uniform random sample of reads that pass the quality, N-content and
length filters, in a single pass over the input, and write them as FASTQ.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if compLevel < 0 || compLevel > 22 {
				return fmt.Errorf("compression level must be between 0 and 22")
			}
			cfg, err := filters.resolve(cmd)
			if err != nil {
				return err
			}
			logger := opts.logger()
			logger.Info("arguments received", "in", inFile, "out", outFile, "config", cfg)

			stats, err := runSample(inFile, outFile, cfg, compLevel, sortIDs, newRandom(seed), logger)
			if err != nil {
				return err
			}
			opts.summary("Sampled %d reads.", stats.Extracted)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&inFile, "in", "i", "-", "Input FASTQ file (default: stdin)")
	flags.StringVarP(&outFile, "out", "o", "-", "Output FASTQ file (default: stdout)")
	flags.IntVarP(&compLevel, "compress", "c", 0, "Memory compression level for sampled reads (0=disabled, 1-22)")
	flags.BoolVar(&sortIDs, "sort-ids", false, "Write sampled reads in natural order of read ID")
	flags.Int64Var(&seed, "seed", 0, "Random seed (0 = seed from current time)")
	filters.register(cmd, true)

	return cmd
}

// runSample samples accepted reads from inFile and writes them to outFile.
// Stats.Extracted holds the number of reads written
func runSample(inFile, outFile string, cfg FilterConfig, compLevel int, sortIDs bool, rng Random, logger *slog.Logger) (RunStats, error) {
	k, err := targetInt(cfg.TargetCount)
	if err != nil {
		return RunStats{}, err
	}

	packer, err := newReadPacker(compLevel)
	if err != nil {
		return RunStats{}, err
	}
	defer packer.Close()

	infh, err := openInput(inFile)
	if err != nil {
		return RunStats{}, err
	}
	defer infh.Close()

	stream := newReadStream(infh, cfg, logger)
	res := NewReservoir[sampledRead](k, rng)
	err = stream.each(func(rec *Record) (bool, error) {
		res.Offer(packer.pack(rec))
		return true, nil
	})
	stats := stream.stats()
	if err != nil {
		return stats, err
	}

	reads := res.Items()
	if sortIDs {
		sortByID(reads)
	}

	outfh, err := openOutput(outFile)
	if err != nil {
		return stats, err
	}
	for _, s := range reads {
		rec, err := packer.unpack(s)
		if err != nil {
			outfh.Close()
			return stats, err
		}
		writeRecord(outfh, rec)
		stats.Extracted++
	}
	if err := closeOutput(outfh); err != nil {
		return stats, err
	}
	logger.Info("reads sampled", "stats", stats)
	return stats, nil
}
