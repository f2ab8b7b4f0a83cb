package main

import (
	"math"
	"strings"
)

var errorProbs [256]float64

func init() {
	// Pre-compute error probabilities for Phred scores
	for i := range errorProbs {
		errorProbs[i] = math.Pow(10, float64(i-PHRED_OFFSET)/-10)
	}
}

// Integer-truncated mean of Phred+33 scores (0 for an empty quality string)
func averageQuality(qual string) int {
	if len(qual) == 0 {
		return 0
	}
	sum := 0
	for i := 0; i < len(qual); i++ {
		sum += int(qual[i]) - PHRED_OFFSET
	}
	return sum / len(qual)
}

// Expected number of errors in a read (sum of error probabilities)
func expectedErrors(qual string) float64 {
	var sum float64
	for i := 0; i < len(qual); i++ {
		sum += errorProbs[qual[i]]
	}
	return sum
}

func countN(seq string) int {
	return strings.Count(seq, "N")
}
