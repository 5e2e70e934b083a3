// Package matrix enumerates benchmark scenarios.
//
// Build is a pure function: the cross product of datasets, codecs, and KEM
// profiles in dataset-major order, so repeated runs produce identical,
// diffable scenario lists.
package matrix

import (
	"fmt"

	"github.com/iotsec-lab/pqcbench/pkg/codec"
	"github.com/iotsec-lab/pqcbench/pkg/dataset"
	"github.com/iotsec-lab/pqcbench/pkg/kem"
)

// Spec is one (dataset, codec, KEM profile) combination, the unit of work
// for the measurement engine. Identity is the tuple of the three names.
type Spec struct {
	Dataset dataset.Dataset
	Codec   codec.Codec
	KEM     *kem.Profile
}

// ID returns the canonical scenario identifier.
func (s Spec) ID() string {
	return fmt.Sprintf("%s/%s/%s", s.Dataset.Name, s.Codec.Name(), s.KEM.Name())
}

// Build returns the full cross product as scenario specs, ordered
// dataset-major, then codec, then KEM security level.
func Build(datasets []dataset.Dataset, codecs []codec.Codec, kems []*kem.Profile) []Spec {
	specs := make([]Spec, 0, len(datasets)*len(codecs)*len(kems))
	for _, d := range datasets {
		for _, c := range codecs {
			for _, k := range kems {
				specs = append(specs, Spec{Dataset: d, Codec: c, KEM: k})
			}
		}
	}
	return specs
}

// Index maps scenario IDs to their canonical position, used by the reporter
// to restore matrix order regardless of completion order.
func Index(specs []Spec) map[string]int {
	idx := make(map[string]int, len(specs))
	for i, s := range specs {
		idx[s.ID()] = i
	}
	return idx
}
