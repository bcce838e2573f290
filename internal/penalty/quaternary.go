package penalty

import (
	"encoding/gob"
	"io"

	"github.com/pkg/errors"

	"github.com/neurlang/quaternary"
)

// quantLevels buckets a Table into a small number of discrete penalty
// levels so the on-disk representation can use quaternary's compact
// membership encoding (the same succinct bitset hashtron.Hashtron keeps its
// own learned filter in) instead of a sparse float64 map.
const quantLevels = 4

// EncodeQuantized buckets each id's penalty into quantLevels discrete
// levels by magnitude and returns one quaternary-encoded membership set per
// non-zero level, plus the per-level penalty value each set represents.
// Level 0 is never stored explicitly: any id absent from every returned set
// is level 0. Levels are floored, so level 0 holds the unpenalized ids and
// every id whose penalty is below max/(quantLevels-1).
func EncodeQuantized(t Table) (sets [][]byte, levelValue []float64) {
	if len(t) == 0 {
		return nil, nil
	}
	var max float64
	for _, v := range t {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return nil, nil
	}

	levelValue = make([]float64, quantLevels)
	for l := 1; l < quantLevels; l++ {
		levelValue[l] = max * float64(l) / float64(quantLevels-1)
	}

	membership := make([]map[uint32]bool, quantLevels)
	for l := range membership {
		membership[l] = make(map[uint32]bool)
	}
	for id, v := range t {
		level := bucket(v, max)
		if level == 0 {
			continue
		}
		membership[level][uint32(id)] = true
	}

	sets = make([][]byte, quantLevels)
	for l := 1; l < quantLevels; l++ {
		if len(membership[l]) == 0 {
			continue
		}
		sets[l] = quaternary.Make(membership[l])
	}
	return sets, levelValue
}

// quantizedTable is the on-disk encoding SaveQuantized writes: one
// quaternary-encoded membership set per non-zero level, plus the per-level
// penalty value each set represents.
type quantizedTable struct {
	Sets       [][]byte
	LevelValue []float64
}

// SaveQuantized writes t's quantized encoding to w, the compact side-channel
// artifact write_model hands off alongside the joint-symbol model WFST:
// downstream tooling that only needs approximate per-id penalty levels can
// consume this instead of a sparse float64 map.
func SaveQuantized(w io.Writer, t Table) error {
	sets, levelValue := EncodeQuantized(t)
	return errors.Wrap(gob.NewEncoder(w).Encode(quantizedTable{Sets: sets, LevelValue: levelValue}), "write quantized penalty table")
}

func bucket(v, max float64) int {
	if max == 0 {
		return 0
	}
	level := int(v / max * float64(quantLevels-1))
	if level >= quantLevels {
		level = quantLevels - 1
	}
	return level
}
