package race

import (
	"hash/fnv"

	"github.com/mpapenbr/racereplay/pkg/model"
)

// SynthesizeCompound derives a tire compound from the competitor identity.
// This is display filler for datasets without compound data. The result is
// stable for the same identity and never used for gap or rank computations.
func SynthesizeCompound(identity string) model.Compound {
	h := fnv.New32a()
	_, _ = h.Write([]byte(identity))
	return model.SynthCompounds[h.Sum32()%uint32(len(model.SynthCompounds))]
}
