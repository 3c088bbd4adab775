package escrowfuzz

import (
	fuzz "github.com/google/gofuzz"
)

// Fuzz decodes an input from data and runs it. It panics when an invariant
// is violated.
func Fuzz(data []byte) int {
	var in Input
	fuzz.NewFromGoFuzz(data).NilChance(0).NumElements(0, 64).Fuzz(&in)
	if err := Run(in); err != nil {
		panic(err)
	}
	if len(in.Steps) == 0 {
		return 0
	}
	return 1
}
