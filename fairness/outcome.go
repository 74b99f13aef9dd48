package fairness

import (
	"crypto/sha256"
	"fmt"
	"math/big"
)

// WheelSlots is the number of pockets on a European roulette wheel, 0 to 36.
const WheelSlots = 37

// Outcome derives the winning roulette number for a round from its server
// seed and round number. The derivation is pure, so a player holding the
// revealed seed can recompute the result independently.
func Outcome(serverSeed string, roundNumber int64) int {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", serverSeed, roundNumber)))
	n := new(big.Int).SetBytes(sum[:])
	return int(n.Mod(n, big.NewInt(WheelSlots)).Int64())
}
