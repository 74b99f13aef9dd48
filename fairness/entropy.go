package fairness

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// entropyStream yields deterministic pseudo-random integers from an HMAC-SHA256
// keyed by the server seed. Each 32-byte block covers eight uint32 values;
// successive blocks bump an internal counter so the stream never repeats.
type entropyStream struct {
	serverSeed string
	clientSeed string
	nonce      int64
	counter    int
	block      []byte
	offset     int
}

func newEntropyStream(serverSeed, clientSeed string, nonce int64) *entropyStream {
	return &entropyStream{
		serverSeed: serverSeed,
		clientSeed: clientSeed,
		nonce:      nonce,
	}
}

func (s *entropyStream) nextBlock() {
	mac := hmac.New(sha256.New, []byte(s.serverSeed))
	fmt.Fprintf(mac, "%s:%d:%d", s.clientSeed, s.nonce, s.counter)
	s.block = mac.Sum(nil)
	s.counter++
	s.offset = 0
}

// next32 returns the next uint32 from the stream.
func (s *entropyStream) next32() uint32 {
	if s.block == nil || s.offset+4 > len(s.block) {
		s.nextBlock()
	}
	v := binary.BigEndian.Uint32(s.block[s.offset:])
	s.offset += 4
	return v
}

// intn returns an unbiased integer in [0, max). Values that would skew the
// modulo are rejected and redrawn.
func (s *entropyStream) intn(max int) int {
	if max <= 0 {
		panic("fairness: intn max must be positive")
	}
	bound := uint32(max)
	limit := ^uint32(0) - ^uint32(0)%bound
	for {
		v := s.next32()
		if v < limit {
			return int(v % bound)
		}
	}
}
