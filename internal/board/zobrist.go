package board

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
// Side to move is deliberately not part of Position.Hash; tables that must
// tell the sides apart mix in ZobristSide.
var (
	zobristPiece [2][NumSquares]uint64 // [Color][Square]
	zobristBlack uint64                // Black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0xF1A4C0B0A2D9E3B7)

	for c := Black; c <= White; c++ {
		for sq := Square(0); sq < NoSquare; sq++ {
			zobristPiece[c][sq] = rng.next()
		}
	}
	zobristBlack = rng.next()
}

// ZobristSide returns the key for side to move c. White, who moves first,
// maps to zero so a White-to-move key equals Position.Hash.
func ZobristSide(c Color) uint64 {
	if c == Black {
		return zobristBlack
	}
	return 0
}
