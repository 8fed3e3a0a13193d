package core

// Ticks is the contract satisfied by every fixed-width counter value type.
// Hardware counters come in different widths (16, 24, 32 or 64 bits), wrap to
// zero when they overflow, and are sampled as unsigned values. All arithmetic
// on them is modular over 2^width, and the only valid way to decide temporal
// order across a wrap is WithinRange. Raw magnitude comparison of two tick
// values (the underlying unsigned compare) is meaningful for equality and for
// sorting, never for "has this time passed".
//
// The type parameter ties every method to its own concrete width, so
// higher layers can be generic over hardware width while mixed-width
// arithmetic stays a compile error.
type Ticks[T any] interface {
	comparable

	// Add returns the sum, wrapping on overflow using standard unsigned
	// arithmetic over the type's width.
	Add(T) T

	// Sub returns the difference, wrapping on underflow using standard
	// unsigned arithmetic over the type's width.
	Sub(T) T

	// WithinRange reports whether the value lies in [start, end) considering
	// wraparound: it is true if, incrementing from start, the value is
	// reached strictly before end. Equivalently, (t-start) < (end-start) in
	// unsigned modular arithmetic.
	WithinRange(start, end T) bool

	// Max returns the wrap point of the width, (2^width)-1.
	Max() T

	// FromUint64 builds a value of the same width from a widened integer,
	// truncating high bits. The receiver's own value is ignored; call it on
	// any value, typically the zero value.
	FromUint64(uint64) T

	// Uint32 narrows to uint32, stripping high bits on wider types and
	// zero-extending narrower ones. For display and wire encoding only,
	// never for temporal logic.
	Uint32() uint32

	// Uint64 widens losslessly to uint64.
	Uint64() uint64

	// Uint converts for bounded indexing, truncating or zero-extending to
	// the platform word.
	Uint() uint
}

// Ticks16 is a 16-bit counter value.
type Ticks16 uint16

func (t Ticks16) Add(o Ticks16) Ticks16 { return t + o }
func (t Ticks16) Sub(o Ticks16) Ticks16 { return t - o }

func (t Ticks16) WithinRange(start, end Ticks16) bool { return t-start < end-start }

func (Ticks16) Max() Ticks16 { return 0xFFFF }

func (Ticks16) FromUint64(v uint64) Ticks16 { return Ticks16(v) }

func (t Ticks16) Uint32() uint32 { return uint32(t) }
func (t Ticks16) Uint64() uint64 { return uint64(t) }
func (t Ticks16) Uint() uint     { return uint(t) }

// Ticks24 is a 24-bit counter value carried in the low bits of a uint32.
// Every operation masks back to 24 bits, so values built through NewTicks24,
// FromUint64 or the arithmetic methods always stay in range. Converting a raw
// uint32 with high bits set directly is invalid.
type Ticks24 uint32

const ticks24Mask = 0x00FFFFFF

// NewTicks24 masks v to 24 bits.
func NewTicks24(v uint32) Ticks24 { return Ticks24(v & ticks24Mask) }

func (t Ticks24) Add(o Ticks24) Ticks24 { return (t + o) & ticks24Mask }
func (t Ticks24) Sub(o Ticks24) Ticks24 { return (t - o) & ticks24Mask }

func (t Ticks24) WithinRange(start, end Ticks24) bool { return t.Sub(start) < end.Sub(start) }

func (Ticks24) Max() Ticks24 { return ticks24Mask }

func (Ticks24) FromUint64(v uint64) Ticks24 { return Ticks24(v) & ticks24Mask }

func (t Ticks24) Uint32() uint32 { return uint32(t) }
func (t Ticks24) Uint64() uint64 { return uint64(t) }
func (t Ticks24) Uint() uint     { return uint(t) }

// Ticks32 is a 32-bit counter value, the common width on 32-bit MCUs.
type Ticks32 uint32

func (t Ticks32) Add(o Ticks32) Ticks32 { return t + o }
func (t Ticks32) Sub(o Ticks32) Ticks32 { return t - o }

func (t Ticks32) WithinRange(start, end Ticks32) bool { return t-start < end-start }

func (Ticks32) Max() Ticks32 { return 0xFFFFFFFF }

func (Ticks32) FromUint64(v uint64) Ticks32 { return Ticks32(v) }

func (t Ticks32) Uint32() uint32 { return uint32(t) }
func (t Ticks32) Uint64() uint64 { return uint64(t) }
func (t Ticks32) Uint() uint     { return uint(t) }

// Ticks64 is a 64-bit counter value.
type Ticks64 uint64

func (t Ticks64) Add(o Ticks64) Ticks64 { return t + o }
func (t Ticks64) Sub(o Ticks64) Ticks64 { return t - o }

func (t Ticks64) WithinRange(start, end Ticks64) bool { return t-start < end-start }

func (Ticks64) Max() Ticks64 { return ^Ticks64(0) }

func (Ticks64) FromUint64(v uint64) Ticks64 { return Ticks64(v) }

func (t Ticks64) Uint32() uint32 { return uint32(t) }
func (t Ticks64) Uint64() uint64 { return uint64(t) }
func (t Ticks64) Uint() uint     { return uint(t) }

// assertTicks is a compile-time check that T satisfies Ticks[T]; the
// constraint embeds comparable, so it cannot be used as a plain interface
// type on the right-hand side of a var assertion.
func assertTicks[T Ticks[T]]() {}

var (
	_ = assertTicks[Ticks16]
	_ = assertTicks[Ticks24]
	_ = assertTicks[Ticks32]
	_ = assertTicks[Ticks64]
)
