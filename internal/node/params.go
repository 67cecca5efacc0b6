package node

// Default generator parameters restored by Reset.
const (
	DefaultXFreq = 25
	DefaultYFreq = 25
)

// Params holds the generator parameters mutated by control messages. It is
// owned by the dispatch goroutine: handlers are the only writers and run one
// at a time, so no locking is needed.
type Params struct {
	XFreq  float64
	YFreq  float64
	XPhase float64
	YPhase float64
}

// NewParams returns a Params already holding the default values.
func NewParams() *Params {
	p := &Params{}
	p.Reset()
	return p
}

// Reset restores every field to its default. All fields are replaced before
// any handler can observe a mix of old and new values.
func (p *Params) Reset() {
	p.XFreq = DefaultXFreq
	p.YFreq = DefaultYFreq
	p.XPhase = 0.0
	p.YPhase = 0.0
}
