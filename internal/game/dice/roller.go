package dice

import "go.uber.org/zap"

// Roller wraps a Source and logs every draw at debug level.
// It satisfies Source itself, so it can be passed anywhere a Source is expected.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn draws from the underlying source and logs the draw.
//
// Precondition: n > 0.
func (r *Roller) Intn(n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("random draw",
		zap.Int("n", n),
		zap.Int("value", v),
	)
	return v
}

// Pick draws an index in [0, n) for a named decision, logging the label.
//
// Precondition: n > 0.
// Postcondition: Returns a value in [0, n).
func (r *Roller) Pick(label string, n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("random pick",
		zap.String("decision", label),
		zap.Int("options", n),
		zap.Int("chosen", v),
	)
	return v
}

// Percent reports whether a d100 roll lands under chance (0-100).
func (r *Roller) Percent(label string, chance int) bool {
	roll := r.src.Intn(100)
	hit := roll < chance
	r.logger.Debug("percentile roll",
		zap.String("decision", label),
		zap.Int("roll", roll),
		zap.Int("chance", chance),
		zap.Bool("hit", hit),
	)
	return hit
}
