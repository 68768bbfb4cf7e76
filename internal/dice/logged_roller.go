package dice

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Roller wraps a Source and logger to provide logged dice rolling.
// Every rolled group and every skipped token is logged at debug level; the
// entries produced by one call share a roll_id field.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// RollGroup rolls a single dice group and logs the outcome or the
// validation failure.
func (r *Roller) RollGroup(count, sides, modifier int) (RollOutcome, error) {
	log := r.logger.With(zap.String("roll_id", uuid.NewString()))
	outcome, err := RollGroup(count, sides, modifier, r.src)
	if err != nil {
		log.Debug("dice group rejected",
			zap.Int("count", count),
			zap.Int("sides", sides),
			zap.Int("modifier", modifier),
			zap.Error(err),
		)
		return RollOutcome{}, err
	}
	logOutcome(log, outcome)
	return outcome, nil
}

// RollAll rolls every group in notation, logging each outcome and skipped
// token, followed by one summary entry.
//
// Postcondition: Same result semantics as the package-level RollAll.
func (r *Roller) RollAll(notation string) AggregateOutcome {
	log := r.logger.With(zap.String("roll_id", uuid.NewString()))
	agg := RollAll(notation, r.src)
	for _, o := range agg.Outcomes {
		logOutcome(log, o)
	}
	for _, s := range agg.Skipped {
		log.Debug("dice token skipped",
			zap.String("token", s.Token),
			zap.Error(s.Err),
		)
	}
	log.Debug("dice notation rolled",
		zap.String("notation", notation),
		zap.String("result", agg.String()),
		zap.Int("groups", len(agg.Outcomes)),
		zap.Int("skipped", len(agg.Skipped)),
		zap.Int("total", agg.Total),
	)
	return agg
}

func logOutcome(log *zap.Logger, o RollOutcome) {
	log.Debug("dice roll",
		zap.String("expression", o.Notation()),
		zap.Ints("dice", o.Rolls),
		zap.Int("modifier", o.Modifier),
		zap.Int("total", o.Total),
	)
}
