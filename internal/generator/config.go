package generator

// Config drives the synthetic raw-source generator.
type Config struct {
	NumPeople       int
	NumTransactions int
	NumPromotions   int
	NumTransfers    int

	// BothSourcesChance is the probability a person appears in both person
	// sources; the rest land in exactly one, exercising the outer join.
	BothSourcesChance float64
	// MissingContactChance is the probability a serialized person row drops
	// its email or phone, exercising merge back-fill and soft-key fallbacks.
	MissingContactChance float64
	// TotalMismatchChance is the probability a transaction line total
	// disagrees with quantity × unit price, exercising the validator.
	TotalMismatchChance float64
	// UnknownRefChance is the probability a dependent row references a
	// person that does not exist (unknown phone or transfer id).
	UnknownRefChance float64

	Seed int64
}

// DefaultConfig returns baseline settings that produce a batch with enough
// overlap and dirt to exercise every reconciliation path.
func DefaultConfig() Config {
	return Config{
		NumPeople:            500,
		NumTransactions:      2000,
		NumPromotions:        800,
		NumTransfers:         1000,
		BothSourcesChance:    0.6,
		MissingContactChance: 0.15,
		TotalMismatchChance:  0.02,
		UnknownRefChance:     0.03,
		Seed:                 42,
	}
}
