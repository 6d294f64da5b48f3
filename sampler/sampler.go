package sampler

// A LogProber scores coefficient vectors for the sampler: the (possibly
// unnormalized) log-density of the target distribution plus the dimension it
// expects. Normalization constants cancel in the Metropolis ratio, so the
// target never needs one.
type LogProber interface {
	LogProb(beta []float64) (float64, error)
	Dim() int
}
