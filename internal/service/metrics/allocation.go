package metrics

// CostAllocator decides how a cycle's shared non-feed costs are split across
// its location groups. Allocation by head count is the current business
// policy; alternative bases (live weight, occupancy days) can be added as
// further implementations without touching the aggregator.
type CostAllocator interface {
	// PerAnimal returns the shared-cost amount absorbed by each animal of a
	// group holding groupAnimals out of totalAnimals.
	PerAnimal(totalShared float64, groupAnimals, totalAnimals int) float64
}

// HeadCountAllocator charges every animal in the cycle an equal share,
// regardless of which group it belongs to.
type HeadCountAllocator struct{}

func (HeadCountAllocator) PerAnimal(totalShared float64, groupAnimals, totalAnimals int) float64 {
	if totalAnimals <= 0 || groupAnimals <= 0 {
		return 0
	}
	groupShare := totalShared * (float64(groupAnimals) / float64(totalAnimals))
	return groupShare / float64(groupAnimals)
}
