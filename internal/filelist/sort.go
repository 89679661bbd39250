package filelist

import (
	"sort"

	"github.com/maruel/natural"
)

// Sort method IDs as stored in the config file.
const (
	SortNatural = 0
	SortSimple  = 1
)

// SortStrategy defines the interface for different sorting strategies
type SortStrategy interface {
	// Sort returns a new sorted slice without modifying the original
	Sort(names []string) []string
	// Less reports whether a sorts before b
	Less(a, b string) bool
	// Name returns the human-readable name of the strategy
	Name() string
	// ID returns the numeric identifier for config storage
	ID() int
}

func sortedCopy(names []string, less func(a, b string) bool) []string {
	result := make([]string, len(names))
	copy(result, names)
	sort.SliceStable(result, func(i, j int) bool {
		return less(result[i], result[j])
	})
	return result
}

// NaturalSortStrategy orders embedded numbers by value, so "2.png" comes
// before "10.png".
type NaturalSortStrategy struct{}

func (s *NaturalSortStrategy) Sort(names []string) []string {
	return sortedCopy(names, s.Less)
}

func (s *NaturalSortStrategy) Less(a, b string) bool {
	return natural.Less(a, b)
}

func (s *NaturalSortStrategy) Name() string {
	return "Natural"
}

func (s *NaturalSortStrategy) ID() int {
	return SortNatural
}

// SimpleSortStrategy implements lexicographical sorting
type SimpleSortStrategy struct{}

func (s *SimpleSortStrategy) Sort(names []string) []string {
	return sortedCopy(names, s.Less)
}

func (s *SimpleSortStrategy) Less(a, b string) bool {
	return a < b
}

func (s *SimpleSortStrategy) Name() string {
	return "Simple"
}

func (s *SimpleSortStrategy) ID() int {
	return SortSimple
}

// GetSortStrategy returns the appropriate strategy based on the sort method ID
func GetSortStrategy(sortMethod int) SortStrategy {
	switch sortMethod {
	case SortSimple:
		return &SimpleSortStrategy{}
	default:
		return &NaturalSortStrategy{}
	}
}

// GetAllSortStrategies returns all available sort strategies
func GetAllSortStrategies() []SortStrategy {
	return []SortStrategy{
		&NaturalSortStrategy{},
		&SimpleSortStrategy{},
	}
}
