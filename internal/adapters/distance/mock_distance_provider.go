package distance

type MockPair struct {
	From, To int
	Distance float64
}

// MockDistanceProvider serves fixed distances for tests. Pairs are symmetric
// unless the reverse pair is listed explicitly; unknown pairs are distance 0.
type MockDistanceProvider struct {
	m map[[2]int]float64
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[[2]int]float64, 2*len(pairs))
	for _, p := range pairs {
		if _, ok := m[[2]int{p.To, p.From}]; !ok {
			m[[2]int{p.To, p.From}] = p.Distance
		}
		m[[2]int{p.From, p.To}] = p.Distance
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) Distance(from, to int) float64 {
	return p.m[[2]int{from, to}]
}
