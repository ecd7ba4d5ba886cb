package mcts

import "testing"

const benchIterations = 2000

func benchmarkSequentialSearches(b *testing.B, config *Config) {
	engine := newBoardEngine("---------", config)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		if _, err := engine.Search(); err != nil {
			b.Fatal(err)
		}
		engine.Reset(newBoard("---------"))
	}
}

func BenchmarkSearch(b *testing.B) {
	config := DefaultConfig().SetMaxIterations(benchIterations)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		engine := newBoardEngine("---------", config)
		if _, err := engine.Search(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSequentialSearchesNoPool(b *testing.B) {
	benchmarkSequentialSearches(b, DefaultConfig().SetMaxIterations(benchIterations).DisableNodePool())
}

func BenchmarkSequentialSearchesWithPool(b *testing.B) {
	benchmarkSequentialSearches(b, DefaultConfig().SetMaxIterations(benchIterations).SetNodePool(4096, 1024))
}

func BenchmarkRaveSearch(b *testing.B) {
	engine := newBoardEngine("---------", DefaultConfig().SetMaxIterations(benchIterations)).
		WithSelectionPolicy(NewRAVE[board, square, int8](1.0)).
		WithBackpropagationPolicy(NewRaveBackprop[board, square, int8]())

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		if _, err := engine.Search(); err != nil {
			b.Fatal(err)
		}
		engine.Reset(newBoard("---------"))
	}
}
