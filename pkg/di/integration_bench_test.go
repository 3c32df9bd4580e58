package di

import (
	"context"
	"fmt"
	"testing"

	"golang.org/x/text/language"

	"github.com/goliatone/go-localization-provider/culture"
	"github.com/goliatone/go-localization-provider/internal/logging"
	"github.com/goliatone/go-localization-provider/resources"
	"github.com/goliatone/go-localization-provider/storage/memory"
)

func seededRepository(n int) *memory.Repository {
	list := make([]resources.LocalizationResource, 0, n)
	for i := 0; i < n; i++ {
		res := resources.LocalizationResource{ResourceKey: fmt.Sprintf("bench.Key%d", i)}
		res.SetTranslation(culture.Invariant, fmt.Sprintf("Value %d", i))
		res.SetTranslation(language.Swedish, fmt.Sprintf("Värde %d", i))
		list = append(list, res)
	}
	return memory.NewWithResources(list...)
}

// BenchmarkLookup_Cached measures lookups served from the resource cache.
func BenchmarkLookup_Cached(b *testing.B) {
	container, err := NewContainer(testConfig(), seededRepository(500), WithLogger(logging.Discard()))
	if err != nil {
		b.Fatalf("Failed to create DI container: %v", err)
	}
	defer container.Close()

	ctx := context.Background()
	provider := container.Provider()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := provider.GetStringByCulture(ctx, fmt.Sprintf("bench.Key%d", i%500), language.Swedish); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkLookup_ClearedEachTime measures lookups that reload the
// repository every call.
func BenchmarkLookup_ClearedEachTime(b *testing.B) {
	container, err := NewContainer(testConfig(), seededRepository(500), WithLogger(logging.Discard()))
	if err != nil {
		b.Fatalf("Failed to create DI container: %v", err)
	}
	defer container.Close()

	ctx := context.Background()
	provider := container.Provider()
	commands := container.Commands()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := commands.Execute(ctx, resources.ClearCache{}); err != nil {
			b.Fatal(err)
		}
		if _, err := provider.GetStringByCulture(ctx, fmt.Sprintf("bench.Key%d", i%500), language.Swedish); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLookup_Parallel(b *testing.B) {
	container, err := NewContainer(testConfig(), seededRepository(500), WithLogger(logging.Discard()))
	if err != nil {
		b.Fatalf("Failed to create DI container: %v", err)
	}
	defer container.Close()

	ctx := context.Background()
	provider := container.Provider()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if _, err := provider.GetStringByCulture(ctx, fmt.Sprintf("bench.Key%d", i%500), language.Swedish); err != nil {
				b.Error(err)
				return
			}
			i++
		}
	})
}
