// Command peinspect drives a synthetic workload against a pecache.Cache
// and logs, for each Evict call, which kind of prune it performed (expiry
// or priority), then prints the final Stats. It exists to make the
// library's eviction behaviour observable from a terminal; it is not a
// server and speaks no wire protocol.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/arin-holloway/pecache"
)

func main() {
	entries := flag.IntP("entries", "e", 20, "number of key/value pairs to insert")
	priorities := flag.IntP("priorities", "p", 4, "number of distinct priority classes to spread entries across")
	ttl := flag.Int64P("ttl", "t", 50, "base expiry duration, in clock ticks, for the synthetic workload")
	seed := flag.Int64P("seed", "s", 1, "random seed for the synthetic workload")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

	var tick int64
	clock := pecache.Clock(func() int64 {
		tick++
		return tick
	})

	cache := pecache.New[string, int](
		pecache.WithClock[string, int](clock),
		pecache.WithDefaultExpiryDuration[string, int](*ttl),
	)

	rng := rand.New(rand.NewSource(*seed))

	for i := 0; i < *entries; i++ {
		key := fmt.Sprintf("key-%02d", i)
		priority := rng.Intn(*priorities)
		expiryDuration := *ttl/2 + int64(rng.Intn(int(*ttl)))

		cache.WithContext(pecache.ContextOptions{
			Priority:       &priority,
			ExpiryDuration: &expiryDuration,
		}, func() {
			cache.Set(key, i)
		})

		log.Info().Str("key", key).Int("priority", priority).Int64("expiry_duration", expiryDuration).Msg("set")
	}

	for i := 0; i < *entries; i++ {
		before := cache.Stats()
		cache.Evict()
		after := cache.Stats()

		switch {
		case after.ExpiredPrunes > before.ExpiredPrunes:
			log.Info().Str("kind", "expiry").Msg("evicted")
		case after.PriorityPrunes > before.PriorityPrunes:
			log.Info().Str("kind", "priority").Msg("evicted")
		default:
			log.Info().Msg("nothing left to evict")
		}
	}

	stats := cache.Stats()
	fmt.Printf(
		"hits=%d misses=%d evictions=%d (expired=%d priority=%d)\n",
		stats.Hits, stats.Misses, stats.Evictions, stats.ExpiredPrunes, stats.PriorityPrunes,
	)
}
