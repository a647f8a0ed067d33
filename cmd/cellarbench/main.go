// Cellarbench measures hashmap.Map throughput and table shape for a set of
// hash functions.
//
// Usage:
//
//	go run ./cmd/cellarbench -keys 1000000 -hashers xxhash,xxh3,murmur3
//
// Flags:
//
//	-keys      Number of keys per workload (default: 1,000,000)
//	-hashers   Comma-separated hashers: maphash, xxhash, xxh3, murmur3 (default: all)
//	-workers   Workloads running at the same time (default: 1)
//	-seed      Seed for key generation (default: 1)
//	-erase     Fraction of keys erased and re-inserted (default: 0.5)
//
// Every workload owns its map; maps are never shared between goroutines.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	hashmap "github.com/KonderLip/custom-hash-map"
	"github.com/KonderLip/custom-hash-map/hashers"
)

var hasherByName = map[string]func(string) uint64{
	"maphash": nil, // the map's default
	"xxhash":  hashers.String,
	"xxh3":    hashers.StringXXH3,
	"murmur3": hashers.StringMurmur3,
}

type result struct {
	hasher  string
	insert  time.Duration
	hits    time.Duration
	misses  time.Duration
	churn   time.Duration
	stats   hashmap.Stats
	numKeys int
}

func main() {
	keysFlag := flag.Int("keys", 1_000_000, "number of keys per workload")
	hashersFlag := flag.String("hashers", "maphash,xxhash,xxh3,murmur3", "comma-separated hashers")
	workersFlag := flag.Int("workers", 1, "workloads running at the same time")
	seedFlag := flag.Uint64("seed", 1, "seed for key generation")
	eraseFlag := flag.Float64("erase", 0.5, "fraction of keys erased and re-inserted")
	flag.Parse()

	names := strings.Split(*hashersFlag, ",")
	for _, name := range names {
		if _, ok := hasherByName[name]; !ok {
			log.Fatalf("unknown hasher %q", name)
		}
	}
	if *keysFlag <= 0 {
		log.Fatalf("-keys must be positive, got %d", *keysFlag)
	}
	if *eraseFlag < 0 || *eraseFlag > 1 {
		log.Fatalf("-erase must be within [0, 1], got %v", *eraseFlag)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Generating keys...")
	keys, missing := generateKeys(*keysFlag, *seedFlag)

	results := make([]result, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(*workersFlag, 1))
	for i, name := range names {
		g.Go(func() error {
			r, err := runWorkload(gctx, name, hasherByName[name], keys, missing, *eraseFlag)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\n%-8s %12s %12s %12s %12s %8s %8s %8s\n",
		"hasher", "insert/op", "hit/op", "miss/op", "churn/op", "load", "chain", "tombs")
	for _, r := range results {
		n := time.Duration(r.numKeys)
		fmt.Printf("%-8s %12v %12v %12v %12v %8.3f %8d %8d\n",
			r.hasher, r.insert/n, r.hits/n, r.misses/n, r.churn/n,
			r.stats.LoadFactor, r.stats.LongestChain, r.stats.Tombstones)
	}
	if rss := maxRSS(); rss > 0 {
		fmt.Printf("\npeak RSS: %.1f MiB\n", float64(rss)/(1<<20))
	}
}

// generateKeys returns n distinct keys, and n keys that are not among them.
func generateKeys(n int, seed uint64) (keys, missing []string) {
	rng := rand.New(rand.NewSource(seed))
	keys = make([]string, n)
	missing = make([]string, n)
	for i := range keys {
		// The index keeps them distinct, the random part varies the length.
		keys[i] = fmt.Sprintf("k%d-%x", i, rng.Uint64()>>rng.Intn(64))
		missing[i] = fmt.Sprintf("m%d-%x", i, rng.Uint64())
	}
	return keys, missing
}

func runWorkload(ctx context.Context, name string, hasher func(string) uint64, keys, missing []string, erase float64) (result, error) {
	var options []hashmap.Option[string, int]
	if hasher != nil {
		options = append(options, hashmap.WithHasher[string, int](hasher))
	}
	m := hashmap.New[string, int](0, options...)
	r := result{hasher: name, numKeys: len(keys)}

	start := time.Now()
	for i, k := range keys {
		m.Insert(k, i)
	}
	r.insert = time.Since(start)
	if m.Len() != len(keys) {
		return r, fmt.Errorf("got %d entries, want %d", m.Len(), len(keys))
	}
	if err := ctx.Err(); err != nil {
		return r, err
	}

	start = time.Now()
	for i, k := range keys {
		if v, ok := m.Get(k); !ok || v != i {
			return r, fmt.Errorf("lookup %q: got %v,%v want %v", k, v, ok, i)
		}
	}
	r.hits = time.Since(start)
	if err := ctx.Err(); err != nil {
		return r, err
	}

	start = time.Now()
	for _, k := range missing {
		if m.Contains(k) {
			return r, fmt.Errorf("lookup %q: found a key that was never inserted", k)
		}
	}
	r.misses = time.Since(start)
	if err := ctx.Err(); err != nil {
		return r, err
	}

	churn := int(float64(len(keys)) * erase)
	start = time.Now()
	for _, k := range keys[:churn] {
		m.Erase(k)
	}
	for i, k := range keys[:churn] {
		m.Insert(k, i)
	}
	r.churn = time.Since(start)
	if m.Len() != len(keys) {
		return r, fmt.Errorf("after churn got %d entries, want %d", m.Len(), len(keys))
	}

	r.stats = m.Stats()
	return r, nil
}
