// Package benchmark provides performance benchmarks for the pqcbench
// pipeline stages.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./test/benchmark/
//
// For profiling:
//
//	go test -bench=. -cpuprofile=cpu.prof -memprofile=mem.prof ./test/benchmark/
package benchmark

import (
	"context"
	"testing"

	"github.com/iotsec-lab/pqcbench/internal/constants"
	"github.com/iotsec-lab/pqcbench/pkg/codec"
	"github.com/iotsec-lab/pqcbench/pkg/dataset"
	"github.com/iotsec-lab/pqcbench/pkg/engine"
	"github.com/iotsec-lab/pqcbench/pkg/kem"
	"github.com/iotsec-lab/pqcbench/pkg/matrix"
)

func payload(b *testing.B) []byte {
	b.Helper()
	d, err := dataset.GenerateIoT("iot_medium", constants.DatasetMediumSize, dataset.SizeMedium)
	if err != nil {
		b.Fatalf("GenerateIoT: %v", err)
	}
	return d.Bytes
}

// --- Codec Benchmarks ---

func benchmarkCompress(b *testing.B, name string) {
	c, err := codec.ByName(name)
	if err != nil {
		b.Fatalf("ByName(%s): %v", name, err)
	}
	data := payload(b)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Compress(data); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkDecompress(b *testing.B, name string) {
	c, err := codec.ByName(name)
	if err != nil {
		b.Fatalf("ByName(%s): %v", name, err)
	}
	compressed, err := c.Compress(payload(b))
	if err != nil {
		b.Fatalf("Compress: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Decompress(compressed); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkZlibCompress(b *testing.B)   { benchmarkCompress(b, "zlib") }
func BenchmarkLZ4Compress(b *testing.B)    { benchmarkCompress(b, "lz4") }
func BenchmarkZstdCompress(b *testing.B)   { benchmarkCompress(b, "zstd") }
func BenchmarkZlibDecompress(b *testing.B) { benchmarkDecompress(b, "zlib") }
func BenchmarkLZ4Decompress(b *testing.B)  { benchmarkDecompress(b, "lz4") }
func BenchmarkZstdDecompress(b *testing.B) { benchmarkDecompress(b, "zstd") }

// --- KEM Benchmarks ---

func resolveProfile(b *testing.B, level constants.SecurityLevel) *kem.Profile {
	b.Helper()
	profile, fellBack, err := kem.Resolve(level, false)
	if err != nil {
		b.Fatalf("Resolve: %v", err)
	}
	if fellBack {
		b.Skip("real KEM backend unavailable")
	}
	return profile
}

func benchmarkKeyGen(b *testing.B, level constants.SecurityLevel) {
	profile := resolveProfile(b, level)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := profile.GenerateKeyPair(); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkEncapsulate(b *testing.B, level constants.SecurityLevel) {
	profile := resolveProfile(b, level)
	kp, err := profile.GenerateKeyPair()
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := profile.Encapsulate(kp.Public); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkDecapsulate(b *testing.B, level constants.SecurityLevel) {
	profile := resolveProfile(b, level)
	kp, err := profile.GenerateKeyPair()
	if err != nil {
		b.Fatal(err)
	}
	ct, _, err := profile.Encapsulate(kp.Public)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := profile.Decapsulate(kp.Secret, ct); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkKyber512KeyGen(b *testing.B)  { benchmarkKeyGen(b, constants.SecurityLevel1) }
func BenchmarkKyber768KeyGen(b *testing.B)  { benchmarkKeyGen(b, constants.SecurityLevel3) }
func BenchmarkKyber1024KeyGen(b *testing.B) { benchmarkKeyGen(b, constants.SecurityLevel5) }

func BenchmarkKyber512Encapsulate(b *testing.B)  { benchmarkEncapsulate(b, constants.SecurityLevel1) }
func BenchmarkKyber768Encapsulate(b *testing.B)  { benchmarkEncapsulate(b, constants.SecurityLevel3) }
func BenchmarkKyber1024Encapsulate(b *testing.B) { benchmarkEncapsulate(b, constants.SecurityLevel5) }

func BenchmarkKyber512Decapsulate(b *testing.B)  { benchmarkDecapsulate(b, constants.SecurityLevel1) }
func BenchmarkKyber768Decapsulate(b *testing.B)  { benchmarkDecapsulate(b, constants.SecurityLevel3) }
func BenchmarkKyber1024Decapsulate(b *testing.B) { benchmarkDecapsulate(b, constants.SecurityLevel5) }

// --- Full Scenario Benchmark ---

func BenchmarkFullScenario(b *testing.B) {
	datasets, err := dataset.QuickSuite()
	if err != nil {
		b.Fatalf("QuickSuite: %v", err)
	}
	lz4, err := codec.ByName("lz4")
	if err != nil {
		b.Fatalf("ByName: %v", err)
	}
	profile := resolveProfile(b, constants.SecurityLevel3)
	specs := matrix.Build(datasets, []codec.Codec{lz4}, []*kem.Profile{profile})

	eng := engine.New()
	ring, err := eng.PrepareKeys(context.Background(), []*kem.Profile{profile})
	if err != nil {
		b.Fatalf("PrepareKeys: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res := eng.Run(context.Background(), specs[0], ring)
		if !res.Succeeded {
			b.Fatalf("scenario failed: %s", res.FailureReason)
		}
	}
}
