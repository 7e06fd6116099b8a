package encryption_test

import (
	"crypto/rand"
	"runtime"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/Eyob94/encryptr/internal/chunk"
	"github.com/Eyob94/encryptr/internal/encryption"
)

const benchInput = 16 << 20

var chunkings = []struct {
	name  string
	split func([]byte) [][]byte
}{
	{"256KiB", func(data []byte) [][]byte { return chunk.SplitN(data, 256<<10) }},
	{"512KiB", chunk.Split},
}

func benchCipher(b *testing.B) (*encryption.Cipher, []byte) {
	b.Helper()

	key, err := encryption.Blake3Deriver{}.Derive([]byte("bench"))
	if err != nil {
		b.Fatal(err)
	}

	c, err := encryption.NewCipher(key)
	if err != nil {
		b.Fatal(err)
	}

	data := make([]byte, benchInput)
	if _, err := rand.Read(data); err != nil {
		b.Fatal(err)
	}

	return c, data
}

func BenchmarkSealSerial(b *testing.B) {
	c, data := benchCipher(b)

	for _, ch := range chunkings {
		chunks := ch.split(data)

		b.Run(ch.name, func(b *testing.B) {
			b.SetBytes(benchInput)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				for position, plaintext := range chunks {
					if _, err := c.SealEntry([16]byte{}, uint64(position)+1, plaintext); err != nil {
						b.Fatal(err)
					}
				}
			}
		})
	}
}

func BenchmarkSealParallel(b *testing.B) {
	c, data := benchCipher(b)

	for _, ch := range chunkings {
		chunks := ch.split(data)

		b.Run(ch.name, func(b *testing.B) {
			b.SetBytes(benchInput)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				var group errgroup.Group
				group.SetLimit(runtime.NumCPU())

				for position, plaintext := range chunks {
					group.Go(func() error {
						_, err := c.SealEntry([16]byte{}, uint64(position)+1, plaintext)

						return err
					})
				}

				if err := group.Wait(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
