// Package encryptr wires chunking, encryption, staging and assembly into
// the encrypt, decrypt and info operations.
package encryptr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Eyob94/encryptr/internal/chunk"
	"github.com/Eyob94/encryptr/internal/config"
	"github.com/Eyob94/encryptr/internal/container"
	"github.com/Eyob94/encryptr/internal/encryption"
	"github.com/Eyob94/encryptr/internal/entry"
	"github.com/Eyob94/encryptr/internal/errs"
	"github.com/Eyob94/encryptr/internal/fileutil"
	"github.com/Eyob94/encryptr/internal/metadata"
	"github.com/Eyob94/encryptr/internal/staging"
)

// Processor runs encryptr operations for a single input file.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// cipher is shared read-only by all workers
	cipher *encryption.Cipher

	logger *slog.Logger
}

// NewProcessor derives the key from password with the configured derivation
// and returns a Processor ready to run.
func NewProcessor(cfg *config.Config, password []byte, logger *slog.Logger) (*Processor, error) {
	deriver, err := encryption.NewDeriver(cfg.KDF, cfg.Argon2Params())
	if err != nil {
		return nil, fmt.Errorf("selecting key derivation: %w", err)
	}

	key, err := deriver.Derive(password)
	if err != nil {
		return nil, fmt.Errorf("deriving key: %w", err)
	}

	c, err := encryption.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	return &Processor{cfg: cfg, cipher: c, logger: logger}, nil
}

// Encrypt splits the input into chunks, seals and stages them in parallel and
// assembles the container once every chunk is staged.
//
//nolint:funlen
func (p *Processor) Encrypt(ctx context.Context) (Result, error) {
	start := time.Now()

	meta, chunks, err := chunk.Load(p.cfg.Input)
	if err != nil {
		return Result{}, fmt.Errorf("loading input: %w", err)
	}

	stage, err := staging.New(p.cfg.StagingDir)
	if err != nil {
		return Result{}, err
	}

	meta.RunID = stage.RunID()

	p.logger.Debug("staging", "dir", stage.Dir(), "chunks", len(chunks), "size", humanize.IBytes(meta.FileSize))

	if err := p.seal(ctx, stage, meta.RunID, chunks); err != nil {
		if cerr := stage.Cleanup(); cerr != nil {
			p.logger.Warn("cleaning staging directory", "dir", stage.Dir(), "error", cerr)
		}

		return Result{}, fmt.Errorf("encrypting chunks: %w", err)
	}

	block, err := meta.MarshalBinary()
	if err != nil {
		return Result{}, fmt.Errorf("encoding metadata: %w", err)
	}

	metaEntry, err := p.cipher.SealEntry([metadata.RunIDSize]byte{}, entry.MetadataIndex, block)
	if err != nil {
		return Result{}, fmt.Errorf("encrypting metadata: %w", err)
	}

	out := p.cfg.Output
	if out == "" {
		out = container.DefaultPath(p.cfg.Input, meta)
	}

	written, err := container.Assemble(out, metaEntry, stage, len(chunks))
	if err != nil {
		p.logger.Error("assembly failed, staged chunks kept", "dir", stage.Dir())

		return Result{}, fmt.Errorf("assembling %q: %w", out, err)
	}

	if err := stage.Cleanup(); err != nil {
		p.logger.Warn("cleaning staging directory", "dir", stage.Dir(), "error", err)
	}

	return Result{
		Input:    p.cfg.Input,
		Output:   out,
		Size:     written,
		Chunks:   len(chunks),
		Duration: time.Since(start),
	}, nil
}

// seal encrypts every chunk on its own worker and stages it under its index.
// The first failure cancels the workers that have not started yet.
func (p *Processor) seal(ctx context.Context, stage *staging.Stage, runID [metadata.RunIDSize]byte, chunks [][]byte) error {
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(p.cfg.Parallel)

	results := make(chan chunkResult, len(chunks))
	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range results {
			if result.err != nil {
				p.logger.Error("chunk failed", "index", result.index, "error", result.err)

				continue
			}

			p.logger.Debug("chunk staged", "index", result.index, "size", humanize.IBytes(uint64(result.size))) //nolint:gosec
		}
	}()

	for position, plaintext := range chunks {
		index := uint64(position) + 1 //nolint:gosec // position is a slice index

		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err //nolint:wrapcheck
			}

			err := p.sealChunk(stage, runID, index, plaintext)

			results <- chunkResult{index: index, size: len(plaintext), err: err}

			return err
		})
	}

	err := group.Wait()

	close(results)

	<-done // Wait for reporter to finish

	return err //nolint:wrapcheck
}

func (p *Processor) sealChunk(stage *staging.Stage, runID [metadata.RunIDSize]byte, index uint64, plaintext []byte) error {
	e, err := p.cipher.SealEntry(runID, index, plaintext)
	if err != nil {
		return fmt.Errorf("sealing chunk %d: %w", index, err)
	}

	return stage.Put(e)
}

// Decrypt streams the container into the output file. The output only appears
// once every chunk has been authenticated and the recovered size matches.
func (p *Processor) Decrypt(ctx context.Context) (result Result, err error) {
	start := time.Now()

	in, err := os.Open(filepath.Clean(p.cfg.Input))
	if err != nil {
		return Result{}, fmt.Errorf("%w: opening container: %w", errs.ErrFileAccess, err)
	}
	defer in.Close()

	reader := container.NewReader(in, p.cipher)

	meta, err := reader.Metadata()
	if err != nil {
		return Result{}, fmt.Errorf("opening container: %w", err)
	}

	out := p.cfg.Output
	if out == "" {
		name, err := safeName(meta)
		if err != nil {
			return Result{}, err
		}

		out = filepath.Join(filepath.Dir(p.cfg.Input), name)
	}

	tc, err := fileutil.NewTempContext(out)
	if err != nil {
		return Result{}, fmt.Errorf("preparing atomic write: %w", err)
	}

	defer tc.CleanupOnError(&err)

	var (
		written uint64
		chunks  int
	)

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err //nolint:wrapcheck
		}

		plaintext, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return Result{}, fmt.Errorf("decrypting %q: %w", p.cfg.Input, err)
		}

		if _, err := tc.Write(plaintext); err != nil {
			return Result{}, fmt.Errorf("%w: writing plaintext: %w", errs.ErrFileAccess, err)
		}

		written += uint64(len(plaintext))
		chunks++
	}

	if written != meta.FileSize {
		return Result{}, fmt.Errorf("%w: recovered %d bytes, metadata records %d",
			errs.ErrMalformedContainer, written, meta.FileSize)
	}

	size, err := tc.Commit()
	if err != nil {
		return Result{}, fmt.Errorf("publishing %q: %w", out, err)
	}

	return Result{
		Input:    p.cfg.Input,
		Output:   out,
		Size:     size,
		Chunks:   chunks,
		Duration: time.Since(start),
	}, nil
}

// Info decrypts only the metadata entry of the container.
func (p *Processor) Info(_ context.Context) (Info, error) {
	in, err := os.Open(filepath.Clean(p.cfg.Input))
	if err != nil {
		return Info{}, fmt.Errorf("%w: opening container: %w", errs.ErrFileAccess, err)
	}
	defer in.Close()

	meta, err := container.NewReader(in, p.cipher).Metadata()
	if err != nil {
		return Info{}, fmt.Errorf("reading metadata: %w", err)
	}

	name, err := meta.Name()
	if err != nil {
		return Info{}, err
	}

	return Info{
		Name:   name,
		Size:   meta.FileSize,
		Chunks: chunk.Count(meta.FileSize),
		Cipher: encryption.Algorithm,
		RunID:  uuid.UUID(meta.RunID),
	}, nil
}

// safeName returns the recovered file name if it can be used as a path
// element next to the container.
func safeName(meta metadata.Metadata) (string, error) {
	name, err := meta.Name()
	if err != nil {
		return "", err
	}

	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: recovered file name %q is not a plain file name", errs.ErrMalformedContainer, name)
	}

	return name, nil
}
