// Package codec provides a uniform adapter over the compression backends
// exercised by the benchmark.
//
// Every codec is a pure, lossless transform: Decompress(Compress(x)) == x for
// all byte sequences including empty input. Codecs hold no per-call state and
// are safe for concurrent use across scenarios. Compressed output may be
// larger than the input for incompressible content; callers report that, they
// do not hide it.
package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/iotsec-lab/pqcbench/internal/constants"
	qerrors "github.com/iotsec-lab/pqcbench/internal/errors"
)

// Codec is a lossless compress/decompress pair identified by name.
type Codec interface {
	Name() string
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// --- zlib (DEFLATE family) ---

type zlibCodec struct {
	level int
}

// NewZlib returns a DEFLATE-family codec at the given effort level.
func NewZlib(level int) Codec {
	return &zlibCodec{level: level}
}

func (c *zlibCodec) Name() string { return "zlib" }

func (c *zlibCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, qerrors.NewCodecError(c.Name(), "compress", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, qerrors.NewCodecError(c.Name(), "compress", err)
	}
	if err := w.Close(); err != nil {
		return nil, qerrors.NewCodecError(c.Name(), "compress", err)
	}
	return buf.Bytes(), nil
}

func (c *zlibCodec) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, qerrors.NewCodecError(c.Name(), "decompress", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, qerrors.NewCodecError(c.Name(), "decompress", err)
	}
	return out, nil
}

// --- lz4 ---

type lz4Codec struct{}

// NewLZ4 returns an LZ4 frame codec.
func NewLZ4() Codec {
	return &lz4Codec{}
}

func (c *lz4Codec) Name() string { return "lz4" }

func (c *lz4Codec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, qerrors.NewCodecError(c.Name(), "compress", err)
	}
	if err := w.Close(); err != nil {
		return nil, qerrors.NewCodecError(c.Name(), "compress", err)
	}
	return buf.Bytes(), nil
}

func (c *lz4Codec) Decompress(data []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(data))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, qerrors.NewCodecError(c.Name(), "decompress", err)
	}
	return out, nil
}

// --- zstd ---

type zstdCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstd returns a Zstandard codec. The shared encoder and decoder are
// stateless for EncodeAll/DecodeAll and safe for concurrent use.
func NewZstd(level int) (Codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &zstdCodec{encoder: enc, decoder: dec}, nil
}

func (c *zstdCodec) Name() string { return "zstd" }

func (c *zstdCodec) Compress(data []byte) ([]byte, error) {
	return c.encoder.EncodeAll(data, nil), nil
}

func (c *zstdCodec) Decompress(data []byte) ([]byte, error) {
	out, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, qerrors.NewCodecError(c.Name(), "decompress", err)
	}
	return out, nil
}

// --- none ---

type noneCodec struct{}

// NewNone returns the identity codec, used as the baseline when measuring the
// cost of KEM overhead alone.
func NewNone() Codec {
	return &noneCodec{}
}

func (c *noneCodec) Name() string { return "none" }

func (c *noneCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (c *noneCodec) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

// Registry returns the canonical ordered set of benchmark codecs: zlib at the
// reference effort level, lz4, and zstd.
func Registry() ([]Codec, error) {
	zs, err := NewZstd(constants.ZstdLevel)
	if err != nil {
		return nil, err
	}
	return []Codec{
		NewZlib(constants.ZlibLevel),
		NewLZ4(),
		zs,
	}, nil
}

// ByName returns the codec with the given name from the registry.
func ByName(name string) (Codec, error) {
	if name == "none" {
		return NewNone(), nil
	}
	codecs, err := Registry()
	if err != nil {
		return nil, err
	}
	for _, c := range codecs {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown codec %q", name)
}
