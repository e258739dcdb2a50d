package frame

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"
	"golang.org/x/sync/errgroup"

	"github.com/marcelomarkus/bfast/internal/pool"
)

const (
	// CompressThreshold is the uncompressed size below which LZ4 frame
	// overhead outweighs any savings.
	CompressThreshold = 64

	// ParallelThreshold is the uncompressed size at which Compress splits
	// the input into chunks and compresses them concurrently.
	ParallelThreshold = 1 << 20 // 1 MiB

	chunkSize = 256 * 1024
)

var lz4FrameMagic = [4]byte{0x04, 0x22, 0x4D, 0x18}

// IsLZ4Framed reports whether data begins with the LZ4 frame magic.
func IsLZ4Framed(data []byte) bool {
	return len(data) >= 4 &&
		data[0] == lz4FrameMagic[0] && data[1] == lz4FrameMagic[1] &&
		data[2] == lz4FrameMagic[2] && data[3] == lz4FrameMagic[3]
}

// Compress wraps data in LZ4 frame compression. Inputs at least
// ParallelThreshold bytes are split into chunkSize chunks, compressed
// concurrently across a worker pool, and the resulting frames are
// concatenated; a concatenation of independent LZ4 frames is itself a
// valid frame stream, so a standard decoder reads straight through it.
func Compress(data []byte) ([]byte, error) {
	if len(data) < ParallelThreshold {
		return compressOne(data)
	}

	var chunks [][]byte
	for off := 0; off < len(data); off += chunkSize {
		end := off + chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[off:end])
	}

	results := make([][]byte, len(chunks))

	var g errgroup.Group
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			out, err := compressOne(chunk)
			if err != nil {
				return err
			}
			results[i] = out

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bb := pool.GetBlobSetBuffer()
	defer pool.PutBlobSetBuffer(bb)

	for _, r := range results {
		bb.MustWrite(r)
	}

	return append([]byte(nil), bb.Bytes()...), nil
}

func compressOne(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress reads one or more concatenated LZ4 frames from data and
// returns the concatenated decompressed output.
func Decompress(data []byte) ([]byte, error) {
	zr := lz4.NewReader(bytes.NewReader(data))

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}

	return out, nil
}
