package compression

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"

	"github.com/mrjoshuak/go-raster/internal/interleave"
	"github.com/mrjoshuak/go-raster/internal/predictor"
)

// ErrZIPCorrupted is returned for a zlib stream that does not decode to
// exactly the chunk size.
var ErrZIPCorrupted = errors.New("compression: corrupted ZIP data")

// CompressionLevel is a zlib level from -2 (Huffman only) to 9.
type CompressionLevel int

// Standard compression levels
const (
	CompressionLevelHuffmanOnly CompressionLevel = -2
	CompressionLevelDefault     CompressionLevel = -1
	CompressionLevelNone        CompressionLevel = 0
	CompressionLevelBestSpeed   CompressionLevel = 1
	CompressionLevelBestSize    CompressionLevel = 9
)

type zlibWriter struct {
	w   *zlib.Writer
	buf bytes.Buffer
}

var zlibWriterPool = sync.Pool{
	New: func() any {
		z := &zlibWriter{}
		z.w, _ = zlib.NewWriterLevel(&z.buf, zlib.DefaultCompression)
		return z
	},
}

var zlibReaderPool sync.Pool // of io.ReadCloser implementing zlib.Resetter

// ZIPCompress encodes src at the default level. sampleSize is the byte
// width of one sample; bytes are split into that many planes and
// differenced before deflate.
func ZIPCompress(src []byte, sampleSize int) ([]byte, error) {
	return ZIPCompressLevel(src, sampleSize, CompressionLevelDefault)
}

// ZIPCompressLevel is ZIPCompress with an explicit zlib level.
func ZIPCompressLevel(src []byte, sampleSize int, level CompressionLevel) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}
	planes := interleave.Interleave(src, sampleSize, nil)
	predictor.Encode(planes)

	if level != CompressionLevelDefault {
		var buf bytes.Buffer
		w, err := zlib.NewWriterLevel(&buf, int(level))
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(planes); err != nil {
			w.Close()
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	z := zlibWriterPool.Get().(*zlibWriter)
	defer zlibWriterPool.Put(z)
	z.buf.Reset()
	z.w.Reset(&z.buf)
	if _, err := z.w.Write(planes); err != nil {
		return nil, err
	}
	if err := z.w.Close(); err != nil {
		return nil, err
	}
	return bytes.Clone(z.buf.Bytes()), nil
}

// ZIPDecompressTo decodes src into dst, which must be exactly the chunk
// size. sampleSize must match the value used to compress.
func ZIPDecompressTo(dst, src []byte, sampleSize int) error {
	if len(src) == 0 {
		if len(dst) != 0 {
			return ErrZIPCorrupted
		}
		return nil
	}

	planes := make([]byte, len(dst))
	if err := inflate(planes, src); err != nil {
		return err
	}
	predictor.Decode(planes)
	interleave.Deinterleave(planes, sampleSize, dst)
	return nil
}

func inflate(dst, src []byte) error {
	in := bytes.NewReader(src)

	var zr io.ReadCloser
	if v := zlibReaderPool.Get(); v != nil {
		zr = v.(io.ReadCloser)
		if err := zr.(zlib.Resetter).Reset(in, nil); err != nil {
			return ErrZIPCorrupted
		}
	} else {
		var err error
		if zr, err = zlib.NewReader(in); err != nil {
			return ErrZIPCorrupted
		}
	}
	defer zlibReaderPool.Put(zr)

	if _, err := io.ReadFull(zr, dst); err != nil {
		return ErrZIPCorrupted
	}
	// Trailing data means the chunk was larger than expected.
	var one [1]byte
	if n, _ := zr.Read(one[:]); n != 0 {
		return ErrZIPCorrupted
	}
	return nil
}
