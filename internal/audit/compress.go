package audit

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

func ParseCompression(s string) (Compression, error) {
	switch Compression(s) {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionGzip, CompressionZstd:
		return Compression(s), nil
	default:
		return "", fmt.Errorf("unknown compression %q (allowed: none, gzip, zstd)", s)
	}
}

// Extension is appended to ".csv" in uploaded object names.
func (c Compression) Extension() string {
	switch c {
	case CompressionGzip:
		return ".gz"
	case CompressionZstd:
		return ".zst"
	default:
		return ""
	}
}

func NewCompressReader(r io.Reader, c Compression) io.Reader {
	switch c {
	case CompressionGzip:
		return pipeThrough(r, func(w io.Writer) (io.WriteCloser, error) {
			return gzip.NewWriterLevel(w, gzip.BestCompression)
		})
	case CompressionZstd:
		return pipeThrough(r, func(w io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(w)
		})
	default:
		return r
	}
}

// Compress returns data encoded with c.
func Compress(data []byte, c Compression) ([]byte, error) {
	return io.ReadAll(NewCompressReader(bytes.NewReader(data), c))
}

func pipeThrough(r io.Reader, newWriter func(io.Writer) (io.WriteCloser, error)) io.Reader {
	pr, pw := io.Pipe()
	go func() {
		cw, err := newWriter(pw)
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(cw, r); err != nil {
			_ = cw.Close()
			_ = pw.CloseWithError(err)
			return
		}
		if err := cw.Close(); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.Close()
	}()
	return pr
}
