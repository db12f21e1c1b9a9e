// Package compress provides the compression primitives used by package files.
//
// There are two families of codecs.
//
// # Block codecs
//
// A BlockCodec compresses or decompresses one block of a chunked stream. The
// caller always knows the decompressed size of a block, so DecompressBlock
// writes into a caller-sized destination and treats any other output length as
// a failure:
//
//	codec, err := compress.GetBlockCodec(format.CompressionLZO)
//	if err != nil {
//	    return err // errs.ErrNotImplemented for LZX
//	}
//	dst := make([]byte, block.DecompressedSize)
//	if err := codec.DecompressBlock(dst, src); err != nil {
//	    var se *compress.StatusError
//	    errors.As(err, &se) // se.Status uses liblzo numbering
//	}
//
// Supported selectors:
//   - format.CompressionLZO: LZO1X-1, the format of cooked game packages
//   - format.CompressionZLIB: zlib streams
//
// format.CompressionLZX has no implementation and fails closed.
//
// # Sidecar codecs
//
// A Codec compresses whole payloads written next to a package, such as bulk
// data dumped by the command line tool. CreateCodec selects one by
// format.SidecarType:
//   - None: stored as-is
//   - Zstd: klauspost/compress, or libzstd when built with the gozstd tag
//   - S2: klauspost/compress/s2
//   - LZ4: a single LZ4 block with a size prefix
//
// All codecs are stateless values and safe for concurrent use. Encoders and
// decoders that carry state are pooled internally.
package compress
