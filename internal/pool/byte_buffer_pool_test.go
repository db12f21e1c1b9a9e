package pool

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 1024, bb.Cap())
}

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(StreamBufferDefaultSize)

	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, _ = bb.Write([]byte(" world"))
	assert.Equal(t, []byte("hello world"), bb.Bytes())
}

func TestByteBuffer_WriteAt(t *testing.T) {
	t.Run("overwrite inside", func(t *testing.T) {
		bb := NewByteBuffer(16)
		_, _ = bb.Write([]byte("abcdef"))

		n, err := bb.WriteAt([]byte("XY"), 2)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []byte("abXYef"), bb.Bytes())
	})

	t.Run("extend past end zero fills", func(t *testing.T) {
		bb := NewByteBuffer(4)
		_, _ = bb.Write([]byte("ab"))

		_, err := bb.WriteAt([]byte("Z"), 5)
		require.NoError(t, err)
		assert.Equal(t, []byte{'a', 'b', 0, 0, 0, 'Z'}, bb.Bytes())
	})

	t.Run("reused buffer is zeroed on extend", func(t *testing.T) {
		bb := NewByteBuffer(8)
		_, _ = bb.Write([]byte("garbage!"))
		bb.Reset()

		_, err := bb.WriteAt([]byte{1}, 3)
		require.NoError(t, err)
		assert.Equal(t, []byte{0, 0, 0, 1}, bb.Bytes())
	})

	t.Run("negative offset", func(t *testing.T) {
		bb := NewByteBuffer(4)
		_, err := bb.WriteAt([]byte{1}, -1)
		require.Error(t, err)
	})
}

func TestByteBuffer_ReadAt(t *testing.T) {
	bb := NewByteBuffer(8)
	_, _ = bb.Write([]byte("abcdef"))

	p := make([]byte, 3)
	n, err := bb.ReadAt(p, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte("bcd"), p)

	n, err = bb.ReadAt(p, 4)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)

	_, err = bb.ReadAt(p, 10)
	assert.ErrorIs(t, err, io.EOF)
}

func TestByteBuffer_Grow(t *testing.T) {
	bb := NewByteBuffer(StreamBufferDefaultSize)
	data := []byte("important data that must be preserved")
	_, _ = bb.Write(data)

	bb.Grow(StreamBufferDefaultSize * 3)

	assert.GreaterOrEqual(t, bb.Cap(), len(data)+StreamBufferDefaultSize*3)
	assert.Equal(t, data, bb.Bytes())
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(16)
	_, _ = bb.Write([]byte("test data"))

	var buf bytes.Buffer
	n, err := bb.WriteTo(&buf)

	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "test data", buf.String())
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	big := p.Get()
	big.Grow(1024)
	p.Put(big)

	small := p.Get()
	_, _ = small.Write([]byte("x"))
	p.Put(small)

	got := p.Get()
	assert.Equal(t, 0, got.Len(), "buffers come back reset")
	assert.LessOrEqual(t, got.Cap(), 64, "oversized buffers are not retained")
}

func TestScratchBuffer_ConcurrentCheckout(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(id byte) {
			defer wg.Done()
			bb := GetScratchBuffer()
			defer PutScratchBuffer(bb)

			for j := 0; j < 100; j++ {
				_, _ = bb.Write([]byte{id})
			}
			for _, b := range bb.Bytes() {
				assert.Equal(t, id, b, "scratch buffers must not be shared")
			}
		}(byte(i))
	}
	wg.Wait()

	stream := GetStreamBuffer()
	require.NotNil(t, stream)
	PutStreamBuffer(stream)
	PutScratchBuffer(nil)
}
