package hash

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest_Wrap(t *testing.T) {
	d, err := NewDigest(SHA256)
	require.NoError(t, err)

	data, err := io.ReadAll(d.Wrap(strings.NewReader("hello")))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "sha256:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", d.Sum())
}

func TestCalculate(t *testing.T) {
	sum, err := Calculate(MD5, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "md5:5d41402abc4b2a76b9719d911017c592", sum)

	_, err = Calculate("crc32", nil)
	assert.Error(t, err)
}
