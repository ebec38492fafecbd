package hash

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
)

type Algorithm string

const (
	MD5    Algorithm = "md5"
	SHA256 Algorithm = "sha256"
)

// Digest считает хэш потока, который через него проходит.
type Digest struct {
	algorithm Algorithm
	h         hash.Hash
}

func NewDigest(algorithm Algorithm) (*Digest, error) {
	var h hash.Hash
	switch algorithm {
	case MD5:
		h = md5.New()
	case SHA256:
		h = sha256.New()
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", algorithm)
	}
	return &Digest{algorithm: algorithm, h: h}, nil
}

// Wrap возвращает reader, который дописывает прочитанное в хэш.
func (d *Digest) Wrap(r io.Reader) io.Reader {
	return io.TeeReader(r, d.h)
}

// Sum — hex-строка вида "sha256:...".
func (d *Digest) Sum() string {
	return string(d.algorithm) + ":" + hex.EncodeToString(d.h.Sum(nil))
}

func Calculate(algorithm Algorithm, data []byte) (string, error) {
	d, err := NewDigest(algorithm)
	if err != nil {
		return "", err
	}
	d.h.Write(data)
	return d.Sum(), nil
}
