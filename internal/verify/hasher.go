package verify

import (
	"crypto/md5"  // #nosec G501 -- used for file integrity verification only
	"crypto/sha1" // #nosec G505 -- used for file integrity verification only
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

var ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

// newHasher returns a fresh hash context. Nothing is shared between calls.
func newHasher(algorithm string) (hash.Hash, error) {
	switch strings.ToUpper(strings.TrimSpace(algorithm)) {
	case "SHA1":
		return sha1.New(), nil // #nosec G401 -- used for file integrity verification only
	case "SHA256":
		return sha256.New(), nil
	case "SHA512":
		return sha512.New(), nil
	case "SHA384":
		return sha512.New384(), nil
	case "MD5":
		return md5.New(), nil // #nosec G401 -- used for file integrity verification only
	default:
		return nil, errors.Wrapf(ErrUnsupportedAlgorithm, "%q", algorithm)
	}
}

// CheckAlgorithm reports whether algorithm names a supported digest.
func CheckAlgorithm(algorithm string) error {
	_, err := newHasher(algorithm)
	return err
}

// DigestHex hashes data and renders it as lowercase hex, high nibble first.
func DigestHex(algorithm string, data []byte) (string, error) {
	h, err := newHasher(algorithm)
	if err != nil {
		return "", err
	}
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FileHashHex streams the file at path through the digest. onProgress, if
// set, receives byte counts in chunks of at most 1 MiB.
func FileHashHex(path string, algorithm string, onProgress func(n int64)) (string, error) {
	h, err := newHasher(algorithm)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return "", errors.Wrapf(err, "open artifact %s", path)
	}
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, 1<<20) // 1 MiB
	var pending int64
	flush := func() {
		if pending > 0 && onProgress != nil {
			onProgress(pending)
			pending = 0
		}
	}

	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			if _, werr := h.Write(buf[:n]); werr != nil {
				return "", werr
			}
			pending += int64(n)
			if pending >= int64(1<<20) {
				flush()
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", errors.Wrapf(rerr, "read artifact %s", path)
		}
	}
	flush()

	return hex.EncodeToString(h.Sum(nil)), nil
}
