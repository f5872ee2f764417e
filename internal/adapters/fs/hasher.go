package fs

import (
	"crypto/md5" //nolint:gosec // md5 fingerprints content, it is not used for security
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

var (
	_ ports.Hasher        = (*ContentHasher)(nil)
	_ ports.Hasher        = (*MtimeHasher)(nil)
	_ ports.HasherFactory = (*Hashers)(nil)
)

// ContentHasher fingerprints a file by digesting its bytes.
type ContentHasher struct {
	kind   domain.HasherKind
	digest func() hash.Hash
	encode func(sum []byte) string
}

// NewMD5Hasher returns the default hasher: the hex MD5 of the file content.
func NewMD5Hasher() *ContentHasher {
	return &ContentHasher{
		kind:   domain.HasherMD5,
		digest: md5.New,
		encode: hex.EncodeToString,
	}
}

// NewXXHasher fingerprints content with xxhash64, rendered as 16 hex digits.
func NewXXHasher() *ContentHasher {
	return &ContentHasher{
		kind:   domain.HasherXXH64,
		digest: func() hash.Hash { return xxhash.New() },
		encode: func(sum []byte) string { return fmt.Sprintf("%016x", sum) },
	}
}

// Kind reports the hasher's strategy.
func (h *ContentHasher) Kind() domain.HasherKind {
	return h.kind
}

// Hash returns the content fingerprint of path. Directories and unreadable
// files have none.
func (h *ContentHasher) Hash(path string) (string, bool) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return "", false
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	d := h.digest()
	if _, err := io.Copy(d, f); err != nil {
		return "", false
	}

	return h.encode(d.Sum(nil)), true
}

// MtimeHasher fingerprints a path by its modification time. Unlike the
// content hashers it also fingerprints directories.
type MtimeHasher struct{}

// NewMtimeHasher creates a new MtimeHasher.
func NewMtimeHasher() *MtimeHasher {
	return &MtimeHasher{}
}

// Kind reports the hasher's strategy.
func (h *MtimeHasher) Kind() domain.HasherKind {
	return domain.HasherMtime
}

// Hash returns "<seconds>.<nanoseconds>" of the path's mtime.
func (h *MtimeHasher) Hash(path string) (string, bool) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return "", false
	}

	sec, nsec := st.Mtim.Unix()
	return fmt.Sprintf("%d.%09d", sec, nsec), true
}

// Hashers resolves a hasher by kind.
type Hashers struct {
	byKind map[domain.HasherKind]ports.Hasher
}

// NewHashers registers the built-in hashers.
func NewHashers() *Hashers {
	return &Hashers{
		byKind: map[domain.HasherKind]ports.Hasher{
			domain.HasherMD5:   NewMD5Hasher(),
			domain.HasherMtime: NewMtimeHasher(),
			domain.HasherXXH64: NewXXHasher(),
		},
	}
}

// For returns the hasher for kind.
func (h *Hashers) For(kind domain.HasherKind) (ports.Hasher, error) {
	hasher, ok := h.byKind[kind]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownHasher, ""), "hasher", string(kind))
	}
	return hasher, nil
}
