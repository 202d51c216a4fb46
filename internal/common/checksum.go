package common

import (
	"encoding/binary"
	"encoding/hex"
	"os"

	"github.com/zeebo/blake3"
)

// Checksum is a fixed 128-bit content digest. Only equality is a contract;
// the digest itself carries no meaning beyond "same bytes produced this".
type Checksum struct {
	Lo uint64
	Hi uint64
}

func (c Checksum) IsZero() bool {
	return c.Lo == 0 && c.Hi == 0
}

func (c Checksum) String() string {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], c.Lo)
	binary.LittleEndian.PutUint64(b[8:16], c.Hi)
	return hex.EncodeToString(b[:])
}

// ChecksumBytes hashes an in-memory buffer, truncating the BLAKE3 digest to
// its first 128 bits.
func ChecksumBytes(content []byte) Checksum {
	digest := blake3.Sum256(content)
	return Checksum{
		Lo: binary.LittleEndian.Uint64(digest[0:8]),
		Hi: binary.LittleEndian.Uint64(digest[8:16]),
	}
}

// ChecksumFile hashes a file's content from disk.
func ChecksumFile(path string) (Checksum, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Checksum{}, err
	}
	return ChecksumBytes(content), nil
}
