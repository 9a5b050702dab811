package deployment

import (
	"crypto/md5" // #nosec G501 - identity hash, not a security boundary
	"encoding/hex"
	"errors"
	"os"
)

// IDLength is the length of a deployment ID: an MD5 digest in lowercase hex.
const IDLength = 2 * md5.Size

// ErrInvalidID is returned for IDs that Identity could not have produced.
var ErrInvalidID = errors.New("invalid deployment id")

// Identity derives the deployment ID from cluster-connection material.
//
// If material is a path to a readable regular file, the file contents are
// hashed; otherwise the string itself is hashed.
func Identity(material string) string {
	payload := []byte(material)
	if info, err := os.Stat(material); err == nil && info.Mode().IsRegular() {
		if content, err := os.ReadFile(material); err == nil { // #nosec G304 - operator supplied path
			payload = content
		}
	}

	sum := md5.Sum(payload) // #nosec G401
	return hex.EncodeToString(sum[:])
}

// IsFile reports whether material refers to an existing regular file.
func IsFile(material string) bool {
	info, err := os.Stat(material)
	return err == nil && info.Mode().IsRegular()
}

// ValidID reports whether id has the shape produced by Identity.
// IDs name directories below the deployments root, so anything else is refused.
func ValidID(id string) bool {
	if len(id) != IDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
