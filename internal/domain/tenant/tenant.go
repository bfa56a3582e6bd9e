// Package tenant maps authenticated identities onto isolated storage namespaces.
package tenant

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// maxIdentityLen bounds the accepted identity length (RFC 5321 address limit).
const maxIdentityLen = 320

// namespacePrefix marks document namespaces in the storage layer.
const namespacePrefix = "docs_"

// hashLen is the number of hex characters of the identity digest kept in the
// namespace. 12 chars (48 bits) keeps collisions out of reach for any
// realistic tenant population.
const hashLen = 12

// Resolve derives the storage namespace for a tenant identity.
//
// The namespace is a readable slug of the identity's local part plus a short
// SHA-256 digest of the full identity. The digest makes the mapping injective
// in practice: two identities that slug identically (e.g. "a.b@x" and "ab@x")
// still resolve to distinct namespaces.
func Resolve(identity string) (string, error) {
	if identity == "" {
		return "", fmt.Errorf("empty identity: %w", domain.ErrInvalidIdentity)
	}
	if len(identity) > maxIdentityLen {
		return "", fmt.Errorf("identity exceeds %d bytes: %w", maxIdentityLen, domain.ErrInvalidIdentity)
	}
	for _, r := range identity {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("identity contains control characters: %w", domain.ErrInvalidIdentity)
		}
	}

	sum := sha256.Sum256([]byte(identity))
	digest := hex.EncodeToString(sum[:])[:hashLen]

	return namespacePrefix + slug(identity) + "_" + digest, nil
}

// slug keeps [a-z0-9] of the identity's local part, lowercased, bounded to 24
// chars. Purely cosmetic; uniqueness comes from the digest.
func slug(identity string) string {
	local := identity
	if at := strings.IndexByte(identity, '@'); at >= 0 {
		local = identity[:at]
	}

	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if b.Len() >= 24 {
			break
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "tenant"
	}
	return b.String()
}
