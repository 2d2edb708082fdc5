// Package gravatar derives presentation avatar URLs from email addresses.
//
// Gravatar's contract is just a URL template around an MD5 hex digest of the
// normalized email. MD5 is fine here — it's an identifier, not a credential.
package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// URL returns the Gravatar image URL for the given email.
//
// Query parameters: s=200 (size), r=pg (rating ceiling), d=mm (the
// "mystery man" silhouette for addresses with no Gravatar account).
func URL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=mm",
		hex.EncodeToString(sum[:]))
}
