package lastfm

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// Sign computes the api_sig value for an API call: parameter names are
// sorted ascending by byte value, each name is concatenated with its value,
// the shared secret is appended and the result is md5-hashed to lowercase hex.
// The "format" and "api_sig" parameters are added after signing and must
// never appear in the params map passed here.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(params[k])
	}
	b.WriteString(secret)

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
