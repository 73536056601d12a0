package cryptotest

import "strings"

// PlainHasher stores passwords with a plain: prefix. Test use only, argon2id
// is too slow for table-driven service tests.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) {
	return "plain:" + password, nil
}

func (PlainHasher) Verify(password, encoded string) (bool, error) {
	return strings.TrimPrefix(encoded, "plain:") == password, nil
}
