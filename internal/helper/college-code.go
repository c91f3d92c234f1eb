package helper

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
)

const (
	codePrefixLen = 3
	codeSuffixLen = 4
	codeAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var CollegeCodePattern = regexp.MustCompile(`^[A-Z]{3}[A-Z0-9]{4}$`)

// CodeGenerator produces a candidate college code for a college name.
type CodeGenerator func(name string) (string, error)

// GenerateCollegeCode returns the first three letters of the name followed by
// four random characters, e.g. "Acme College" -> "ACM7F2Q".
func GenerateCollegeCode(name string) (string, error) {
	suffix, err := randomString(codeSuffixLen)
	if err != nil {
		return "", err
	}
	return CollegeCodePrefix(name) + suffix, nil
}

// CollegeCodePrefix transliterates the name and keeps its first three letters,
// padding with X for very short names.
func CollegeCodePrefix(name string) string {
	var b strings.Builder
	for _, r := range slug.Make(name) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r - 'a' + 'A')
			if b.Len() == codePrefixLen {
				break
			}
		}
	}
	for b.Len() < codePrefixLen {
		b.WriteByte('X')
	}
	return b.String()
}

func randomString(n int) (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = codeAlphabet[idx.Int64()]
	}
	return string(out), nil
}
