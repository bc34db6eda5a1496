package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"sort"
	"strings"

	"github.com/zeebo/blake3"
)

// Algorithm is one of a fixed set of digest functions.
type Algorithm int

const (
	// SHA1 is the default, and the fallback for unrecognized names.
	SHA1 Algorithm = iota
	MD5
	SHA224
	SHA256
	SHA384
	SHA512
	BLAKE3
)

// Default is the algorithm used when none is named.
const Default = SHA1

type algInfo struct {
	name string
	new  func() hash.Hash
}

var algorithms = map[Algorithm]algInfo{
	SHA1:   {name: "sha1", new: sha1.New},
	MD5:    {name: "md5", new: md5.New},
	SHA224: {name: "sha224", new: sha256.New224},
	SHA256: {name: "sha256", new: sha256.New},
	SHA384: {name: "sha384", new: sha512.New384},
	SHA512: {name: "sha512", new: sha512.New},
	BLAKE3: {name: "blake3", new: func() hash.Hash { return blake3.New() }},
}

func (a Algorithm) String() string {
	if info, ok := algorithms[a]; ok {
		return info.name
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// New returns a fresh hash.Hash for a.
// An out-of-range value gets the default algorithm.
func (a Algorithm) New() hash.Hash {
	if info, ok := algorithms[a]; ok {
		return info.new()
	}
	return algorithms[Default].new()
}

// Parse finds the algorithm with the given name.
// Matching ignores case, surrounding space, and dashes or underscores,
// so "SHA-256" is sha256.
// The empty string means Default.
func Parse(name string) (Algorithm, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer("-", "", "_", "").Replace(name)
	if name == "" {
		return Default, true
	}
	for alg, info := range algorithms {
		if info.name == name {
			return alg, true
		}
	}
	return Default, false
}

// UnknownAlgorithmError is the error from Lookup for a name Parse does not recognize.
type UnknownAlgorithmError struct {
	Name string
}

func (e *UnknownAlgorithmError) Error() string {
	return fmt.Sprintf("unknown hash algorithm %q (supported: %s); using %s", e.Name, strings.Join(Names(), ", "), Default)
}

// Lookup is like Parse but reports an unrecognized name as an *UnknownAlgorithmError.
// Even then it returns Default,
// so callers can warn and carry on.
func Lookup(name string) (Algorithm, error) {
	alg, ok := Parse(name)
	if !ok {
		return Default, &UnknownAlgorithmError{Name: name}
	}
	return alg, nil
}

// Names lists the supported algorithm names in lexical order.
func Names() []string {
	names := make([]string, 0, len(algorithms))
	for _, info := range algorithms {
		names = append(names, info.name)
	}
	sort.Strings(names)
	return names
}
