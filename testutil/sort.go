package testutil

import (
	"sort"

	"github.com/google/go-cmp/cmp"
)

// SortedNames is a cmp option that compares string slices without regard to order.
// Directory listings come back in filesystem order,
// which tests must not depend on.
var SortedNames = cmp.Transformer("SortedNames", func(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
})
