package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/bobg/smartbackup/digest"
)

func (c maincmd) hash(ctx context.Context, algorithm string, paths []string) error {
	alg, err := digest.Lookup(algorithm)
	if err != nil {
		return err
	}

	h := &digest.Hasher{Alg: alg}
	results, err := h.Files(ctx, paths, runtime.NumCPU(), nil)
	if err != nil {
		return err
	}
	for i, res := range results {
		if res.Err != nil {
			return res.Err
		}
		fmt.Printf("%s  %s\n", res.Digest, paths[i])
	}
	return nil
}
