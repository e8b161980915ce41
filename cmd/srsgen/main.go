// Command srsgen generates an insecure, deterministic structured reference
// string artifact for devnets and tests. The secret scalar is derived from
// the seed, so anyone holding the seed can recover it: never use the
// output on a real network, where the SRS comes from a trusted ceremony.
//
// Usage:
//
//	srsgen [flags]
//
// Flags:
//
//	--size  Number of G1 powers, at least twice the domain size (default 1024)
//	--seed  Seed string for the secret scalar (default "dastack-devnet")
//	--out   Output artifact path (default srs.bin)
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/eth2030/dastack/kzg"
	"github.com/eth2030/dastack/log"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning an exit code. Accepts CLI
// arguments (without the program name) so it can be tested in isolation.
func run(args []string) int {
	fs := flag.NewFlagSet("srsgen", flag.ContinueOnError)
	size := fs.Int("size", 1024, "number of G1 powers")
	seed := fs.String("seed", "dastack-devnet", "seed string for the secret scalar")
	out := fs.String("out", "srs.bin", "output artifact path")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *size < 2 {
		fmt.Fprintln(os.Stderr, "srsgen: size must be at least 2")
		return 2
	}

	logger := log.Default().Module("srsgen")
	logger.Info("generating insecure SRS", "size", *size, "out", *out)

	params := kzg.NewInsecureParameters(*size, []byte(*seed))
	artifact, err := params.MarshalBinary()
	if err != nil {
		logger.Error("encoding SRS failed", "err", err)
		return 1
	}
	if err := os.WriteFile(*out, artifact, 0o644); err != nil {
		logger.Error("writing SRS artifact failed", "err", err)
		return 1
	}
	logger.Info("wrote SRS artifact", "bytes", len(artifact))
	return 0
}
