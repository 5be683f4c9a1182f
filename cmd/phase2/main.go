// Command phase2 drives the Groth16 MPC parameter engine: new,
// contribute, beacon, verify, and combine.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	tauceremony "github.com/giuliop/tauceremony"
	"github.com/giuliop/tauceremony/internal/clicommon"
	"github.com/giuliop/tauceremony/phase2"
)

func main() {
	clicommon.InitLogging()
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	flags := &clicommon.Flags{}
	root := &cobra.Command{
		Use:   "phase2",
		Short: "Groth16 MPC parameter ceremony",
		RunE:  clicommon.MissingCommand,
	}
	flags.Register(root)

	root.AddCommand(
		newCmd(flags),
		contributeCmd(flags),
		beaconCmd(flags),
		verifyCmd(flags),
		combineCmd(flags),
	)
	return root
}

func newCmd(flags *clicommon.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "new <phase1-accumulator> <r1cs.json> <output>",
		Short: "Build initial phase-2 parameters from a phase-1 SRS and an R1CS circuit",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.Params()
			if err != nil {
				return err
			}
			accumulator, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			r1csBytes, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			r1cs, err := phase2.DecodeR1CSJSON(r1csBytes)
			if err != nil {
				return err
			}
			params, err := tauceremony.NewPhase2(p.Engine, r1cs, accumulator, p)
			if err != nil {
				return err
			}
			out, err := phase2.Encode(params, false)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[2], out, 0o644); err != nil {
				return err
			}
			// In chunked mode, also emit one file per chunk of the
			// delta-dependent queries, named <output>.<k>.
			if flags.ContributionMode == "chunked" && flags.ChunkSize > 0 {
				chunks, err := phase2.SplitChunks(params, flags.ChunkSize)
				if err != nil {
					return err
				}
				for k, chunk := range chunks {
					buf, err := phase2.Encode(chunk, false)
					if err != nil {
						return err
					}
					if err := os.WriteFile(fmt.Sprintf("%s.%d", args[2], k), buf, 0o644); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}

func contributeCmd(flags *clicommon.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "contribute <before> <after>",
		Short: "Apply a fresh (or --seed-derived) delta' to phase-2 parameters",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, err := loadParams(args[0])
			if err != nil {
				return err
			}
			var after *phase2.MPCParameters
			if flags.Seed != "" {
				seed, err := hex.DecodeString(flags.Seed)
				if err != nil {
					return err
				}
				after, err = phase2.BeaconContribute(before, seed)
				if err != nil {
					return err
				}
			} else {
				after, err = tauceremony.ContributePhase2(before)
				if err != nil {
					return err
				}
			}
			return saveParams(args[1], after)
		},
	}
}

// beaconBlockHash is the public randomness a beacon contribution derives
// delta' from: the hash of Bitcoin block #564321, the same constant the
// phase-1 binary pins.
const beaconBlockHash = "0000000000000000000a558a61ddc8ee4e488d647a747fe4dcc362fe2026c620"

func beaconCmd(flags *clicommon.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "beacon <before> <after>",
		Short: "Apply a delta' derived from the pinned public beacon randomness",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			beacon, err := hex.DecodeString(beaconBlockHash)
			if err != nil {
				return err
			}
			before, err := loadParams(args[0])
			if err != nil {
				return err
			}
			after, err := phase2.BeaconContribute(before, beacon)
			if err != nil {
				return err
			}
			return saveParams(args[1], after)
		},
	}
}

func verifyCmd(flags *clicommon.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-and-transform <before> <after>",
		Short: "Verify a phase-2 contribution",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, err := loadParams(args[0])
			if err != nil {
				return err
			}
			after, err := loadParams(args[1])
			if err != nil {
				return err
			}
			hashes, err := tauceremony.VerifyPhase2(before, after, flags.ForceCorrectnessChecks)
			if err != nil {
				return err
			}
			fmt.Printf("ok: %d contributions in transcript\n", len(hashes))
			return nil
		},
	}
}

func combineCmd(flags *clicommon.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "combine <output> <initial-query> <response> [response...]",
		Short: "Combine an initial query set and a chain of responses into final parameters",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			initial, err := loadParams(args[1])
			if err != nil {
				return err
			}
			responses := make([]*phase2.MPCParameters, len(args)-2)
			for i, path := range args[2:] {
				r, err := loadParams(path)
				if err != nil {
					return err
				}
				responses[i] = r
			}
			final, err := tauceremony.CombinePhase2(initial, responses)
			if err != nil {
				return err
			}
			return saveParams(args[0], final)
		},
	}
}

func loadParams(path string) (*phase2.MPCParameters, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return phase2.Decode(buf)
}

func saveParams(path string, params *phase2.MPCParameters) error {
	buf, err := phase2.Encode(params, false)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

