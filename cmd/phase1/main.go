// Command phase1 drives the powers-of-tau accumulator engine: new,
// contribute, beacon, the verify-and-transform-* family, and combine.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	tauceremony "github.com/giuliop/tauceremony"
	"github.com/giuliop/tauceremony/internal/clicommon"
	"github.com/giuliop/tauceremony/phase1"
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
		Use:   "phase1",
		Short: "Powers-of-tau accumulator ceremony",
		RunE:  clicommon.MissingCommand,
	}
	flags.Register(root)

	root.AddCommand(
		newCmd(flags),
		contributeCmd(flags),
		beaconCmd(flags),
		verifyPoKCmd(flags),
		verifyRatiosCmd(flags),
		verifyChunkCmd(flags),
		verifyFullCmd(flags),
		combineCmd(flags),
	)
	return root
}

// beaconBlockHash is the public randomness a beacon contribution derives
// its private key from: the hash of Bitcoin block #564321. Pinning the
// value in the binary means every verifier recomputes the beacon from the
// same, independently checkable constant.
const beaconBlockHash = "0000000000000000000a558a61ddc8ee4e488d647a747fe4dcc362fe2026c620"

func newCmd(flags *clicommon.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "new <output>",
		Short: "Initialize a fresh challenge accumulator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.Params()
			if err != nil {
				return err
			}
			buf, err := tauceremony.NewChallenge(p, false)
			if err != nil {
				return err
			}
			return os.WriteFile(args[0], buf, 0o644)
		},
	}
}

func contributeCmd(flags *clicommon.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "contribute <challenge> <response> <pubkey>",
		Short: "Contribute a fresh (or --seed-derived) private key to a challenge",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.Params()
			if err != nil {
				return err
			}
			challenge, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var (
				response []byte
				pub      *phase1.PublicKey
			)
			if flags.Seed != "" {
				seed, err := hex.DecodeString(flags.Seed)
				if err != nil {
					return err
				}
				response, pub, err = tauceremony.BeaconContribute(challenge, seed, p, nil)
				if err != nil {
					return err
				}
			} else {
				response, pub, err = tauceremony.Contribute(challenge, p, nil)
				if err != nil {
					return err
				}
			}
			if err := os.WriteFile(args[1], response, 0o644); err != nil {
				return err
			}
			return os.WriteFile(args[2], phase1.EncodePublicKey(p.Engine, pub), 0o644)
		},
	}
}

func beaconCmd(flags *clicommon.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "beacon <challenge> <response> <pubkey>",
		Short: "Contribute using the pinned public beacon randomness instead of a CSPRNG draw",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.Params()
			if err != nil {
				return err
			}
			beacon, err := hex.DecodeString(beaconBlockHash)
			if err != nil {
				return err
			}
			challenge, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			response, pub, err := tauceremony.BeaconContribute(challenge, beacon, p, nil)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[1], response, 0o644); err != nil {
				return err
			}
			return os.WriteFile(args[2], phase1.EncodePublicKey(p.Engine, pub), 0o644)
		},
	}
}

func verifyPoKCmd(flags *clicommon.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-and-transform-pok-and-correctness <challenge> <response> <pubkey>",
		Short: "Verify a single contribution's proof of knowledge and correctness",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.Params()
			if err != nil {
				return err
			}
			challenge, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			response, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			pubBytes, err := os.ReadFile(args[2])
			if err != nil {
				return err
			}
			pub, err := phase1.DecodePublicKey(p.Engine, pubBytes)
			if err != nil {
				return err
			}
			if err := tauceremony.VerifyContribution(challenge, response, pub, p, flags.SubgroupCheck()); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func verifyRatiosCmd(flags *clicommon.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-and-transform-ratios <accumulator>",
		Short: "Verify the consecutive-power ratio structure of a full accumulator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.Params()
			if err != nil {
				return err
			}
			buf, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := tauceremony.VerifyFull(buf, p, tauceremony.RandScalar); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func verifyChunkCmd(flags *clicommon.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-and-transform-chunk <challenge-chunk> <response-chunk> <pubkey>",
		Short: "Verify a single chunk's contribution (chunked-mode convenience for pok-and-correctness)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.ContributionMode = "chunked"
			p, err := flags.Params()
			if err != nil {
				return err
			}
			challenge, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			response, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			pubBytes, err := os.ReadFile(args[2])
			if err != nil {
				return err
			}
			pub, err := phase1.DecodePublicKey(p.Engine, pubBytes)
			if err != nil {
				return err
			}
			if err := tauceremony.VerifyContribution(challenge, response, pub, p, flags.SubgroupCheck()); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func verifyFullCmd(flags *clicommon.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-and-transform-full <challenge> <response> <pubkey>",
		Short: "Run both the PoK/correctness check and the full ratio check",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.Params()
			if err != nil {
				return err
			}
			challenge, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			response, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			pubBytes, err := os.ReadFile(args[2])
			if err != nil {
				return err
			}
			pub, err := phase1.DecodePublicKey(p.Engine, pubBytes)
			if err != nil {
				return err
			}
			if err := tauceremony.VerifyContribution(challenge, response, pub, p, flags.SubgroupCheck()); err != nil {
				return err
			}
			if err := tauceremony.VerifyFull(response, p, tauceremony.RandScalar); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func combineCmd(flags *clicommon.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "combine <output> <chunk> [chunk...]",
		Short: "Stitch chunk-view response buffers into one full-mode accumulator",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.Params()
			if err != nil {
				return err
			}
			chunks := make([][]byte, len(args)-1)
			for i, path := range args[1:] {
				buf, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				chunks[i] = buf
			}
			out, err := tauceremony.CombineChunks(chunks, p, false, false)
			if err != nil {
				return err
			}
			return os.WriteFile(args[0], out, 0o644)
		},
	}
}
