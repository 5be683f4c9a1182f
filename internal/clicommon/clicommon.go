// Package clicommon holds the flag set and small helpers shared by the
// phase-1 and phase-2 CLI binaries.
package clicommon

import (
	"fmt"
	"os"

	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/giuliop/tauceremony/curve"
	"github.com/giuliop/tauceremony/phase1"
)

// Flags is the shared flag set, persistent on each binary's root
// command.
type Flags struct {
	Seed                   string
	CurveKind              string
	ProvingSystem          string
	ContributionMode       string
	ChunkIndex             int
	ChunkSize              int
	BatchSize              int
	Power                  int
	BatchExpMode           string
	SubgroupCheckMode      string
	ForceCorrectnessChecks bool
}

// Register attaches the shared flags to a command as persistent flags.
func (f *Flags) Register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.Seed, "seed", "", "hex-encoded seed for deterministic contributions")
	pf.StringVar(&f.CurveKind, "curve-kind", "bls12_381", "bls12_377|bls12_381|bw6|bn254")
	pf.StringVar(&f.ProvingSystem, "proving-system", "groth16", "proving system (groth16)")
	pf.StringVar(&f.ContributionMode, "contribution-mode", "full", "full|chunked")
	pf.IntVar(&f.ChunkIndex, "chunk-index", 0, "chunk index for chunked mode")
	pf.IntVar(&f.ChunkSize, "chunk-size", 0, "chunk size (elements) for chunked mode")
	pf.IntVar(&f.BatchSize, "batch-size", 64, "batch/window size")
	pf.IntVar(&f.Power, "power", 10, "s: powers_length = 2^s")
	pf.StringVar(&f.BatchExpMode, "batch-exp-mode", "auto", "auto|naive|batched")
	pf.StringVar(&f.SubgroupCheckMode, "subgroup-check-mode", "auto", "auto|no|yes")
	pf.BoolVar(&f.ForceCorrectnessChecks, "force-correctness-checks", false,
		"always check that incoming points are non-zero and in the correct subgroup")
}

// Engine resolves --curve-kind to a curve.Engine.
func (f *Flags) Engine() (curve.Engine, error) {
	kind, ok := curve.ParseKind(f.CurveKind)
	if !ok {
		return nil, fmt.Errorf("unknown --curve-kind %q", f.CurveKind)
	}
	e, ok := curve.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("curve %q has no registered engine", f.CurveKind)
	}
	return e, nil
}

// Params builds a phase1.Parameters from the shared flags.
func (f *Flags) Params() (*phase1.Parameters, error) {
	e, err := f.Engine()
	if err != nil {
		return nil, err
	}
	mode := phase1.Full
	if f.ContributionMode == "chunked" {
		mode = phase1.Chunked
	}
	p := &phase1.Parameters{
		Engine:     e,
		Power:      uint8(f.Power),
		BatchSize:  f.BatchSize,
		ChunkIndex: f.ChunkIndex,
		ChunkSize:  f.ChunkSize,
		Mode:       mode,
		BatchExp:   f.BatchExp(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// BatchExp resolves --batch-exp-mode.
func (f *Flags) BatchExp() phase1.BatchExpMode {
	switch f.BatchExpMode {
	case "naive":
		return phase1.BatchExpNaive
	case "batched":
		return phase1.BatchExpBatched
	default:
		return phase1.BatchExpAuto
	}
}

// SubgroupCheck resolves --subgroup-check-mode.
// --force-correctness-checks overrides it to always check.
func (f *Flags) SubgroupCheck() phase1.SubgroupCheckMode {
	if f.ForceCorrectnessChecks {
		return phase1.SubgroupCheckYes
	}
	switch f.SubgroupCheckMode {
	case "yes":
		return phase1.SubgroupCheckYes
	case "no":
		return phase1.SubgroupCheckNo
	default:
		return phase1.SubgroupCheckAuto
	}
}

// InitLogging reads the CEREMONY_LOG_LEVEL environment variable and
// wires it into gnark's logger, which wraps zerolog.
func InitLogging() {
	lvl := os.Getenv("CEREMONY_LOG_LEVEL")
	parsed, err := zerolog.ParseLevel(lvl)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	logger.SetOutput(os.Stderr)
}

// MissingCommand prints usage and exits with code 2.
func MissingCommand(cmd *cobra.Command, args []string) error {
	_ = cmd.Usage()
	os.Exit(2)
	return nil
}
