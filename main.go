package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hashwrap/algo"
	"hashwrap/config"
	"hashwrap/logging"
)

// errUsage marks errors caused by how the command was invoked.
var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	cmd := newRootCmd(os.Stdout, os.Stderr, os.Stdin)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to a process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, config.ErrInvalidConfig):
		return 2
	}
	return 1
}

// app carries state shared by the subcommands of one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer
	in     io.Reader

	configPath string
	debug      bool

	cfg      *config.Config
	registry *algo.Registry
	logger   *zap.Logger
}

func newRootCmd(out, errOut io.Writer, in io.Reader) *cobra.Command {
	a := &app{out: out, errOut: errOut, in: in}

	root := &cobra.Command{
		Use:   "hashwrap",
		Short: "Digest files and wrap text for narrow displays",
		Long: `hashwrap accumulates input into a choice of hash primitives, keeps
checksum lists for folders and wraps text to a fixed width.

Defaults come from hashwrap.yaml (or --config) and HASHWRAP_* variables;
flags override both.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetIn(in)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Wrap(errUsage, err.Error())
	})

	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath, "Config file")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		a.generateCmd(),
		a.verifyCmd(),
		a.digestCmd(),
		a.algorithmsCmd(),
		a.wrapCmd(),
		a.amountCmd(),
		a.ordinalCmd(),
		a.identityCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger == nil {
		if a.logger, err = logging.New(a.debug); err != nil {
			return err
		}
	}
	return nil
}

// resolve applies flag overrides and validates the merged configuration.
func (a *app) resolve() error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	reg, err := a.cfg.Registry()
	if err != nil {
		return err
	}
	a.registry = reg
	return nil
}

// algorithm returns the configured algorithm and digest encoding.
func (a *app) algorithm() (algo.Algorithm, algo.Encoding, error) {
	if err := a.resolve(); err != nil {
		return algo.Algorithm{}, "", err
	}
	alg, err := a.registry.Lookup(a.cfg.Algorithm)
	if err != nil {
		return algo.Algorithm{}, "", err
	}
	enc, err := algo.ParseEncoding(a.cfg.Encoding)
	if err != nil {
		return algo.Algorithm{}, "", err
	}
	return alg, enc, nil
}

// hashFlags holds the flags shared by the hashing commands. Changed values
// are copied into the loaded config by apply.
type hashFlags struct {
	algorithm string
	encoding  string
	workers   int
}

func (h *hashFlags) register(cmd *cobra.Command, workers bool) {
	cmd.Flags().StringVarP(&h.algorithm, "algorithm", "a", "", "Hash algorithm (see 'hashwrap algorithms')")
	cmd.Flags().StringVarP(&h.encoding, "encoding", "e", "", "Digest encoding: hex or multibase")
	if workers {
		cmd.Flags().IntVarP(&h.workers, "workers", "j", 0, "Number of hashing goroutines")
	}
}

func (h *hashFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("algorithm") {
		cfg.Algorithm = h.algorithm
	}
	if cmd.Flags().Changed("encoding") {
		cfg.Encoding = h.encoding
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = h.workers
	}
}
