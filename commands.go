package main

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hashwrap/algo"
	"hashwrap/checksum"
	"hashwrap/format"
	"hashwrap/hashwriter"
	"hashwrap/textwrap"
)

func (a *app) generateCmd() *cobra.Command {
	var (
		hf       hashFlags
		dir      string
		out      string
		progress bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Append digests of every file under a directory to a list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hf.apply(cmd, a.cfg)
			alg, enc, err := a.algorithm()
			if err != nil {
				return err
			}
			sum, err := checksum.Generate(cmd.Context(), checksum.Options{
				Dir:       dir,
				List:      out,
				Algorithm: alg,
				Encoding:  enc,
				Workers:   a.cfg.Workers,
				Progress:  progress,
				Out:       a.out,
				Logger:    a.logger,
			})
			if err != nil {
				return err
			}
			a.logger.Info("Checksums written",
				zap.String("list", out),
				zap.Int("files", sum.Total),
				zap.Int("failed", sum.Failed),
				zap.String("megabytes", format.FormatAmountUint64(sum.Bytes, 6)))
			return nil
		},
	}
	hf.register(cmd, true)
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to scan")
	cmd.Flags().StringVar(&out, "out", "hashes.txt", "Output list")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show progress updates")
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	var (
		hf       hashFlags
		dir      string
		list     string
		verbose  bool
		progress bool
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check files under a directory against a list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list == "" {
				return errors.Wrap(errUsage, "--list required in verify mode")
			}
			hf.apply(cmd, a.cfg)
			alg, enc, err := a.algorithm()
			if err != nil {
				return err
			}
			sum, err := checksum.Verify(cmd.Context(), checksum.Options{
				Dir:       dir,
				List:      list,
				Algorithm: alg,
				Encoding:  enc,
				Workers:   a.cfg.Workers,
				Verbose:   verbose,
				Progress:  progress,
				Out:       a.out,
				Logger:    a.logger,
			})
			if err != nil {
				return err
			}
			if sum.Mismatch > 0 {
				return errors.Errorf("%d of %d files do not match", sum.Mismatch, sum.Total)
			}
			return nil
		},
	}
	hf.register(cmd, true)
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory holding the files")
	cmd.Flags().StringVar(&list, "list", "", "Checksum list to verify")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Print every file, not only mismatches")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show progress updates")
	return cmd
}

func (a *app) digestCmd() *cobra.Command {
	var (
		hf       hashFlags
		bytewise bool
		length   int
		group    int
	)
	cmd := &cobra.Command{
		Use:   "digest [file...]",
		Short: "Print the digest of files, or of stdin when none are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			hf.apply(cmd, a.cfg)
			if cmd.Flags().Changed("group") {
				a.cfg.Group = group
			}
			alg, enc, err := a.algorithm()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return a.digestOne(alg, enc, a.in, "-", bytewise, length)
			}
			for _, name := range args {
				f, err := os.Open(name)
				if err != nil {
					return err
				}
				err = a.digestOne(alg, enc, f, name, bytewise, length)
				f.Close()
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	hf.register(cmd, false)
	cmd.Flags().BoolVar(&bytewise, "bytewise", false, "Feed input one byte at a time")
	cmd.Flags().IntVarP(&length, "length", "n", 0, "Digest length in bytes (extendable-output algorithms)")
	cmd.Flags().IntVar(&group, "group", 0, "Split the printed digest into groups of this many characters")
	return cmd
}

func (a *app) digestOne(alg algo.Algorithm, enc algo.Encoding, r io.Reader, name string, bytewise bool, length int) error {
	w, err := hashwriter.New(alg.New)
	if err != nil {
		return err
	}
	if bytewise {
		br := bufio.NewReader(r)
		for {
			b, err := br.ReadByte()
			if err == io.EOF {
				break
			}
			if err != nil {
				return errors.Wrapf(err, "read %s", name)
			}
			w.Append(b)
		}
	} else if _, err := io.Copy(w, r); err != nil {
		return errors.Wrapf(err, "read %s", name)
	}

	digest := w.Digest()
	if length > 0 {
		if digest, err = w.DigestN(length); err != nil {
			return errors.Wrapf(err, "%s with length %d", alg.Name, length)
		}
	}
	s, err := alg.Format(digest, enc)
	if err != nil {
		return err
	}
	if a.cfg.Group > 0 {
		var parts []string
		for c := range format.Chunks([]byte(s), a.cfg.Group) {
			parts = append(parts, string(c))
		}
		s = strings.Join(parts, " ")
	}
	a.logger.Debug("Digested", zap.String("name", name), zap.Uint64("bytes", w.Len()))
	_, err = fmt.Fprintf(a.out, "%s  %s\n", s, name)
	return err
}

func (a *app) algorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the supported hash algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.resolve(); err != nil {
				return err
			}
			for _, name := range a.registry.Names() {
				alg, _ := a.registry.Lookup(name)
				mb := ""
				if alg.Code != 0 {
					mb = " multibase"
				}
				if _, err := fmt.Fprintf(a.out, "%-16s %3d bytes%s\n", name, alg.Size, mb); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) wrapCmd() *cobra.Command {
	var (
		width  int
		metric string
	)
	cmd := &cobra.Command{
		Use:   "wrap [text...]",
		Short: "Wrap text to a width; each stdin line is wrapped on its own",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("width") {
				a.cfg.Width = width
			}
			if cmd.Flags().Changed("metric") {
				a.cfg.Metric = metric
			}
			if err := a.resolve(); err != nil {
				return err
			}
			m, err := textwrap.MetricByName(a.cfg.Metric)
			if err != nil {
				return err
			}
			if m, err = textwrap.Cached(m, 4096); err != nil {
				return err
			}
			w, err := textwrap.New(a.cfg.Width, textwrap.WithMetric(m))
			if err != nil {
				return err
			}

			if len(args) > 0 {
				return a.wrapLine(w, strings.Join(args, " "))
			}
			scanner := bufio.NewScanner(a.in)
			for scanner.Scan() {
				if err := a.wrapLine(w, scanner.Text()); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", 0, "Lines are kept narrower than this")
	cmd.Flags().StringVar(&metric, "metric", "", "Width metric: runes, bytes, cells or graphemes")
	return cmd
}

func (a *app) wrapLine(w *textwrap.Wrapper, sentence string) error {
	for line, err := range w.Lines(sentence) {
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(a.out, line); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) amountCmd() *cobra.Command {
	var decimals uint
	cmd := &cobra.Command{
		Use:   "amount <units>",
		Short: "Format an integer amount of indivisible units as a decimal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, ok := new(big.Int).SetString(args[0], 10)
			if !ok {
				return errors.Wrapf(errUsage, "not an integer: %q", args[0])
			}
			_, err := fmt.Fprintln(a.out, format.FormatAmount(amount, decimals))
			return err
		},
	}
	cmd.Flags().UintVarP(&decimals, "decimals", "d", 8, "Number of fractional digits")
	return cmd
}

func (a *app) ordinalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ordinal <n>",
		Short: "Print n with its English ordinal suffix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Wrapf(errUsage, "not an integer: %q", args[0])
			}
			_, err = fmt.Fprintln(a.out, format.FormatOrdinal(n))
			return err
		},
	}
}

func (a *app) identityCmd() *cobra.Command {
	var id format.Identity
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Serialize an identity as proto://user@host:port/path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(a.out, id.String())
			return err
		},
	}
	cmd.Flags().StringVar(&id.Proto, "proto", "", "Protocol")
	cmd.Flags().StringVar(&id.User, "user", "", "User")
	cmd.Flags().StringVar(&id.Host, "host", "", "Host")
	cmd.Flags().StringVar(&id.Port, "port", "", "Port")
	cmd.Flags().StringVar(&id.Path, "path", "", "Path")
	return cmd
}
