package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdf-canon/rdf"
)

const (
	outputTurtle   = "turtle"
	outputNTriples = "ntriples"
)

func (a *app) digestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "digest FILE...",
		Short: "`digest` prints the label-independent SHA-256 digest of each graph",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			canon := a.canonicalizer()
			for _, path := range args {
				g, err := a.readGraph(cmd, path)
				if err != nil {
					return err
				}
				sum, err := canon.Digest(g)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", sum, path)
				a.logger.WithFields(logrus.Fields{"file": path, "digest": sum}).Info("digest computed")
			}
			return nil
		},
	}
}

func (a *app) canonicalizeCmd() *cobra.Command {
	var (
		format   string
		base     string
		prefixes []string
		indent   int
	)
	cmd := &cobra.Command{
		Use:   "canonicalize FILE",
		Short: "`canonicalize` writes the graph in canonical order as Turtle or N-Triples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.config.printerConfig()
			if cmd.Flags().Changed("base") {
				cfg.Base = base
			}
			if cmd.Flags().Changed("indent") {
				cfg.IndentWidth = indent
			}
			if len(prefixes) > 0 {
				merged := make(map[string]string, len(cfg.Prefixes)+len(prefixes))
				for label, ns := range cfg.Prefixes {
					merged[label] = ns
				}
				for _, p := range prefixes {
					label, ns, ok := strings.Cut(p, "=")
					if !ok {
						return fmt.Errorf("invalid --prefix %q, want label=namespace", p)
					}
					merged[label] = ns
				}
				cfg.Prefixes = merged
			}

			var printer *rdf.Printer
			switch format {
			case outputTurtle:
				var err error
				if printer, err = rdf.NewPrinter(cfg); err != nil {
					return err
				}
			case outputNTriples:
			default:
				return fmt.Errorf("%w: output %q", rdf.ErrUnsupportedFormat, format)
			}

			g, err := a.readGraph(cmd, args[0])
			if err != nil {
				return err
			}
			triples, err := a.canonicalizer().CanonicalOrder(g)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if printer == nil {
				return rdf.WriteNTriples(cmd.OutOrStdout(), triples)
			}
			text, err := printer.Render(triples)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&format, "format", "f", outputTurtle, "output format: turtle or ntriples")
	flags.StringVar(&base, "base", "", "base IRI used to shorten IRIs")
	flags.StringArrayVarP(&prefixes, "prefix", "p", nil, "namespace prefix as label=namespace, repeatable")
	flags.IntVar(&indent, "indent", rdf.DefaultIndentWidth, "spaces before each predicate")
	return cmd
}

func (a *app) skolemizeCmd() *cobra.Command {
	var base string
	cmd := &cobra.Command{
		Use:   "skolemize FILE",
		Short: "`skolemize` replaces blank nodes with well-known genid IRIs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skolemBase, err := a.skolemBase(cmd, base)
			if err != nil {
				return err
			}
			g, err := a.readGraph(cmd, args[0])
			if err != nil {
				return err
			}
			return rdf.WriteNTriples(cmd.OutOrStdout(), rdf.Skolemize(g, skolemBase).Triples())
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "base IRI for genid IRIs, overrides skolem.base")
	return cmd
}

func (a *app) deskolemizeCmd() *cobra.Command {
	var base string
	cmd := &cobra.Command{
		Use:   "deskolemize FILE",
		Short: "`deskolemize` replaces well-known genid IRIs with fresh blank nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skolemBase, err := a.skolemBase(cmd, base)
			if err != nil {
				return err
			}
			g, err := a.readGraph(cmd, args[0])
			if err != nil {
				return err
			}
			return rdf.WriteNTriples(cmd.OutOrStdout(), rdf.Deskolemize(g, skolemBase).Triples())
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "base IRI of genid IRIs, overrides skolem.base")
	return cmd
}

func (a *app) skolemBase(cmd *cobra.Command, flagValue string) (string, error) {
	base := a.config.Skolem.Base
	if cmd.Flags().Changed("base") {
		base = flagValue
	}
	if base == "" {
		return "", &rdf.ConfigurationError{Field: "base", Reason: "a base IRI is required"}
	}
	if err := rdf.ValidateIRI(base); err != nil {
		return "", &rdf.ConfigurationError{Field: "base", Reason: err.Error()}
	}
	return base, nil
}

func (a *app) normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize FILE",
		Short: "`normalize` writes URDNA2015 canonical N-Quads, accepting any graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.readGraph(cmd, args[0])
			if err != nil {
				return err
			}
			out, err := rdf.NormalizeURDNA2015(cmd.Context(), g)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}
}
