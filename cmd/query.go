package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/vc-data/internal/engine"
	"github.com/sells-group/vc-data/internal/service"
)

// runQuery wires the service for a single CLI query, runs fn and prints its
// text result.
func runQuery(cmd *cobra.Command, fn func(ctx context.Context, svc *service.Service) (string, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, st, err := initService(ctx, "query")
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	out, err := fn(ctx, svc)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

var (
	queryLimit    int
	searchFlags   engine.Criteria
	guideShowsRef bool
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "List investor records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runQuery(cmd, func(ctx context.Context, svc *service.Service) (string, error) {
			return svc.GetInvestorData(ctx, queryLimit)
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search investors by type, stage, country, HQ and cheque bounds",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := searchFlags
		c.Limit = queryLimit
		return runQuery(cmd, func(ctx context.Context, svc *service.Service) (string, error) {
			return svc.SearchInvestors(ctx, c)
		})
	},
}

var chequeCmd = &cobra.Command{
	Use:   "cheque",
	Short: "Find investors by first cheque size",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runQuery(cmd, func(ctx context.Context, svc *service.Service) (string, error) {
			return svc.FindByChequeSize(ctx, searchFlags.MinCheque, searchFlags.MaxCheque, queryLimit)
		})
	},
}

var similarCmd = &cobra.Command{
	Use:   "similar <investor name>",
	Short: "Rank investors similar to the named investor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, func(ctx context.Context, svc *service.Service) (string, error) {
			return svc.FindSimilar(ctx, args[0], queryLimit)
		})
	},
}

// analyticsCmd builds a flagless command around a dataset-wide tool.
func analyticsCmd(use, short string, fn func(*service.Service, context.Context) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, func(ctx context.Context, svc *service.Service) (string, error) {
				return fn(svc, ctx)
			})
		},
	}
}

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Print the location search guide (or the data reference with --reference)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc := service.New(nil, engine.DefaultTables(), service.Options{})
		if guideShowsRef {
			fmt.Fprintln(cmd.OutOrStdout(), svc.ReferenceGuide())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), svc.LocationGuide())
		return nil
	},
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools served over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := cmd.OutOrStdout()
		for _, t := range service.Tools() {
			fmt.Fprintf(w, "%s\n  %s\n", t.Name, t.Description)
			for _, p := range t.Params {
				req := ""
				if p.Required {
					req = ", required"
				}
				fmt.Fprintf(w, "    --%s (%s%s) %s\n", p.Name, p.Type, req, p.Description)
			}
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{dataCmd, searchCmd, chequeCmd, similarCmd} {
		c.Flags().IntVar(&queryLimit, "limit", 0, "maximum number of results (0 = no limit, or the default for similar)")
	}

	searchCmd.Flags().StringVar(&searchFlags.InvestorType, "type", "", "investor type, e.g. VC, Angel")
	searchCmd.Flags().StringVar(&searchFlags.Stage, "stage", "", "investment stage, e.g. Seed")
	searchCmd.Flags().StringVar(&searchFlags.Country, "country", "", "country of investment; aliases like US expand")
	searchCmd.Flags().StringVar(&searchFlags.HQLocation, "hq", "", "global HQ location")
	for _, c := range []*cobra.Command{searchCmd, chequeCmd} {
		c.Flags().StringVar(&searchFlags.MinCheque, "min", "", "minimum first cheque, e.g. 50k")
		c.Flags().StringVar(&searchFlags.MaxCheque, "max", "", "maximum first cheque, e.g. 2M")
	}

	guideCmd.Flags().BoolVar(&guideShowsRef, "reference", false, "print the data reference guide instead")

	rootCmd.AddCommand(
		dataCmd, searchCmd, chequeCmd, similarCmd,
		analyticsCmd("stages", "Analyze investment stage distribution", (*service.Service).AnalyzeStages),
		analyticsCmd("thesis", "Analyze investment thesis keywords and themes", (*service.Service).AnalyzeThesis),
		analyticsCmd("stats", "Print dataset statistics", (*service.Service).Statistics),
		analyticsCmd("types", "List distinct investor types", (*service.Service).InvestorTypes),
		analyticsCmd("countries", "List distinct countries of investment", (*service.Service).Countries),
		guideCmd, toolsCmd,
	)
}
