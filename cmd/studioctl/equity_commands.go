// cmd/studioctl/equity_commands.go
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/services"
)

func newEquityCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "equity",
		Short: "Inspect the cap table and manage the option pool",
	}

	cmd.AddCommand(newEquityPoolCommand(ctx))
	cmd.AddCommand(newEquityShareholdersCommand(ctx))
	cmd.AddCommand(newEquityGrantCommand(ctx))
	cmd.AddCommand(newEquityResizeCommand(ctx))
	return cmd
}

func newEquityPoolCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pool",
		Short: "Show pool capacity and the cap table summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			summary, err := engine.Equity.CapTableSummary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderCapTable(summary))
			return nil
		},
	}
}

func renderCapTable(summary *services.CapTableSummary) string {
	pool := summary.Pool
	var b strings.Builder
	b.WriteString(renderTable(
		[]string{"Pool", "Shares"},
		[][]string{
			{"Authorized", formatShares(pool.TotalAuthorizedShares)},
			{"Founder", formatShares(pool.FounderShares)},
			{"Pool", formatShares(pool.PoolShares)},
			{"Utilized", formatShares(pool.PoolUtilized)},
			{"Available", formatShares(pool.Available)},
		},
		[]columnAlignment{alignLeft, alignRight},
	))

	rows := make([][]string, 0, len(summary.ByType)+1)
	for _, t := range summary.ByType {
		rows = append(rows, []string{string(t.Type), strconv.FormatInt(t.Holders, 10), formatShares(t.Shares), formatPercent(t.Percentage)})
	}
	rows = append(rows, []string{"total", "", formatShares(summary.IssuedShares), formatPercent(summary.TotalPercentage)})
	b.WriteString(renderTable(
		[]string{"Type", "Holders", "Shares", "Ownership"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))
	return b.String()
}

func newEquityShareholdersCommand(ctx *commandContext) *cobra.Command {
	var (
		paging     pageFlags
		holderType string
	)
	cmd := &cobra.Command{
		Use:   "shareholders",
		Short: "List shareholders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			filter := services.ShareholderFilter{PaginationParams: paging.params()}
			if holderType != "" {
				t := models.ShareholderType(strings.ToLower(holderType))
				if !t.Valid() {
					return fmt.Errorf("unknown shareholder type %q", holderType)
				}
				filter.Type = &t
			}
			holders, total, err := engine.Equity.ListShareholders(cmd.Context(), filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(holders) == 0 {
				fmt.Fprintln(out, "No shareholders found")
				return nil
			}
			fmt.Fprint(out, renderTable(shareholderHeaders, shareholderRows(holders), shareholderAligns))
			printPageFooter(out, filter.PaginationParams, len(holders), total)
			return nil
		},
	}
	paging.register(cmd)
	cmd.Flags().StringVar(&holderType, "type", "", "Filter by type (founder, investor, employee)")
	return cmd
}

func newEquityGrantCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "grant <employee-id> <shares>",
		Short: "Grant options to an employee out of the pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			employeeID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid employee id %q: %w", args[0], err)
			}
			shares, err := parseShares(args[1])
			if err != nil {
				return err
			}
			engine, actor, err := ctx.engineAndActor()
			if err != nil {
				return err
			}
			result, err := engine.Equity.GrantOptions(cmd.Context(), actor, &services.GrantOptionsRequest{
				EmployeeID: employeeID,
				Shares:     shares,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Granted %s shares to %s (%s); pool available %s\n",
				formatShares(result.Shareholder.Shares),
				result.Shareholder.Name,
				formatPercent(result.Shareholder.Percentage),
				formatShares(result.Pool.Available),
			)
			return nil
		},
	}
}

func newEquityResizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resize <pool-shares>",
		Short: "Set the option pool size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shares, err := parseShares(args[0])
			if err != nil {
				return err
			}
			engine, actor, err := ctx.engineAndActor()
			if err != nil {
				return err
			}
			state, err := engine.Equity.ResizePool(cmd.Context(), actor, shares)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pool resized to %s shares (%s utilized, %s available)\n",
				formatShares(state.PoolShares),
				formatShares(state.PoolUtilized),
				formatShares(state.Available),
			)
			return nil
		},
	}
}

// parseShares accepts whole share counts written with optional _ or ,
// separators, e.g. 1_000_000.
func parseShares(raw string) (int64, error) {
	cleaned := strings.NewReplacer("_", "", ",", "").Replace(strings.TrimSpace(raw))
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number of shares", services.ErrInvalidShareCount, raw)
	}
	return n, nil
}

var (
	shareholderHeaders = []string{"Name", "Type", "Shares", "Ownership", "Granted"}
	shareholderAligns  = []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft}
)

func shareholderRows(holders []models.Shareholder) [][]string {
	rows := make([][]string, 0, len(holders))
	for _, h := range holders {
		rows = append(rows, []string{
			h.Name,
			string(h.Type),
			formatShares(h.Shares),
			formatPercent(h.Percentage),
			h.GrantDate.Format("2006-01-02"),
		})
	}
	return rows
}
