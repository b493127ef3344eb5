// cmd/studioctl/ledger_commands.go
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/services"
)

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Read contract and receipt ledgers",
	}

	cmd.AddCommand(newLedgerContractsCommand(ctx))
	cmd.AddCommand(newLedgerReceiptsCommand(ctx))
	cmd.AddCommand(newLedgerValuationCommand(ctx))
	return cmd
}

func newLedgerContractsCommand(ctx *commandContext) *cobra.Command {
	var (
		paging  pageFlags
		assetID string
	)
	cmd := &cobra.Command{
		Use:   "contracts",
		Short: "List contract records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			filter := services.LedgerFilter{PaginationParams: paging.params(), AssetID: assetID}
			records, total, err := engine.Ledger.ListContracts(cmd.Context(), filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No contracts recorded")
				return nil
			}
			fmt.Fprint(out, renderTable([]string{"Asset", "Signer", "Date", "Digest"}, contractRows(records), nil))
			printPageFooter(out, filter.PaginationParams, len(records), total)
			return nil
		},
	}
	paging.register(cmd)
	cmd.Flags().StringVar(&assetID, "asset", "", "Filter by asset id")
	return cmd
}

func newLedgerReceiptsCommand(ctx *commandContext) *cobra.Command {
	var (
		paging  pageFlags
		assetID string
	)
	cmd := &cobra.Command{
		Use:   "receipts",
		Short: "List receipts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			filter := services.LedgerFilter{PaginationParams: paging.params(), AssetID: assetID}
			receipts, total, err := engine.Ledger.ListReceipts(cmd.Context(), filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(receipts) == 0 {
				fmt.Fprintln(out, "No receipts recorded")
				return nil
			}
			fmt.Fprint(out, renderTable(
				[]string{"Date", "Asset", "Signer", "Amount"},
				receiptRows(receipts),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			printPageFooter(out, filter.PaginationParams, len(receipts), total)
			return nil
		},
	}
	paging.register(cmd)
	cmd.Flags().StringVar(&assetID, "asset", "", "Filter by asset id")
	return cmd
}

func newLedgerValuationCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "valuation",
		Short: "Aggregate estimated asset value by division",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			summary, err := engine.Ledger.ValuationSummary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderValuation(summary))
			return nil
		},
	}
}

func renderValuation(summary *services.ValuationSummary) string {
	rows := make([][]string, 0, len(summary.ByDivision)+2)
	for _, d := range summary.ByDivision {
		rows = append(rows, []string{string(d.DivisionID), d.Name, strconv.FormatInt(d.AssetCount, 10), formatMoney(d.TotalValue)})
	}
	rows = append(rows,
		[]string{"", "signed", strconv.FormatInt(summary.SignedCount, 10), formatMoney(summary.SignedValue)},
		[]string{"", "total", strconv.FormatInt(summary.AssetCount, 10), formatMoney(summary.TotalValue)},
	)
	return renderTable(
		[]string{"Division", "Name", "Assets", "Value"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
	)
}

func contractRows(records []models.ContractRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.AssetID, r.Signer, models.SignatureStamp(r.Date), r.Digest})
	}
	return rows
}

func receiptRows(receipts []models.Receipt) [][]string {
	rows := make([][]string, 0, len(receipts))
	for _, r := range receipts {
		rows = append(rows, []string{models.SignatureStamp(r.Date), r.Asset, r.Signer, formatMoney(r.Amount)})
	}
	return rows
}
