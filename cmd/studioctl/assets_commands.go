// cmd/studioctl/assets_commands.go
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/services"
)

func newAssetsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Inspect and move asset packets through review",
	}

	cmd.AddCommand(newAssetsListCommand(ctx))
	cmd.AddCommand(newAssetsSubmitCommand(ctx))
	cmd.AddCommand(newAssetsSignCommand(ctx))
	cmd.AddCommand(newAssetsRejectCommand(ctx))
	return cmd
}

func newAssetsListCommand(ctx *commandContext) *cobra.Command {
	var (
		paging   pageFlags
		division string
		status   string
		creator  string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List asset packets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			filter := services.AssetFilter{PaginationParams: paging.params(), CreatorID: creator}
			if division != "" {
				d := models.Division(strings.ToUpper(division))
				if !d.Valid() {
					return fmt.Errorf("unknown division %q", division)
				}
				filter.DivisionID = &d
			}
			if status != "" {
				s := models.AssetStatus(strings.ToLower(status))
				if !s.Valid() {
					return fmt.Errorf("unknown status %q", status)
				}
				filter.Status = &s
			}

			assets, total, err := engine.Assets.ListAssets(cmd.Context(), filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(assets) == 0 {
				fmt.Fprintln(out, "No assets found")
				return nil
			}
			fmt.Fprint(out, renderTable(assetHeaders, assetRows(assets), assetAligns))
			printPageFooter(out, filter.PaginationParams, len(assets), total)
			return nil
		},
	}
	paging.register(cmd)
	cmd.Flags().StringVar(&division, "division", "", "Filter by division code (CM, PR, GM, AN, MU)")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (draft, in_review, signed)")
	cmd.Flags().StringVar(&creator, "creator", "", "Filter by creator id")
	return cmd
}

func newAssetsSubmitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <asset-id>",
		Short: "Move a draft asset into review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, actor, err := ctx.engineAndActor()
			if err != nil {
				return err
			}
			asset, err := engine.Assets.SubmitForReview(cmd.Context(), actor, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", asset.AssetID, asset.Status)
			return nil
		},
	}
}

func newAssetsSignCommand(ctx *commandContext) *cobra.Command {
	var amount float64
	cmd := &cobra.Command{
		Use:   "sign <asset-id>",
		Short: "Sign an asset in review and record its contract and receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, actor, err := ctx.engineAndActor()
			if err != nil {
				return err
			}
			var amountPtr *float64
			if cmd.Flags().Changed("amount") {
				amountPtr = &amount
			}
			result, err := engine.Assets.Sign(cmd.Context(), actor, args[0], amountPtr)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if result.AlreadySigned {
				fmt.Fprintf(out, "%s was already signed at %s\n", result.Asset.AssetID, result.Asset.LegalSignatureStatus)
				return nil
			}
			fmt.Fprintf(out, "%s signed at %s\n", result.Asset.AssetID, result.Asset.LegalSignatureStatus)
			if result.Contract != nil {
				fmt.Fprintf(out, "Contract %s digest %s\n", result.Contract.ID, result.Contract.Digest)
			}
			if result.Receipt != nil {
				fmt.Fprintf(out, "Receipt %s amount %s\n", result.Receipt.ID, formatMoney(result.Receipt.Amount))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&amount, "amount", 0, "Receipt amount (defaults to the asset price)")
	return cmd
}

func newAssetsRejectCommand(ctx *commandContext) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "reject <asset-id>",
		Short: "Send an asset back to draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, actor, err := ctx.engineAndActor()
			if err != nil {
				return err
			}
			asset, err := engine.Assets.Reject(cmd.Context(), actor, args[0], reason)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", asset.AssetID, asset.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded in the audit log")
	return cmd
}

var (
	assetHeaders = []string{"Asset", "Division", "Status", "Creator", "Title", "Price", "Value"}
	assetAligns  = []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight}
)

func assetRows(assets []models.AssetPacket) [][]string {
	rows := make([][]string, 0, len(assets))
	for i := range assets {
		a := &assets[i]
		rows = append(rows, []string{
			a.AssetID,
			string(a.DivisionID),
			string(a.Status),
			a.CreatorID,
			a.Title(),
			formatMoney(a.FinancialTag.Price),
			formatMoney(a.EstimatedValue),
		})
	}
	return rows
}
