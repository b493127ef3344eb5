// cmd/studioctl/audit_commands.go
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/services"
)

func newAuditCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Read the audit log",
	}
	cmd.AddCommand(newAuditListCommand(ctx))
	return cmd
}

func newAuditListCommand(ctx *commandContext) *cobra.Command {
	var (
		paging      pageFlags
		action      string
		targetType  string
		targetID    string
		performedBy string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := ctx.actor()
			if err != nil {
				return err
			}
			if err := services.Authorize(actor, services.CapViewAudit); err != nil {
				return err
			}
			engine, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			filter := services.AuditFilter{
				PaginationParams: paging.params(),
				TargetType:       targetType,
				TargetID:         targetID,
				PerformedBy:      performedBy,
			}
			if action != "" {
				a := models.AuditAction(strings.ToUpper(action))
				filter.Action = &a
			}
			entries, total, err := engine.Audit.Query(cmd.Context(), filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No audit entries")
				return nil
			}
			fmt.Fprint(out, renderTable([]string{"Time", "Action", "Target", "By", "Details"}, auditRows(entries), nil))
			printPageFooter(out, filter.PaginationParams, len(entries), total)
			return nil
		},
	}
	paging.register(cmd)
	cmd.Flags().StringVar(&action, "action", "", "Filter by action, e.g. SIGN_ASSET")
	cmd.Flags().StringVar(&targetType, "target-type", "", "Filter by target type")
	cmd.Flags().StringVar(&targetID, "target", "", "Filter by target id")
	cmd.Flags().StringVar(&performedBy, "by", "", "Filter by operator id")
	return cmd
}

func auditRows(entries []models.AuditLogEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			models.SignatureStamp(e.Timestamp),
			string(e.Action),
			e.TargetType + "/" + e.TargetID,
			e.PerformedBy,
			truncate(e.Details, 60),
		})
	}
	return rows
}

func truncate(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}
