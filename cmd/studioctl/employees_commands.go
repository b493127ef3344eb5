// cmd/studioctl/employees_commands.go
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/services"
)

func newEmployeesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "Manage the employee roster",
	}

	cmd.AddCommand(newEmployeesAddCommand(ctx))
	cmd.AddCommand(newEmployeesListCommand(ctx))
	return cmd
}

func newEmployeesAddCommand(ctx *commandContext) *cobra.Command {
	var (
		title   string
		hiredAt string
	)
	cmd := &cobra.Command{
		Use:   "add <name> <email>",
		Short: "Add an employee",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &services.CreateEmployeeRequest{Name: args[0], Email: args[1], Title: title}
			if hiredAt != "" {
				t, err := time.Parse("2006-01-02", hiredAt)
				if err != nil {
					return fmt.Errorf("invalid --hired %q: use YYYY-MM-DD", hiredAt)
				}
				req.HiredAt = &t
			}
			engine, actor, err := ctx.engineAndActor()
			if err != nil {
				return err
			}
			employee, err := engine.Employees.CreateEmployee(cmd.Context(), actor, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s <%s> as %s\n", employee.Name, employee.Email, employee.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Job title")
	cmd.Flags().StringVar(&hiredAt, "hired", "", "Hire date (YYYY-MM-DD)")
	return cmd
}

func newEmployeesListCommand(ctx *commandContext) *cobra.Command {
	var (
		paging pageFlags
		search string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			filter := services.EmployeeFilter{PaginationParams: paging.params(), Search: search}
			employees, total, err := engine.Employees.ListEmployees(cmd.Context(), filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(employees) == 0 {
				fmt.Fprintln(out, "No employees found")
				return nil
			}
			fmt.Fprint(out, renderTable([]string{"ID", "Name", "Email", "Title", "Hired"}, employeeRows(employees), nil))
			printPageFooter(out, filter.PaginationParams, len(employees), total)
			return nil
		},
	}
	paging.register(cmd)
	cmd.Flags().StringVar(&search, "search", "", "Match name or email")
	return cmd
}

func employeeRows(employees []models.Employee) [][]string {
	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		hired := ""
		if !e.HiredAt.IsZero() {
			hired = e.HiredAt.Format("2006-01-02")
		}
		rows = append(rows, []string{e.ID.String(), e.Name, e.Email, e.Title, hired})
	}
	return rows
}
