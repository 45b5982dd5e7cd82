package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/employee-tracker/internal/report"
	"github.com/employee-tracker/internal/repository"
	"github.com/employee-tracker/internal/service"
	"github.com/spf13/cobra"
)

// reportFunc строит таблицу через сервисы
type reportFunc func(ctx context.Context, svc *service.Services, args []string) (report.Table, error)

func newReportCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a table without starting the interactive UI",
	}

	cmd.AddCommand(
		reportCmd(root, "departments", "All departments", cobra.NoArgs,
			func(ctx context.Context, svc *service.Services, _ []string) (report.Table, error) {
				depts, err := svc.Departments.List(ctx)
				return report.Departments(depts), err
			}),
		reportCmd(root, "roles", "All roles with department and salary", cobra.NoArgs,
			func(ctx context.Context, svc *service.Services, _ []string) (report.Table, error) {
				roles, err := svc.Roles.List(ctx)
				return report.Roles(roles), err
			}),
		reportCmd(root, "employees", "All employees with title, department, salary and manager", cobra.NoArgs,
			func(ctx context.Context, svc *service.Services, _ []string) (report.Table, error) {
				rows, err := svc.Employees.List(ctx)
				return report.Employees(rows), err
			}),
		reportCmd(root, "budget <department-id>", "Utilized budget of one department", cobra.ExactArgs(1),
			func(ctx context.Context, svc *service.Services, args []string) (report.Table, error) {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil || id <= 0 {
					return report.Table{}, fmt.Errorf("invalid department id %q", args[0])
				}
				budget, err := svc.Departments.Budget(ctx, id)
				if err != nil {
					return report.Table{}, err
				}
				return report.Budget(budget), nil
			}),
	)
	return cmd
}

func reportCmd(root *rootOptions, use, short string, args cobra.PositionalArgs, build reportFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd.Context(), *root)
			if err != nil {
				return err
			}
			defer rt.Close()

			tbl, err := build(cmd.Context(), service.New(rt.selector), args)
			if err != nil {
				return err
			}
			if rt.selector.Mode() == repository.ModeOffline {
				fmt.Fprintln(cmd.ErrOrStderr(), "database unavailable: showing in-memory data")
			}
			return report.Render(cmd.OutOrStdout(), tbl)
		},
	}
}
