package crmctl

import (
	"fmt"

	"github.com/louisbranch/crmdesk/internal/services/crm"
	"github.com/louisbranch/crmdesk/internal/services/crm/company"
	"github.com/spf13/cobra"
)

// NewCompanyCommand groups company administration.
func NewCompanyCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Manage companies",
	}
	cmd.AddCommand(newCompanyCreateCommand(opts))
	return cmd
}

func newCompanyCreateCommand(opts *RootOptions) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd.Context(), func(svc *crm.Service) error {
				c, err := svc.CreateCompany(cmd.Context(), company.CreateCompanyInput{Name: name})
				if err != nil {
					return err
				}
				if opts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), toCompanyOutput(c))
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.ID, c.Name)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "company display name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
