package crmctl

import (
	"fmt"

	"github.com/louisbranch/crmdesk/internal/services/crm"
	"github.com/louisbranch/crmdesk/internal/services/crm/invite"
	"github.com/spf13/cobra"
)

// NewInviteCommand groups invitation administration.
func NewInviteCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Manage company invitations",
	}
	cmd.AddCommand(newInviteCreateCommand(opts))
	cmd.AddCommand(newInviteListCommand(opts))
	cmd.AddCommand(newInviteRevokeCommand(opts))
	return cmd
}

func newInviteCreateCommand(opts *RootOptions) *cobra.Command {
	var input invite.CreateInviteInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Invite an email address to a company",
		Long:  "Create a pending invitation and print the registration link to share with the invitee.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd.Context(), func(svc *crm.Service) error {
				inv, err := svc.CreateInvite(cmd.Context(), input)
				if err != nil {
					return err
				}
				out := toInviteOutput(inv, opts.PublicURL)
				if opts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), out)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "invite %s for %s (%s)\n%s\n", out.ID, out.Email, out.Role, out.Link)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&input.Email, "email", "", "invitee email address")
	cmd.Flags().StringVar(&input.CompanyID, "company", "", "company id")
	cmd.Flags().StringVar(&input.Role, "role", "", "role granted on registration (default member)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}

func newInviteListCommand(opts *RootOptions) *cobra.Command {
	var (
		filterStr string
		pageSize  int
		pageToken string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invitations",
		Example: `  crmctl invite list --filter 'status = "pending"'
  crmctl invite list --filter 'company = "co1" AND role = "admin"'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd.Context(), func(svc *crm.Service) error {
				page, err := svc.ListInvites(cmd.Context(), filterStr, pageSize, pageToken)
				if err != nil {
					return err
				}
				out := inviteListOutput{
					Invites:       make([]inviteOutput, 0, len(page.Invites)),
					NextPageToken: page.NextPageToken,
				}
				for _, inv := range page.Invites {
					out.Invites = append(out.Invites, toInviteOutput(inv, opts.PublicURL))
				}
				if opts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), out)
				}
				return writeInviteTable(cmd.OutOrStdout(), out.Invites, out.NextPageToken)
			})
		},
	}
	cmd.Flags().StringVar(&filterStr, "filter", "", "AIP-160 filter over email, status, role, company, create_time")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "maximum invitations per page")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "token from a previous page")
	return cmd
}

func newInviteRevokeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <invite-id>",
		Short: "Revoke a pending invitation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd.Context(), func(svc *crm.Service) error {
				if err := svc.RevokeInvite(cmd.Context(), args[0]); err != nil {
					return err
				}
				if opts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), map[string]string{"id": args[0], "status": string(invite.StatusRevoked)})
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", args[0])
				return err
			})
		},
	}
}
