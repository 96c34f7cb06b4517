package crmctl

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/louisbranch/crmdesk/internal/services/crm/company"
	"github.com/louisbranch/crmdesk/internal/services/crm/invite"
	"github.com/louisbranch/crmdesk/internal/services/web/routepath"
)

// companyOutput is the JSON shape of a company.
type companyOutput struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// inviteOutput is the JSON shape of an invitation.
type inviteOutput struct {
	ID         string     `json:"id"`
	Token      string     `json:"token"`
	Email      string     `json:"email"`
	CompanyID  string     `json:"company_id"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	Link       string     `json:"link,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
}

type inviteListOutput struct {
	Invites       []inviteOutput `json:"invites"`
	NextPageToken string         `json:"next_page_token,omitempty"`
}

func toCompanyOutput(c company.Company) companyOutput {
	return companyOutput{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

func toInviteOutput(inv invite.Invite, publicURL string) inviteOutput {
	out := inviteOutput{
		ID:         inv.ID,
		Token:      inv.Token,
		Email:      inv.Email,
		CompanyID:  inv.CompanyID,
		Role:       inv.Role,
		Status:     string(inv.Status),
		CreatedAt:  inv.CreatedAt,
		AcceptedAt: inv.AcceptedAt,
	}
	if inv.Pending() {
		out.Link = inviteLink(publicURL, inv.Token)
	}
	return out
}

// inviteLink joins the public base URL with the registration path.
func inviteLink(publicURL, token string) string {
	return strings.TrimRight(strings.TrimSpace(publicURL), "/") + routepath.RegisterWithInvite(token)
}

func writeJSON(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func writeInviteTable(w io.Writer, invites []inviteOutput, nextPageToken string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tCOMPANY\tROLE\tSTATUS\tCREATED")
	for _, inv := range invites {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			inv.ID, inv.Email, inv.CompanyID, inv.Role, inv.Status, inv.CreatedAt.Format(time.RFC3339))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if nextPageToken != "" {
		_, err := fmt.Fprintf(w, "next page: --page-token %s\n", nextPageToken)
		return err
	}
	return nil
}
