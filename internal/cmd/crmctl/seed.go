package crmctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/louisbranch/crmdesk/internal/services/crm"
	"github.com/louisbranch/crmdesk/internal/services/crm/company"
	"github.com/louisbranch/crmdesk/internal/services/crm/invite"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Fixtures is the seed file layout.
//
//	companies:
//	  - key: acme
//	    name: Acme Corp
//	invites:
//	  - company: acme
//	    email: a@x.com
//	    role: admin
//	    token: abc123
//
// An invite's company names either a fixture key or an existing company id.
type Fixtures struct {
	Companies []CompanyFixture `yaml:"companies"`
	Invites   []InviteFixture  `yaml:"invites"`
}

// CompanyFixture declares one company.
type CompanyFixture struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

// InviteFixture declares one pending invitation.
type InviteFixture struct {
	Company string `yaml:"company"`
	Email   string `yaml:"email"`
	Role    string `yaml:"role"`
	Token   string `yaml:"token"`
}

// SeedResult reports what a seed run created.
type SeedResult struct {
	Companies []companyOutput `json:"companies"`
	Invites   []inviteOutput  `json:"invites"`
}

// DecodeFixtures parses a YAML fixture document, rejecting unknown fields.
func DecodeFixtures(r io.Reader) (Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var fixtures Fixtures
	if err := dec.Decode(&fixtures); err != nil {
		if errors.Is(err, io.EOF) {
			return Fixtures{}, nil
		}
		return Fixtures{}, fmt.Errorf("decode fixtures: %w", err)
	}
	seen := make(map[string]struct{}, len(fixtures.Companies))
	for i, c := range fixtures.Companies {
		key := strings.TrimSpace(c.Key)
		if key == "" {
			return Fixtures{}, fmt.Errorf("companies[%d]: key is required", i)
		}
		if _, dup := seen[key]; dup {
			return Fixtures{}, fmt.Errorf("companies[%d]: duplicate key %q", i, key)
		}
		seen[key] = struct{}{}
	}
	return fixtures, nil
}

// Seed creates every fixture in declaration order.
func Seed(ctx context.Context, svc *crm.Service, fixtures Fixtures, publicURL string) (SeedResult, error) {
	result := SeedResult{}
	companyIDs := make(map[string]string, len(fixtures.Companies))
	for _, fc := range fixtures.Companies {
		c, err := svc.CreateCompany(ctx, company.CreateCompanyInput{Name: fc.Name})
		if err != nil {
			return result, fmt.Errorf("company %q: %w", fc.Key, err)
		}
		companyIDs[strings.TrimSpace(fc.Key)] = c.ID
		result.Companies = append(result.Companies, toCompanyOutput(c))
	}
	for _, fi := range fixtures.Invites {
		companyID := strings.TrimSpace(fi.Company)
		if id, ok := companyIDs[companyID]; ok {
			companyID = id
		}
		inv, err := svc.ImportInvite(ctx, invite.CreateInviteInput{
			Email:     fi.Email,
			CompanyID: companyID,
			Role:      fi.Role,
		}, fi.Token)
		if err != nil {
			return result, fmt.Errorf("invite %q: %w", fi.Email, err)
		}
		result.Invites = append(result.Invites, toInviteOutput(inv, publicURL))
	}
	return result, nil
}

// NewSeedCommand loads a fixture file into the CRM store.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create companies and invitations from a YAML fixture file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open fixtures: %w", err)
			}
			defer f.Close()
			fixtures, err := DecodeFixtures(f)
			if err != nil {
				return err
			}
			return opts.withService(cmd.Context(), func(svc *crm.Service) error {
				result, err := Seed(cmd.Context(), svc, fixtures, opts.PublicURL)
				if err != nil {
					return err
				}
				if opts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), result)
				}
				w := cmd.OutOrStdout()
				for _, c := range result.Companies {
					fmt.Fprintf(w, "company %s\t%s\n", c.ID, c.Name)
				}
				for _, inv := range result.Invites {
					fmt.Fprintf(w, "invite %s\t%s\t%s\n", inv.ID, inv.Email, inv.Link)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the YAML fixture file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
