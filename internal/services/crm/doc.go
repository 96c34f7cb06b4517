// Package crm owns the tenant data behind the workspace: companies, the
// invitations that admit people into them, and per-user profiles.
package crm
