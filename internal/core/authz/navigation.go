package authz

import "github.com/launchbase/accounts-api/internal/core/domain"

// NavLink is a configured navigation entry with an explicit role allowlist.
type NavLink struct {
	Href   string              `json:"href"`
	Label  string              `json:"label"`
	Access []domain.AccessRole `json:"access"`
}

// Navigation is an immutable, injectable set of navigation links. It is
// defined once at startup and never mutated; changing visible navigation
// means changing the configured link set, not the filtering logic.
type Navigation struct {
	links []NavLink
}

// NewNavigation copies links into an immutable Navigation value.
func NewNavigation(links []NavLink) Navigation {
	copied := make([]NavLink, len(links))
	copy(copied, links)
	return Navigation{links: copied}
}

// VisibleLinks filters the configured links by role. Admin sees every link
// regardless of its access list; other roles see links whose access list
// contains them. Configuration order is preserved.
func (n Navigation) VisibleLinks(role domain.AccessRole) []NavLink {
	visible := make([]NavLink, 0, len(n.links))
	for _, link := range n.links {
		if role == domain.AccessAdmin || link.allows(role) {
			visible = append(visible, link)
		}
	}
	return visible
}

func (l NavLink) allows(role domain.AccessRole) bool {
	for _, r := range l.Access {
		if r == role {
			return true
		}
	}
	return false
}

// DefaultNavigation returns the application's navigation configuration.
func DefaultNavigation() Navigation {
	everyone := []domain.AccessRole{domain.AccessPublic, domain.AccessAuthenticated, domain.AccessAdmin}
	signedIn := []domain.AccessRole{domain.AccessAuthenticated, domain.AccessAdmin}
	adminOnly := []domain.AccessRole{domain.AccessAdmin}

	return NewNavigation([]NavLink{
		{Href: "/", Label: "Home", Access: everyone},
		{Href: "/how-it-works", Label: "How It Works", Access: everyone},
		{Href: "/docs", Label: "Docs", Access: everyone},
		{Href: "/pricing", Label: "Pricing", Access: everyone},
		{Href: "/dashboard", Label: "Dashboard", Access: signedIn},
		{Href: "/profile", Label: "Profile", Access: signedIn},
		{Href: "/admin", Label: "Admin", Access: adminOnly},
		{Href: "/users", Label: "User Management", Access: adminOnly},
	})
}
