// Package nav describes the admin navigation shell: which sections exist
// and which roles may see them.
package nav

import (
	"fmt"
	"strings"
)

// Roles known to the backend
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleStaff   = "Staff"
)

// AppName is shown in the shell header
const AppName = "WaterX"

// Link is one navigation entry
type Link struct {
	Label string
	Href  string
	Roles []string
}

// DefaultLinks is the admin panel's section list
var DefaultLinks = []Link{
	{Label: "Dashboard", Href: "/dashboard", Roles: []string{RoleAdmin, RoleManager, RoleStaff}},
	{Label: "Orders", Href: "/orders", Roles: []string{RoleAdmin, RoleManager, RoleStaff}},
	{Label: "Customers", Href: "/customers", Roles: []string{RoleAdmin, RoleManager, RoleStaff}},
	{Label: "Products", Href: "/products", Roles: []string{RoleAdmin, RoleManager}},
	{Label: "Transactions", Href: "/transactions", Roles: []string{RoleAdmin, RoleManager}},
	{Label: "Employees", Href: "/employees", Roles: []string{RoleAdmin}},
	{Label: "Settings", Href: "/settings", Roles: []string{RoleAdmin}},
}

// Allows reports whether role may see the link
func (l Link) Allows(role string) bool {
	for _, r := range l.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Visible returns the links role may see, in order. An empty role sees nothing.
func Visible(links []Link, role string) []Link {
	if role == "" {
		return nil
	}
	var out []Link
	for _, l := range links {
		if l.Allows(role) {
			out = append(out, l)
		}
	}
	return out
}

// Active returns the link whose Href prefixes path, or nil
func Active(links []Link, path string) *Link {
	for i := range links {
		if strings.HasPrefix(path, links[i].Href) {
			return &links[i]
		}
	}
	return nil
}

// Header is the shell header content
type Header struct {
	AppName string
	LogoURL string // "" when no logo is configured
	User    string
	Role    string
}

// String renders the header as a single line
func (h Header) String() string {
	var sb strings.Builder
	sb.WriteString(strings.ToUpper(h.AppName))
	if h.LogoURL != "" {
		fmt.Fprintf(&sb, " [logo: %s]", h.LogoURL)
	}
	if h.User != "" {
		fmt.Fprintf(&sb, " | %s", h.User)
		if h.Role != "" {
			fmt.Fprintf(&sb, " (%s)", h.Role)
		}
	}
	return sb.String()
}
