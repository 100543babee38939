package auth

import (
	"slices"
	"strings"

	"github.com/AlexZinkM/otc-desk/internal/model"
)

// panelRules lists the roles that may see each panel. New roles must be
// added here explicitly.
var panelRules = map[model.Panel][]model.Role{
	model.PanelDealer:     {model.RoleDealer, model.RoleOps},
	model.PanelOps:        {model.RoleOps},
	model.PanelCompliance: {model.RoleCompliance, model.RoleOps},
}

// NormalizeRole matches raw against the known roles, ignoring case and
// surrounding whitespace.
func NormalizeRole(raw string) (model.Role, bool) {
	switch r := model.Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case model.RoleDealer, model.RoleOps, model.RoleCompliance:
		return r, true
	}
	return "", false
}

// CanAccessPanel reports whether role may see panel
func CanAccessPanel(role model.Role, panel model.Panel) bool {
	return slices.Contains(panelRules[panel], role)
}

// PanelsFor returns the panel visibility of role
func PanelsFor(role model.Role) model.RolePanels {
	return model.RolePanels{
		Dealer:     CanAccessPanel(role, model.PanelDealer),
		Ops:        CanAccessPanel(role, model.PanelOps),
		Compliance: CanAccessPanel(role, model.PanelCompliance),
	}
}
