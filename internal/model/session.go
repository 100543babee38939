package model

import "time"

// Role is the desk role granted to an authenticated wallet
type Role string

const (
	RoleDealer     Role = "dealer"
	RoleOps        Role = "ops"
	RoleCompliance Role = "compliance"
)

// Panel is a capability panel of the desk UI
type Panel string

const (
	PanelDealer     Panel = "dealer"
	PanelOps        Panel = "ops"
	PanelCompliance Panel = "compliance"
)

// RolePanels tells which panels a role may see
type RolePanels struct {
	Dealer     bool `json:"dealer"`
	Ops        bool `json:"ops"`
	Compliance bool `json:"compliance"`
}

// Allows reports whether the panel is visible
func (p RolePanels) Allows(panel Panel) bool {
	switch panel {
	case PanelDealer:
		return p.Dealer
	case PanelOps:
		return p.Ops
	case PanelCompliance:
		return p.Compliance
	}
	return false
}

// WalletSession is the single persisted wallet session.
// ExpiresAt is in unix seconds.
type WalletSession struct {
	AccessToken   string `json:"accessToken"`
	WalletAddress string `json:"walletAddress"`
	Role          Role   `json:"role"`
	ExpiresAt     int64  `json:"expiresAt"`
}

// Expired reports whether the session is no longer usable at now
func (s WalletSession) Expired(now time.Time) bool {
	return now.Unix() >= s.ExpiresAt
}
