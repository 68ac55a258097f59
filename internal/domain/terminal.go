// Package domain defines the persistence models for POS terminals and the
// validation rules that guard them. These types are mapped with GORM and form
// the core data layer of the terminal tracking application.
package domain

import "time"

// TerminalType is the closed set of POS device models tracked by the system.
type TerminalType string

// Canonical terminal types. "Aisini A75" appears frequently in source data as
// a misspelling of "Aisino A75"; ParseTerminalType accepts it as an alias and
// normalizes before storage.
const (
	TypeIPOS        TerminalType = "iPOS"
	TypeAisinoA75   TerminalType = "Aisino A75"
	TypeVerifoneX99 TerminalType = "Verifone X990"
	TypePAXS20      TerminalType = "PAX S20"
)

// aisinoAlias is the common misspelling observed in imported spreadsheets.
const aisinoAlias = "Aisini A75"

// TerminalTypes returns the canonical terminal type labels in display order.
func TerminalTypes() []TerminalType {
	return []TerminalType{TypeIPOS, TypeAisinoA75, TypeVerifoneX99, TypePAXS20}
}

// ParseTerminalType maps a raw label to its canonical TerminalType.
// The "Aisini A75" spelling variant is normalized to "Aisino A75".
// The boolean reports whether the label belongs to the closed set.
func ParseTerminalType(s string) (TerminalType, bool) {
	if s == aisinoAlias {
		return TypeAisinoA75, true
	}
	for _, t := range TerminalTypes() {
		if s == string(t) {
			return t, true
		}
	}
	return "", false
}

// Branch is the closed set of business units a terminal can be dispatched to.
type Branch string

const (
	BranchMasvingo        Branch = "Masvingo Branch"
	BranchMutare          Branch = "Mutare Branch"
	BranchChiredzi        Branch = "Chiredzi Branch"
	BranchGweru           Branch = "Gweru Branch"
	BranchChinhoyi        Branch = "Chinhoyi Branch"
	BranchPrivateBanking  Branch = "Private Banking"
	BranchBindura         Branch = "Bindura Branch"
	BranchSamora          Branch = "Samora Branch"
	BranchJMNBulawayo     Branch = "JMN Bulawayo"
	BranchSSC             Branch = "SSC Branch"
	BranchBusinessBanking Branch = "Business Banking"
	BranchDigitalServices Branch = "Digital Services"
	BranchCIB             Branch = "CIB"
)

// Branches returns every known branch in display order.
func Branches() []Branch {
	return []Branch{
		BranchMasvingo, BranchMutare, BranchChiredzi, BranchGweru,
		BranchChinhoyi, BranchPrivateBanking, BranchBindura, BranchSamora,
		BranchJMNBulawayo, BranchSSC, BranchBusinessBanking,
		BranchDigitalServices, BranchCIB,
	}
}

// ParseBranch maps a raw label to a Branch. The boolean reports whether the
// label belongs to the closed set.
func ParseBranch(s string) (Branch, bool) {
	for _, b := range Branches() {
		if s == string(b) {
			return b, true
		}
	}
	return "", false
}

// Terminal represents one physical payment device on loan to a branch.
//
// Lifecycle: a terminal is created by a dispatch operation (always active),
// flips to returned via Return, back to active via Reactivate, and is
// physically removed by Delete. There is no soft-delete marker: once deleted
// a record is gone, and re-dispatching the same device creates an unrelated
// row with a new ID.
//
// Fields:
//   - ID: stable UUID primary key (char(36)), immutable.
//   - Name: merchant/terminal display name, at most 25 characters.
//   - TerminalID: business identifier (NBS-prefixed, ≤ 8 chars), unique.
//   - SerialNumber: device serial, 5–11 characters.
//   - LineSerialNumber: communication-line serial, 16–18 digits.
//   - Type / Branch: members of their closed enumerations; anything else is
//     rejected at the boundary and never stored.
//   - DispatchDate: when the device shipped; never in the future, immutable.
//   - FedexTrackingNumber: optional courier reference.
//   - IsReturned / ReturnDate / ReturnReason: lifecycle flag and the fields
//     that accompany it. Both pointers are nil exactly when IsReturned is false.
type Terminal struct {
	ID                  string       `json:"id"                  gorm:"type:char(36);primaryKey"`
	Name                string       `json:"name"                gorm:"type:varchar(25);not null"`
	TerminalID          string       `json:"terminal_id"         gorm:"type:varchar(8);not null;uniqueIndex:ux_terminal_business_id"`
	SerialNumber        string       `json:"serial_number"       gorm:"type:varchar(11);not null;index"`
	LineSerialNumber    string       `json:"line_serial_number"  gorm:"type:varchar(18);not null"`
	Type                TerminalType `json:"type"                gorm:"type:varchar(32);not null"`
	Branch              Branch       `json:"branch"              gorm:"type:varchar(32);not null;index"`
	DispatchDate        time.Time    `json:"dispatch_date"       gorm:"not null;index"`
	FedexTrackingNumber string       `json:"fedex_tracking_number,omitempty" gorm:"type:varchar(64)"`
	IsReturned          bool         `json:"is_returned"         gorm:"not null;default:false;index"`
	ReturnDate          *time.Time   `json:"return_date,omitempty"`
	ReturnReason        *string      `json:"return_reason,omitempty" gorm:"type:varchar(255)"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// TableName returns the database table name for Terminal.
func (Terminal) TableName() string { return "terminals" }

// Status renders the lifecycle flag as a human-readable label, as used in
// list views and spreadsheet reports.
func (t Terminal) Status() string {
	if t.IsReturned {
		return "Returned"
	}
	return "Active"
}
