/*

Identity types shared by every component. Accounts and denoms are opaque
strings: the engines never interpret them beyond equality checks, so any
external identity scheme (bech32, hex, plain names in tests) works unchanged.

*/

package types

import "strings"

// AccountID identifies a caller, custodian or controller.
type AccountID string

// Denom identifies a fungible asset ledger.
type Denom string

func (a AccountID) String() string { return string(a) }

func (d Denom) String() string { return string(d) }

// IsValid reports whether the account identity is usable. Whitespace-only
// identities are rejected because they round-trip badly through config and
// the web layer.
func (a AccountID) IsValid() bool {
	return strings.TrimSpace(string(a)) != ""
}

func (d Denom) IsValid() bool {
	return strings.TrimSpace(string(d)) != ""
}
