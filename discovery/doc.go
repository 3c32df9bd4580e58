// Package discovery finds localizable resources declared in Go types.
//
// Types opt in by embedding a marker or implementing Enumeration:
//
//	type SignupForm struct {
//		discovery.LocalizedModel
//		Email    string `display:"E-mail" description:"Used for login" translations:"sv=E-post"`
//		Password string `placeholder:"At least 8 characters"`
//		Internal string `localize:"-"`
//	}
//
// Keys are built with the keys package. A pass uses a fresh ScanState that
// records visited types, so cyclic type graphs terminate and each type is
// scanned once. Entries keep discovery order.
package discovery
