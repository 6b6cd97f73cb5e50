// Package verifier implements the proof mechanics behind domain ownership
// verification.
//
// A domain proves ownership one of two ways, fixed at creation time:
//
//   - DNS: publish the domain's verification token as a TXT record at the
//     domain apex.
//   - Email: receive the token as a confirmation code at one of a small set
//     of administrative addresses (postmaster@, admin@, ...) and submit it
//     back.
//
// The verification token is generated once per domain and never changes; it
// doubles as the seed for the domain's DKIM selector.
package verifier
