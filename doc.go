// Package mailauth implements the domain-authentication subsystem of a
// mail-sending platform: proof that an organization controls a sending
// domain, and ongoing validation of the domain's email-authentication DNS
// records (SPF, DKIM, Return-Path CNAME, MX).
//
// A Domain is created unverified with a verification method fixed at
// creation: DNS (publish the verification token as a TXT record) or Email
// (receive the token as a confirmation code at an administrative address).
// Verification is a one-way transition; once verified, DNS health checks may
// run any number of times, each overwriting the previous snapshot.
//
// Service is the entry point. Persistence, DNS resolution, and mail delivery
// are injected behind small interfaces, so the engine is testable with canned
// answer sets and an in-memory store.
package mailauth
