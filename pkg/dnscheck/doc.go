// Package dnscheck validates a sending domain's email-authentication DNS
// records against the platform's expected values.
//
// Four record kinds are tracked: SPF and DKIM (required for deliverability),
// Return-Path CNAME and MX (optional; a domain can send without DMARC
// alignment or inbound mail). For each kind the package computes the expected
// record from platform configuration, resolves the live answer, and produces
// a status with a human-readable diagnostic when the record is absent or
// wrong.
//
// Checker runs all four lookups concurrently and collapses resolver-level
// failures into a per-record "Missing" status, so one unreachable zone never
// aborts the rest of the run.
package dnscheck
