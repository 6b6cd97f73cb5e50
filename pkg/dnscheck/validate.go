package dnscheck

import (
	"fmt"
	"net"
	"strings"
)

// Validators compare one expected record against the raw resolver answer for
// its kind. A lookup error of any class (NXDOMAIN, timeout, server failure)
// collapses to StatusMissing: the record cannot be confirmed, and the exact
// failure mode is not actionable for the domain owner.

// ValidateSPF checks the apex TXT answer for the required include mechanism.
// Only records starting with "v=spf1" are considered; unrelated TXT values are
// ignored. Publishing more than one SPF record is itself a fault per RFC 7208.
func ValidateSPF(include string, txts []string, lookupErr error) Result {
	if lookupErr != nil {
		return Result{Status: StatusMissing, Error: "no SPF record found"}
	}

	var spf []string
	for _, txt := range txts {
		if strings.HasPrefix(strings.TrimSpace(txt), "v=spf1") {
			spf = append(spf, strings.TrimSpace(txt))
		}
	}

	switch {
	case len(spf) == 0:
		return Result{Status: StatusMissing, Error: "no SPF record found"}
	case len(spf) > 1:
		return Result{
			Status: "Multiple SPF records",
			Error:  fmt.Sprintf("found %d SPF records; a domain must publish exactly one", len(spf)),
		}
	}

	mechanism := "include:" + include
	if !strings.Contains(spf[0], mechanism) {
		return Result{
			Status: "Invalid",
			Error:  fmt.Sprintf("SPF record does not include %s (found %q)", include, spf[0]),
		}
	}
	return Result{Status: StatusOK}
}

// ValidateDKIM checks the selector TXT answer for an exact match with the
// platform's public-key payload.
func ValidateDKIM(expected string, txts []string, lookupErr error) Result {
	if lookupErr != nil || len(txts) == 0 {
		return Result{Status: StatusMissing, Error: "no DKIM record found"}
	}

	for _, txt := range txts {
		if strings.TrimSpace(txt) == expected {
			return Result{Status: StatusOK}
		}
	}
	return Result{
		Status: "Invalid",
		Error:  "DKIM record exists but does not match the expected public key",
	}
}

// ValidateReturnPath checks the return-path CNAME against the configured
// target. DNS name equivalence: case-insensitive, trailing dot ignored.
func ValidateReturnPath(expected, target string, lookupErr error) Result {
	if lookupErr != nil || target == "" {
		return Result{Status: StatusMissing, Error: "no return path CNAME record found"}
	}

	if !hostEqual(target, expected) {
		return Result{
			Status: "Invalid",
			Error:  fmt.Sprintf("CNAME points to %s, expected %s", strings.TrimSuffix(target, "."), expected),
		}
	}
	return Result{Status: StatusOK}
}

// ValidateMX checks that every configured MX host is published at the
// expected priority. Extra MX records are tolerated.
func ValidateMX(expected []string, records []*net.MX, lookupErr error) Result {
	if lookupErr != nil || len(records) == 0 {
		return Result{Status: StatusMissing, Error: "no MX records found"}
	}

	var missing, wrongPriority []string
	for _, host := range expected {
		found := false
		for _, mx := range records {
			if !hostEqual(mx.Host, host) {
				continue
			}
			found = true
			if mx.Pref != MXPriority {
				wrongPriority = append(wrongPriority, fmt.Sprintf("%s (priority %d)", host, mx.Pref))
			}
			break
		}
		if !found {
			missing = append(missing, host)
		}
	}

	switch {
	case len(missing) == len(expected):
		return Result{Status: StatusMissing, Error: "no matching MX records found"}
	case len(missing) > 0:
		return Result{
			Status: "Incomplete",
			Error:  fmt.Sprintf("missing MX records for %s", strings.Join(missing, ", ")),
		}
	case len(wrongPriority) > 0:
		return Result{
			Status: "Incorrect priority",
			Error:  fmt.Sprintf("MX records must use priority %d: %s", MXPriority, strings.Join(wrongPriority, ", ")),
		}
	}
	return Result{Status: StatusOK}
}

// hostEqual compares two DNS names ignoring case and the trailing dot.
func hostEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSuffix(a, "."), strings.TrimSuffix(b, "."))
}
