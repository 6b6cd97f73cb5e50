package mailauth

import "errors"

var (
	// ErrDomainNotFound indicates no domain with the given name exists in the
	// organization's scope.
	ErrDomainNotFound = errors.New("mailauth: domain not found")

	// ErrDuplicateDomain indicates the organization (or server) already has a
	// domain with that name.
	ErrDuplicateDomain = errors.New("mailauth: domain already exists")

	// ErrInvalidDomainName indicates the domain name failed validation.
	ErrInvalidDomainName = errors.New("mailauth: invalid domain name")

	// ErrInvalidMethod indicates an unsupported verification method.
	ErrInvalidMethod = errors.New("mailauth: invalid verification method")

	// ErrWrongVerificationMethod indicates the DNS path was invoked for an
	// Email-method domain or vice versa.
	ErrWrongVerificationMethod = errors.New("mailauth: wrong verification method for domain")

	// ErrInvalidRecipient indicates the requested verification email address
	// is not in the domain's allowed set.
	ErrInvalidRecipient = errors.New("mailauth: email address is not valid for this domain")

	// ErrInvalidCode indicates the submitted confirmation code does not match
	// the domain's verification token.
	ErrInvalidCode = errors.New("mailauth: incorrect verification code")

	// ErrDomainNotVerified indicates an operation that requires a verified
	// domain (DNS records, health checks) was called on an unverified one.
	ErrDomainNotVerified = errors.New("mailauth: domain not verified")

	// ErrAPIKeyNotFound indicates no API key matches the presented token.
	ErrAPIKeyNotFound = errors.New("mailauth: api key not found")
)
