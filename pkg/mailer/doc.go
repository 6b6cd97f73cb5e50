// Package mailer sends templated transactional mail, primarily the
// verify_domain message carrying a domain's confirmation code.
//
// Templates are markdown files with YAML frontmatter (Subject) rendered to
// HTML via goldmark; the processed markdown doubles as the plain-text
// alternative. Delivery goes through the Sender interface; the resend
// subpackage provides the production adapter.
package mailer
