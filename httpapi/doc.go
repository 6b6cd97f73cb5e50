// Package httpapi exposes the domain verification engine over a JSON HTTP
// API. Callers authenticate with organization API keys; every route operates
// within the authenticated organization's scope.
package httpapi
