// Package access decides whether an identity may act on a resource.
//
// Ownership failures are reported as NotFound rather than Forbidden so that
// non-owners cannot learn whether a resource exists.
package access

import (
	"net/http"
	"net/url"

	"github.com/yapress/yapress/internal/model"
)

// LoginPath is where anonymous users are sent to authenticate.
const LoginPath = "/auth/login/"

// Resource is anything with a single owning user.
type Resource interface {
	Owner() string
}

// Action classifies what the request wants to do.
type Action int

const (
	// ActionViewPublic reads a public resource. Listings pass a nil
	// Resource; a detail view whose lookup failed passes a typed nil.
	ActionViewPublic Action = iota
	// ActionAuthenticated requires a logged-in user but no resource.
	ActionAuthenticated
	// ActionSubmit is an inline submission with no page of its own.
	// Anonymous callers are refused instead of redirected.
	ActionSubmit
	// ActionOwner reads or mutates a resource only its owner may touch.
	ActionOwner
)

// Decision is the outcome of Check.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	NotFound
	Forbidden
)

// String returns the decision name used in logs and metrics.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case NotFound:
		return "not_found"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Check evaluates the guard. res may be nil when the resource does not
// exist or the action needs none. Anonymous identities are handled before
// existence is considered.
func Check(identity *model.Identity, res Resource, action Action) Decision {
	switch action {
	case ActionViewPublic:
		if res != nil && isNil(res) {
			return NotFound
		}
		return Allow

	case ActionAuthenticated:
		if identity.IsAnonymous() {
			return RedirectLogin
		}
		return Allow

	case ActionSubmit:
		if identity.IsAnonymous() {
			return Forbidden
		}
		if isNil(res) {
			return NotFound
		}
		return Allow

	case ActionOwner:
		if identity.IsAnonymous() {
			return RedirectLogin
		}
		if isNil(res) || !identity.Owns(res.Owner()) {
			return NotFound
		}
		return Allow
	}

	return NotFound
}

// Status returns the HTTP status code that represents a refusal.
func (d Decision) Status() int {
	switch d {
	case Allow:
		return http.StatusOK
	case RedirectLogin:
		return http.StatusFound
	case Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusNotFound
	}
}

// LoginURL builds the login redirect target that returns to next.
func LoginURL(next string) string {
	if next == "" {
		return LoginPath
	}
	return LoginPath + "?" + url.Values{"next": {next}}.Encode()
}

// isNil catches typed nil pointers stored in the interface.
func isNil(res Resource) bool {
	if res == nil {
		return true
	}
	switch r := res.(type) {
	case *model.Note:
		return r == nil
	case *model.NewsItem:
		return r == nil
	case *model.Comment:
		return r == nil
	}
	return false
}
