// Package access holds the authorization rules for stored objects.
//
// Every function here is a pure decision over an object record and the
// caller's identity or credential; none of them touch storage.
package access

import (
	"crypto/subtle"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/sharebox/internal/common"
	"github.com/dmitrijs2005/sharebox/internal/server/models"
)

// Reason explains a Decision.
type Reason string

const (
	ReasonAllowed                Reason = "allowed"
	ReasonForbidden              Reason = "forbidden"
	ReasonAuthenticationRequired Reason = "authentication_required"
	ReasonInvalidVisibility      Reason = "invalid_visibility"
	ReasonInvalidCredential      Reason = "invalid_credential"
	ReasonCredentialMismatch     Reason = "credential_mismatch"
)

// MinCredentialLength is the shortest credential accepted for a
// password-protected object.
const MinCredentialLength = 2

type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision { return Decision{Allowed: true, Reason: ReasonAllowed} }

func deny(r Reason) Decision { return Decision{Reason: r} }

// Err returns nil for an allowed decision and the matching sentinel error
// otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonForbidden:
		return common.ErrForbidden
	case ReasonAuthenticationRequired:
		return common.ErrAuthenticationRequired
	case ReasonInvalidVisibility:
		return common.ErrInvalidVisibility
	case ReasonInvalidCredential:
		return common.ErrInvalidCredential
	case ReasonCredentialMismatch:
		return common.ErrCredentialMismatch
	default:
		return common.ErrForbidden
	}
}

func isOwner(obj *models.Object, requester string) bool {
	return requester != "" && obj != nil && requester == obj.OwnerID
}

func ownerOnly(obj *models.Object, requester string) Decision {
	if !isOwner(obj, requester) {
		return deny(ReasonForbidden)
	}
	return allow()
}

// AuthorizeMetadataRead allows only the owner, whatever the visibility.
func AuthorizeMetadataRead(obj *models.Object, requester string) Decision {
	return ownerOnly(obj, requester)
}

// AuthorizeDelete allows only the owner.
func AuthorizeDelete(obj *models.Object, requester string) Decision {
	return ownerOnly(obj, requester)
}

// AuthorizeOwnerByteAccess gates the authenticated content path: the owner
// may always read their bytes.
func AuthorizeOwnerByteAccess(obj *models.Object, requester string) Decision {
	return ownerOnly(obj, requester)
}

// AuthorizeMutation validates a permission change and returns the
// permission to store. The credential is ignored unless visibility is
// "password", in which case it is kept exactly as supplied.
func AuthorizeMutation(obj *models.Object, requester, visibility string, credential *string) (models.Permission, Decision) {
	if !isOwner(obj, requester) {
		return models.Permission{}, deny(ReasonForbidden)
	}

	v, ok := models.ParseVisibility(visibility)
	if !ok {
		return models.Permission{}, deny(ReasonInvalidVisibility)
	}

	switch v {
	case models.VisibilityPublic:
		return models.Public(), allow()
	case models.VisibilityPasswordProtected:
		if !ValidCredential(credential) {
			return models.Permission{}, deny(ReasonInvalidCredential)
		}
		return models.PasswordProtected(*credential), allow()
	default:
		return models.Private(), allow()
	}
}

// ValidCredential reports whether c may protect an object. Length is
// counted in characters; a byte order mark counts as blank.
func ValidCredential(c *string) bool {
	if c == nil || strings.TrimFunc(*c, isBlank) == "" {
		return false
	}
	return utf8.RuneCountInString(*c) >= MinCredentialLength
}

func isBlank(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// AuthorizeByteAccess decides anonymous access to an object's bytes via its
// link. Missing and wrong credentials are indistinguishable.
func AuthorizeByteAccess(obj *models.Object, supplied *string) Decision {
	if obj == nil {
		return deny(ReasonAuthenticationRequired)
	}
	switch obj.Permission.Visibility() {
	case models.VisibilityPublic:
		return allow()
	case models.VisibilityPasswordProtected:
		stored, _ := obj.Permission.Credential()
		if supplied == nil || *supplied == "" {
			return deny(ReasonCredentialMismatch)
		}
		if subtle.ConstantTimeCompare([]byte(*supplied), []byte(stored)) != 1 {
			return deny(ReasonCredentialMismatch)
		}
		return allow()
	default:
		return deny(ReasonAuthenticationRequired)
	}
}
