// Package models defines server-side data models persisted by the repositories.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Visibility is the access policy attached to an object.
type Visibility int

const (
	VisibilityPrivate Visibility = iota
	VisibilityPublic
	VisibilityPasswordProtected
)

// Wire names of the visibilities, as accepted by the permission endpoints.
const (
	AccessPrivate  = "private"
	AccessPublic   = "public"
	AccessPassword = "password"
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return AccessPrivate
	case VisibilityPublic:
		return AccessPublic
	case VisibilityPasswordProtected:
		return AccessPassword
	default:
		return fmt.Sprintf("visibility(%d)", int(v))
	}
}

// ParseVisibility maps a wire name to a Visibility. Matching is exact.
func ParseVisibility(s string) (Visibility, bool) {
	switch s {
	case AccessPrivate:
		return VisibilityPrivate, true
	case AccessPublic:
		return VisibilityPublic, true
	case AccessPassword:
		return VisibilityPasswordProtected, true
	default:
		return 0, false
	}
}

// Permission is the visibility of an object together with the credential
// that gates it. The zero value is Private.
//
// A credential exists only for PasswordProtected permissions; the
// constructors are the only way to build one.
type Permission struct {
	visibility Visibility
	credential string
}

func Private() Permission { return Permission{visibility: VisibilityPrivate} }

func Public() Permission { return Permission{visibility: VisibilityPublic} }

// PasswordProtected returns a permission gated by cred. cred must be
// non-empty; callers validate it beforehand.
func PasswordProtected(cred string) Permission {
	return Permission{visibility: VisibilityPasswordProtected, credential: cred}
}

// RestorePermission rebuilds a Permission from persisted columns, rejecting
// combinations that cannot be produced by the constructors.
func RestorePermission(v Visibility, cred string) (Permission, error) {
	switch v {
	case VisibilityPrivate, VisibilityPublic:
		if cred != "" {
			return Permission{}, fmt.Errorf("credential set for %s object", v)
		}
		return Permission{visibility: v}, nil
	case VisibilityPasswordProtected:
		if strings.TrimSpace(cred) == "" {
			return Permission{}, fmt.Errorf("empty credential for %s object", v)
		}
		return PasswordProtected(cred), nil
	default:
		return Permission{}, fmt.Errorf("unknown visibility %d", int(v))
	}
}

func (p Permission) Visibility() Visibility { return p.visibility }

// Credential returns the stored credential; ok is false unless the
// permission is PasswordProtected.
func (p Permission) Credential() (cred string, ok bool) {
	return p.credential, p.visibility == VisibilityPasswordProtected
}

func (p Permission) String() string { return p.visibility.String() }

// Object is the metadata record of one uploaded file.
type Object struct {
	ID          string
	OwnerID     string
	DisplayName string
	StorageKey  string
	SizeBytes   int64
	CreatedAt   time.Time
	Permission  Permission
	LinkID      string
}

// Clone returns a copy safe to hand out of a store.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}
