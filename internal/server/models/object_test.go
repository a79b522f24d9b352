package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVisibility(t *testing.T) {
	tests := []struct {
		in   string
		want Visibility
		ok   bool
	}{
		{"private", VisibilityPrivate, true},
		{"public", VisibilityPublic, true},
		{"password", VisibilityPasswordProtected, true},
		{"Public", 0, false},
		{"", 0, false},
		{"shared", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseVisibility(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
				assert.Equal(t, tt.in, got.String())
			}
		})
	}
}

func TestPermission_ZeroValueIsPrivate(t *testing.T) {
	var p Permission
	assert.Equal(t, VisibilityPrivate, p.Visibility())
	_, ok := p.Credential()
	assert.False(t, ok)
}

func TestPermission_Constructors(t *testing.T) {
	_, ok := Public().Credential()
	assert.False(t, ok)

	cred, ok := PasswordProtected("ab").Credential()
	assert.True(t, ok)
	assert.Equal(t, "ab", cred)
	assert.Equal(t, "password", PasswordProtected("ab").String())
}

func TestRestorePermission(t *testing.T) {
	p, err := RestorePermission(VisibilityPasswordProtected, " pw ")
	require.NoError(t, err)
	cred, _ := p.Credential()
	assert.Equal(t, " pw ", cred)

	p, err = RestorePermission(VisibilityPublic, "")
	require.NoError(t, err)
	assert.Equal(t, Public(), p)

	_, err = RestorePermission(VisibilityPrivate, "x")
	assert.Error(t, err)
	_, err = RestorePermission(VisibilityPasswordProtected, "  ")
	assert.Error(t, err)
	_, err = RestorePermission(Visibility(7), "")
	assert.Error(t, err)
}

func TestObject_Clone(t *testing.T) {
	o := &Object{ID: "1", Permission: PasswordProtected("pw")}
	c := o.Clone()
	c.Permission = Private()
	assert.Equal(t, VisibilityPasswordProtected, o.Permission.Visibility())

	var nilObj *Object
	assert.Nil(t, nilObj.Clone())
}
