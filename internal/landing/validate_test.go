package landing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		form Form
		want string
	}{
		{"both empty", Form{}, MsgMissingFields},
		{"name empty", Form{Email: "x@y.com"}, MsgMissingFields},
		{"email empty", Form{Name: "A"}, MsgMissingFields},
		{"missing domain dot", Form{Name: "A", Email: "foo@bar"}, MsgInvalidEmail},
		{"no at", Form{Name: "A", Email: "foo"}, MsgInvalidEmail},
		{"short", Form{Name: "A", Email: "a@b"}, MsgInvalidEmail},
		{"two ats", Form{Name: "A", Email: "a@b@c.com"}, MsgInvalidEmail},
		{"inner space", Form{Name: "A", Email: "a b@c.com"}, MsgInvalidEmail},
		{"empty tld", Form{Name: "A", Email: "a@b."}, MsgInvalidEmail},
		{"leading space in email", Form{Name: "A", Email: " x@y.com"}, MsgInvalidEmail},
		{"trailing tab in email", Form{Name: "A", Email: "x@y.com\t"}, MsgInvalidEmail},
		{"whitespace name is present", Form{Name: "   ", Email: "x@y.com"}, ""},
		{"valid", Form{Name: "A", Email: "x@y.com"}, ""},
		{"valid subdomain", Form{Name: "A", Email: "first.last@mail.example.co"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.form)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.want, ve.Message)
		})
	}
}

func TestNormalize(t *testing.T) {
	// "e" followed by a combining acute accent composes to a single rune.
	f := Normalize(Form{Name: " Rene\u0301e", Email: "x@y.com"})
	assert.Equal(t, " Ren\u00e9e", f.Name)
	assert.Equal(t, "x@y.com", f.Email)
}
