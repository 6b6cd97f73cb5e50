package verifier_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailauth/pkg/dnsresolver"
	"github.com/dmitrymomot/mailauth/pkg/verifier"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	a, err := verifier.GenerateToken()
	require.NoError(t, err)
	b, err := verifier.GenerateToken()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestMethod_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, verifier.MethodDNS.Valid())
	assert.True(t, verifier.MethodEmail.Valid())
	assert.False(t, verifier.Method("Carrier Pigeon").Valid())
	assert.False(t, verifier.Method("").Valid())
}

func TestAddressAllowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		addr string
		want bool
	}{
		{"postmaster@example.com", true},
		{"admin@example.com", true},
		{"webmaster@example.com", true},
		{"administrator@example.com", true},
		{"hostmaster@example.com", true},
		{"Postmaster@Example.COM", true},
		{"  admin@example.com  ", true},
		{"someone@example.com", false},
		{"postmaster@other.example", false},
		{"postmaster@sub.example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, verifier.AddressAllowed("example.com", tt.addr))
		})
	}
}

func TestCodeMatches(t *testing.T) {
	t.Parallel()

	assert.True(t, verifier.CodeMatches("abc123", "abc123"))
	assert.True(t, verifier.CodeMatches("abc123", "  abc123\n"))
	assert.False(t, verifier.CodeMatches("abc123", "ABC123"))
	assert.False(t, verifier.CodeMatches("abc123", "xyz999"))
	assert.False(t, verifier.CodeMatches("abc123", ""))
}

func TestVerifier_CheckDNSProof(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		resolver *dnsresolver.MockResolver
		want     bool
	}{
		{
			name: "token present",
			resolver: &dnsresolver.MockResolver{
				TXT: map[string][]string{"example.com": {"abc123"}},
			},
			want: true,
		},
		{
			name: "token present among unrelated records",
			resolver: &dnsresolver.MockResolver{
				TXT: map[string][]string{"example.com": {"v=spf1 ~all", "google-site-verification=x", "abc123"}},
			},
			want: true,
		},
		{
			name: "wrong token",
			resolver: &dnsresolver.MockResolver{
				TXT: map[string][]string{"example.com": {"xyz999"}},
			},
			want: false,
		},
		{
			name: "partial match rejected",
			resolver: &dnsresolver.MockResolver{
				TXT: map[string][]string{"example.com": {"abc123extra"}},
			},
			want: false,
		},
		{
			name:     "no records",
			resolver: &dnsresolver.MockResolver{},
			want:     false,
		},
		{
			name: "lookup failure absorbed",
			resolver: &dnsresolver.MockResolver{
				Fail: []string{"txt example.com"},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := verifier.New(tt.resolver)
			ok, err := v.CheckDNSProof(context.Background(), "example.com", "abc123")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestVerifier_CheckDNSProof_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := verifier.New(&dnsresolver.MockResolver{})
	_, err := v.CheckDNSProof(ctx, "example.com", "abc123")
	require.ErrorIs(t, err, context.Canceled)
}
