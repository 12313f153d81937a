package broker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/broker/namespace"
)

func flexibleCallback() Callback {
	return func(ctx context.Context, args Args) error { return nil }
}

func TestSignature_FirstDeclarationSetsRecord(t *testing.T) {
	b := New(WithLogger(discardLogger()))

	// A flexible subscriber never sets the record, even when it
	// registers first.
	_, err := b.Subscribe("user.login", flexibleCallback())
	require.NoError(t, err)
	assert.Nil(t, b.Signature("user.login"))

	_, err = b.Subscribe("user.login", flexibleCallback(), WithArgs("user", "ip"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ip", "user"}, b.Signature("user.login"))
}

func TestSignature_ConflictRejected(t *testing.T) {
	b := New(WithLogger(discardLogger()))

	_, err := b.Subscribe("user.login", flexibleCallback(), WithArgs("user"))
	require.NoError(t, err)

	_, err = b.Subscribe("user.login", flexibleCallback(), WithArgs("username"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSignatureConflict)

	var cerr *SignatureConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, namespace.Path("user.login"), cerr.Namespace)
	assert.Equal(t, []string{"user"}, cerr.Want)
	assert.Equal(t, []string{"username"}, cerr.Got)

	// The rejected registration mutated nothing.
	assert.Len(t, b.Subscriptions("user.login"), 1)
}

func TestSignature_MatchingDeclarationAccepted(t *testing.T) {
	b := New(WithLogger(discardLogger()))

	_, err := b.Subscribe("user.login", flexibleCallback(), WithArgs("user", "ip"))
	require.NoError(t, err)

	// Declaration order does not matter.
	_, err = b.Subscribe("user.login", flexibleCallback(), WithArgs("ip", "user"))
	require.NoError(t, err)

	// Flexible subscribers always join.
	_, err = b.Subscribe("user.login", flexibleCallback())
	require.NoError(t, err)
	assert.Len(t, b.Subscriptions("user.login"), 3)
}

func TestSignature_EmissionMismatchRejected(t *testing.T) {
	b := New(WithLogger(discardLogger()))

	delivered := false
	_, err := b.Subscribe("user.login", func(ctx context.Context, args Args) error {
		delivered = true
		return nil
	}, WithArgs("user"))
	require.NoError(t, err)

	status, err := b.Emit("user.login", Args{"username": "ada"})
	assert.Equal(t, StatusBlocked, status)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArgumentMismatch)

	var aerr *ArgumentError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, namespace.Path("user.login"), aerr.Namespace)
	assert.Equal(t, []string{"user"}, aerr.Want)
	assert.Equal(t, []string{"username"}, aerr.Got)
	assert.False(t, delivered, "validation failures abort before any delivery")

	// Extra arguments are a mismatch too.
	_, err = b.Emit("user.login", Args{"user": "ada", "ip": "::1"})
	assert.ErrorIs(t, err, ErrArgumentMismatch)

	// The exact set passes.
	status, err = b.Emit("user.login", Args{"user": "ada"})
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, status)
	assert.True(t, delivered)
}

func TestSignature_FlexibleNamespaceAcceptsAnything(t *testing.T) {
	b := New(WithLogger(discardLogger()))

	_, err := b.Subscribe("metrics.*", flexibleCallback())
	require.NoError(t, err)

	for _, args := range []Args{nil, {"a": 1}, {"x": 1, "y": 2, "z": 3}} {
		status, err := b.Emit("metrics.cpu", args)
		require.NoError(t, err)
		assert.Equal(t, StatusDelivered, status)
	}
}

func TestSignature_RecordDiesWithNamespace(t *testing.T) {
	b := New(WithLogger(discardLogger()))

	sub, err := b.Subscribe("user.login", flexibleCallback(), WithArgs("user"))
	require.NoError(t, err)
	require.NoError(t, b.Unsubscribe(sub))

	// A fresh registration may establish a different record.
	_, err = b.Subscribe("user.login", flexibleCallback(), WithArgs("username"))
	require.NoError(t, err)
	assert.Equal(t, []string{"username"}, b.Signature("user.login"))
}

func TestSignature_RecordSurvivesWhileOthersRemain(t *testing.T) {
	b := New(WithLogger(discardLogger()))

	declared, err := b.Subscribe("user.login", flexibleCallback(), WithArgs("user"))
	require.NoError(t, err)
	_, err = b.Subscribe("user.login", flexibleCallback())
	require.NoError(t, err)

	// Removing the declaring subscriber does not clear the record while
	// the namespace still holds entries.
	require.NoError(t, b.Unsubscribe(declared))
	assert.Equal(t, []string{"user"}, b.Signature("user.login"))
}

func TestSignature_WildcardPatternRecord(t *testing.T) {
	b := New(WithLogger(discardLogger()))

	_, err := b.Subscribe("audit.*", flexibleCallback(), WithArgs("actor"))
	require.NoError(t, err)

	status, err := b.Emit("audit.write", Args{"actor": "ada"})
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, status)

	_, err = b.Emit("audit.write", Args{"who": "ada"})
	assert.ErrorIs(t, err, ErrArgumentMismatch)
}

func TestSignature_EmptyDeclaration(t *testing.T) {
	b := New(WithLogger(discardLogger()))

	// WithArgs with no names declares "takes no arguments".
	_, err := b.Subscribe("ping", flexibleCallback(), WithArgs())
	require.NoError(t, err)

	status, err := b.Emit("ping", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, status)

	_, err = b.Emit("ping", Args{"extra": 1})
	assert.ErrorIs(t, err, ErrArgumentMismatch)
}
