package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanRead(t *testing.T) {
	owner := Actor{ID: 7}
	stranger := Actor{ID: 8}
	admin := Actor{ID: 9, Admin: true}

	tests := []struct {
		name  string
		actor Actor
		owner *uint64
		want  bool
	}{
		{"owner reads own row", owner, Owned(7), true},
		{"stranger cannot read another user's row", stranger, Owned(7), false},
		{"admin reads anything", admin, Owned(7), true},
		{"shared row readable by anyone", stranger, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanRead(tt.actor, tt.owner))
		})
	}
}

func TestCanWrite(t *testing.T) {
	owner := Actor{ID: 7}
	stranger := Actor{ID: 8}
	admin := Actor{ID: 9, Admin: true}

	tests := []struct {
		name  string
		actor Actor
		owner *uint64
		want  bool
	}{
		{"owner writes own row", owner, Owned(7), true},
		{"stranger cannot write another user's row", stranger, Owned(7), false},
		{"shared row writable only by admin", owner, nil, false},
		{"admin writes shared row", admin, nil, true},
		{"admin writes anyone's row", admin, Owned(7), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanWrite(tt.actor, tt.owner))
		})
	}
}

func TestCanManageReference(t *testing.T) {
	assert.False(t, CanManageReference(Actor{ID: 1}))
	assert.True(t, CanManageReference(Actor{ID: 1, Admin: true}))
}

func TestOwned(t *testing.T) {
	p := Owned(42)
	assert.NotNil(t, p)
	assert.Equal(t, uint64(42), *p)
}
