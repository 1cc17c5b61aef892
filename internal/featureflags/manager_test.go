package featureflags

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEnabled_Toggles(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")
	user := uuid.New()

	for _, name := range []string{"a", "c", "e"} {
		assert.True(t, m.Enabled(name, user), name)
	}
	for _, name := range []string{"b", "d", "f", "missing"} {
		assert.False(t, m.Enabled(name, user), name)
	}
}

func TestEnabled_Rollout(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,over=250%,junk=abc%")
	user := uuid.MustParse("6f1c1a52-4d2e-4c8b-9a43-2f5b8a0e7d11")

	assert.True(t, m.Enabled("always", user))
	assert.True(t, m.Enabled("over", user))
	assert.False(t, m.Enabled("never", user))
	assert.False(t, m.Enabled("junk", user))

	first := m.Enabled("canary", user)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", user), "bucket must be stable per user")
	}

	assert.False(t, m.Enabled("canary", uuid.Nil))
	assert.True(t, m.Enabled("always", uuid.Nil))
}

func TestEnabled_RolloutShare(t *testing.T) {
	m := NewManager("ai_replies=25%")

	on := 0
	for i := 0; i < 2000; i++ {
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("user-%d", i)))
		if m.Enabled(AIReplies, id) {
			on++
		}
	}
	assert.InDelta(t, 500, on, 150)
}

func TestEnabled_NilManager(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled(AIFactCheck, uuid.New()))
	assert.Zero(t, m.Len())
}

func TestNewManager_Normalizes(t *testing.T) {
	m := NewManager(" bad ,AI_Fact_Check=ON, ai_replies = 20% ,z=off,=on,q=maybe")

	assert.Equal(t, 3, m.Len())
	assert.True(t, m.Enabled("ai_fact_check", uuid.New()))
	assert.True(t, m.Enabled(" AI_FACT_CHECK ", uuid.New()))
	assert.False(t, m.Enabled("z", uuid.New()))
	assert.False(t, m.Enabled("q", uuid.New()))
}
