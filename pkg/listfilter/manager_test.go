package listfilter

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RenderBeforeActivate(t *testing.T) {
	m := New(&StaticHost{})
	require.NoError(t, m.Register(KindContent, []string{"post"}, []Definition{
		{Key: "status", Options: []Option{{Value: "a", Label: "Active"}}},
	}))

	req := m.Screen(KindContent, "post").NewRequest(url.Values{})

	var buf strings.Builder
	err := req.RenderControls(context.Background(), &buf)
	assert.ErrorIs(t, err, ErrNotActivated)
	assert.Empty(t, buf.String())
}

func TestManager_ApplyBeforeActivate(t *testing.T) {
	m := New(&StaticHost{})
	require.NoError(t, m.Register(KindContent, []string{"post"}, []Definition{{Key: "status"}}))

	req := m.Screen(KindContent, "post").NewRequest(url.Values{"status": {"a"}})

	err := req.ApplyQuery(context.Background(), NewContentQuery())
	assert.ErrorIs(t, err, ErrNotActivated)
}

func TestManager_ActivateIsIdempotent(t *testing.T) {
	m := New(&StaticHost{})

	require.NoError(t, m.Activate(context.Background()))
	require.NoError(t, m.Activate(context.Background()))
	assert.True(t, m.isActive())
}

func TestManager_RegisterAfterActivate(t *testing.T) {
	m := New(&StaticHost{})
	require.NoError(t, m.Activate(context.Background()))

	require.NoError(t, m.Register(KindContent, []string{"post"}, []Definition{
		{Key: "status", Options: []Option{{Value: "a", Label: "Active"}}},
	}))

	req := m.Screen(KindContent, "post").NewRequest(url.Values{})

	var buf strings.Builder
	require.NoError(t, req.RenderControls(context.Background(), &buf))
	assert.Contains(t, buf.String(), `name="status"`)
}

func TestManager_HostConstraint(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		version    string
		wantErr    string
	}{
		{name: "satisfied", constraint: ">= 6.0.0", version: "6.4.1"},
		{name: "not satisfied", constraint: ">= 6.0.0", version: "5.9.0", wantErr: "does not satisfy"},
		{name: "invalid constraint", constraint: "not-a-range", version: "6.0.0", wantErr: "parsing host constraint"},
		{name: "invalid host version", constraint: ">= 6.0.0", version: "devel", wantErr: "parsing host version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(&StaticHost{HostVersion: tt.version}, WithHostConstraint(tt.constraint))

			err := m.Activate(context.Background())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.False(t, m.isActive())

				return
			}

			require.NoError(t, err)
			assert.True(t, m.isActive())
		})
	}
}

func TestManager_ScreenBindsOnce(t *testing.T) {
	m := New(&StaticHost{})

	b1 := m.Screen(KindContent, "post")
	b2 := m.Screen(KindContent, "post")
	assert.Same(t, b1, b2, "a screen is bound at most once")

	other := m.Screen(KindContent, "page")
	assert.NotSame(t, b1, other)
	assert.Equal(t, ScreenKey{Kind: KindContent, Subtype: "post"}, b1.Key())
}
