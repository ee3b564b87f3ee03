package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
)

func TestProvider_AddAndLoad(t *testing.T) {
	p := New()
	ctx := context.Background()

	require.NoError(t, p.Add("board_pack", &domain.Recipe{Name: "Board Pack"}))

	r, err := p.Load(ctx, "board_pack")
	require.NoError(t, err)
	assert.Equal(t, "board_pack", r.ID)
	assert.Equal(t, "Board Pack", r.Name)

	r.Name = "changed"
	again, err := p.Load(ctx, "board_pack")
	require.NoError(t, err)
	assert.Equal(t, "Board Pack", again.Name)
}

func TestProvider_LoadUnknown(t *testing.T) {
	p := New()

	_, err := p.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestProvider_AddInvalid(t *testing.T) {
	p := New()

	err := p.Add("bad", &domain.Recipe{})
	assert.ErrorIs(t, err, domain.ErrInvalidRecipe)

	err = p.Add("", &domain.Recipe{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProvider_List(t *testing.T) {
	p := New()
	_ = p.Add("roadmap", &domain.Recipe{Name: "Roadmap"})
	_ = p.Add("board_pack", &domain.Recipe{Name: "Board Pack"})

	ids, err := p.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"board_pack", "roadmap"}, ids)
}
