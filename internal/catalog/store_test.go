package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MOR6969/vape-bill/pkg/config"
	pkgerrors "github.com/MOR6969/vape-bill/pkg/errors"
	pkgredis "github.com/MOR6969/vape-bill/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultStore(t *testing.T, cache Cache) *Store {
	t.Helper()
	c, err := Default()
	require.NoError(t, err)
	return NewStore(c, cache, nil)
}

func TestAddBrandSlugifiesAndRejectsDuplicates(t *testing.T) {
	store := newDefaultStore(t, nil)
	ctx := context.Background()

	brand, err := store.AddBrand(ctx, AddBrandInput{Name: "Lost Mary", Image: "/img/lm.png"})
	require.NoError(t, err)
	assert.Equal(t, "lost-mary", brand.ID)

	_, ok := store.Snapshot().Brand("lost-mary")
	assert.True(t, ok)

	_, err = store.AddBrand(ctx, AddBrandInput{Name: "lost   mary", Image: "/img/other.png"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestAddBrandRequiresNameAndImage(t *testing.T) {
	store := newDefaultStore(t, nil)
	_, err := store.AddBrand(context.Background(), AddBrandInput{Name: "Solo"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAddFlavorAndVariant(t *testing.T) {
	store := newDefaultStore(t, nil)
	ctx := context.Background()

	flavor, err := store.AddFlavor(ctx, "sierra", AddFlavorInput{Name: "Night Blend", Image: "/images/logo.png"})
	require.NoError(t, err)
	assert.Equal(t, "night-blend", flavor.ID)

	variant, err := store.AddVariant(ctx, "sierra", "night-blend", AddVariantInput{
		Name:     "Dark Berry",
		Price:    decimal.RequireFromString("15.00"),
		Quantity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "dark-berry", variant.ID)

	got, ok := store.Snapshot().Variant("sierra", "night-blend", "dark-berry")
	require.True(t, ok)
	assert.Equal(t, "15", got.Price.String())
	assert.Equal(t, 1, got.Quantity)

	_, err = store.AddVariant(ctx, "sierra", "night-blend", AddVariantInput{Name: "Dark Berry"})
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestAddFlavorUnknownBrand(t *testing.T) {
	store := newDefaultStore(t, nil)
	_, err := store.AddFlavor(context.Background(), "juul", AddFlavorInput{Name: "Mint", Image: "/m.png"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = store.AddVariant(context.Background(), "elfbar", "missing", AddVariantInput{Name: "X"})
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestAddVariantValidation(t *testing.T) {
	store := newDefaultStore(t, nil)
	ctx := context.Background()

	_, err := store.AddVariant(ctx, "elfbar", "bc10000", AddVariantInput{Name: " "})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = store.AddVariant(ctx, "elfbar", "bc10000", AddVariantInput{Name: "Neg", Price: decimal.NewFromInt(-1)})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = store.AddVariant(ctx, "elfbar", "bc10000", AddVariantInput{Name: "%/%"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAddVariantIDIsPathSafe(t *testing.T) {
	store := newDefaultStore(t, nil)
	ctx := context.Background()

	variant, err := store.AddVariant(ctx, "elfbar", "bc10000", AddVariantInput{
		Name:     "Kiwi/Passion 5%",
		Price:    decimal.RequireFromString("14.00"),
		Quantity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "kiwi-passion-5", variant.ID)
	assert.NotContains(t, variant.ID, "/")

	_, ok := store.Snapshot().Variant("elfbar", "bc10000", "kiwi-passion-5")
	assert.True(t, ok)
}

func TestSnapshotsAreNotMutatedByEdits(t *testing.T) {
	store := newDefaultStore(t, nil)
	before := store.Snapshot()
	elfbarBefore, _ := before.Brand("elfbar")
	flavorsBefore := len(elfbarBefore.Flavors)

	_, err := store.AddFlavor(context.Background(), "elfbar", AddFlavorInput{Name: "Lux Kit", Image: "/l.png"})
	require.NoError(t, err)

	elfbarAfter, _ := before.Brand("elfbar")
	assert.Len(t, elfbarAfter.Flavors, flavorsBefore)

	current, _ := store.Snapshot().Brand("elfbar")
	assert.Len(t, current.Flavors, flavorsBefore+1)
}

func TestFailedEditLeavesCatalogUnchanged(t *testing.T) {
	store := newDefaultStore(t, nil)
	before := store.Snapshot()

	_, err := store.AddFlavor(context.Background(), "elfbar", AddFlavorInput{Name: "BC10000", Image: "/dup.png"})
	require.Error(t, err)
	assert.Equal(t, before, store.Snapshot())
}

func TestStoreWritesThroughRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := pkgredis.New(context.Background(), config.RedisConfig{Address: mr.Addr()}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cache := NewRedisCache(client, time.Hour)
	store := newDefaultStore(t, cache)

	restored, err := store.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, restored)

	_, err = store.AddBrand(context.Background(), AddBrandInput{Name: "Lost Mary", Image: "/lm.png"})
	require.NoError(t, err)
	assert.True(t, mr.Exists("vb:catalog:snapshot"))
	assert.Equal(t, time.Hour, mr.TTL("vb:catalog:snapshot"))

	fresh := newDefaultStore(t, cache)
	restored, err = fresh.Restore(context.Background())
	require.NoError(t, err)
	assert.True(t, restored)
	_, ok := fresh.Snapshot().Brand("lost-mary")
	assert.True(t, ok)
}

type failingCache struct{}

func (failingCache) Load(context.Context) (Catalog, bool, error) {
	return Catalog{}, false, errors.New("redis down")
}

func (failingCache) Save(context.Context, Catalog) error {
	return errors.New("redis down")
}

func TestCacheFailures(t *testing.T) {
	store := newDefaultStore(t, failingCache{})

	_, err := store.Restore(context.Background())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())

	_, err = store.AddBrand(context.Background(), AddBrandInput{Name: "Solo", Image: "/s.png"})
	assert.NoError(t, err)

	err = store.PersistCache(context.Background())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestPersistCacheWithoutCache(t *testing.T) {
	assert.NoError(t, newDefaultStore(t, nil).PersistCache(context.Background()))
}
