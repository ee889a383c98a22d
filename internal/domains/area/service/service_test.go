package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"condo/config"
	"condo/infras/otel/mocks"
	areaMocks "condo/internal/domains/area/mocks"
	"condo/internal/domains/area/model"
	"condo/internal/domains/area/model/dto"
	"condo/internal/domains/area/service"
	cacheMocks "condo/shared/cache/mocks"
	"condo/shared/constant"
	"condo/shared/failure"
)

type fixture struct {
	repo  *areaMocks.MockArea
	cache *cacheMocks.MockRedisCache
	svc   service.Area
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &fixture{
		repo:  areaMocks.NewMockArea(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, cfg, f.cache, mocks.NewOtel())

	return f
}

func adminCtx() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func poolArea() model.Area {
	return model.Area{
		ID:       "area-pool",
		Name:     "Swimming Pool",
		Location: "Tower A, Level 2",
		Capacity: 30,
		OpensAt:  "08:00",
		ClosesAt: "20:00",
		Active:   true,
	}
}

func TestAreaService_Create(t *testing.T) {
	req := dto.CreateAreaRequest{
		Name:     "Swimming Pool",
		Location: "Tower A, Level 2",
		Capacity: 30,
		OpensAt:  "08:00",
		ClosesAt: "20:00",
	}

	t.Run("successful creation", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Create(adminCtx(), req)

		require.NoError(t, err)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, "Swimming Pool", res.Name)
		assert.True(t, res.Active)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("duplicate name", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := f.svc.Create(adminCtx(), req)

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("equal open and close clocks", func(t *testing.T) {
		f := newFixture(t)

		bad := req
		bad.ClosesAt = bad.OpensAt

		_, err := f.svc.Create(adminCtx(), bad)

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("overnight window is accepted", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		lounge := dto.CreateAreaRequest{
			Name:     "Rooftop Lounge",
			Location: "Tower B, Roof",
			Capacity: 15,
			OpensAt:  "22:00",
			ClosesAt: "02:00",
		}

		res, err := f.svc.Create(adminCtx(), lounge)

		require.NoError(t, err)
		assert.Equal(t, "22:00", res.OpensAt)
		assert.Equal(t, "02:00", res.ClosesAt)

		time.Sleep(10 * time.Millisecond)
	})
}

func TestAreaService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(poolArea(), nil)
		f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := f.svc.Get(adminCtx(), "area-pool")

		require.NoError(t, err)
		assert.Equal(t, "area-pool", res.ID)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Area{}, nil)

		_, err := f.svc.Get(adminCtx(), "area-missing")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestAreaService_Update(t *testing.T) {
	t.Run("keeps the window non-empty across a partial update", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(poolArea(), nil)

		// Only opens_at changes; merged with the stored closes_at it would
		// collapse the window.
		err := f.svc.Update(adminCtx(), dto.UpdateAreaRequest{OpensAt: "20:00"}, "area-pool")

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("successful update", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(poolArea(), nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		err := f.svc.Update(adminCtx(), dto.UpdateAreaRequest{ClosesAt: "22:00"}, "area-pool")

		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("empty request", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Update(adminCtx(), dto.UpdateAreaRequest{}, "area-pool")

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Area{}, nil)

		err := f.svc.Update(adminCtx(), dto.UpdateAreaRequest{ClosesAt: "22:00"}, "area-missing")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestAreaService_Disable(t *testing.T) {
	t.Run("successful disable", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		require.NoError(t, f.svc.Disable(adminCtx(), "area-pool"))

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := f.svc.Disable(adminCtx(), "area-missing")

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestAreaService_ListEnabled(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Area{poolArea()}, nil)

	res, err := f.svc.ListEnabled(adminCtx())

	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "area-pool", res[0].ID)
}
