package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type mockPlayerRepo struct {
	mock.Mock
}

func (that *mockPlayerRepo) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	args := that.Called(ctx, player)
	return args.Error(0)
}

func (that *mockPlayerRepo) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	args := that.Called(ctx, id)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

type mockResultRepo struct {
	mock.Mock
}

func (that *mockResultRepo) Save(ctx context.Context, result entity.Result) error {
	args := that.Called(ctx, result)
	return args.Error(0)
}

func (that *mockResultRepo) Stats(ctx context.Context) (entity.Stats, error) {
	args := that.Called(ctx)
	stats, _ := args.Get(0).(entity.Stats)
	return stats, args.Error(1)
}
