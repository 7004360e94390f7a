package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog_go/internal/core/config"
	"catalog_go/internal/model"
	"catalog_go/internal/pkg/apperr"
)

// in-memory fakes shared by the board and tag service tests

type fakeBoardRepo struct {
	boards []*model.Board
	orders map[string]int // reorder writes land here
}

func (f *fakeBoardRepo) GetByID(ctx context.Context, boardID int64) (*model.Board, error) {
	for _, b := range f.boards {
		if b.BoardID == boardID {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBoardRepo) GetBySlug(ctx context.Context, slug string) (*model.Board, error) {
	for _, b := range f.boards {
		if b.Slug == slug {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBoardRepo) GetAll(ctx context.Context) ([]*model.Board, error) {
	return f.boards, nil
}

func (f *fakeBoardRepo) GetByTag(ctx context.Context, tagID int64) ([]*model.Board, error) {
	return f.boards, nil
}

func (f *fakeBoardRepo) Create(ctx context.Context, board *model.Board) (int64, error) {
	for _, b := range f.boards {
		if b.Slug == board.Slug {
			return 0, &pq.Error{Code: "23505"}
		}
	}
	id := int64(len(f.boards) + 1)
	board.BoardID = id
	f.boards = append(f.boards, board)
	return id, nil
}

func (f *fakeBoardRepo) Update(ctx context.Context, board *model.Board) error {
	return nil
}

func (f *fakeBoardRepo) Delete(ctx context.Context, boardID int64) error {
	for i, b := range f.boards {
		if b.BoardID == boardID {
			f.boards = append(f.boards[:i], f.boards[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeBoardRepo) UpdateSortOrder(ctx context.Context, slug string, order int) (int64, error) {
	for _, b := range f.boards {
		if b.Slug == slug {
			b.SortOrder = order
			if f.orders == nil {
				f.orders = make(map[string]int)
			}
			f.orders[slug] = order
			return 1, nil
		}
	}
	return 0, nil
}

type fakeBoardTagRepo struct {
	edges []*model.BoardTag
	views map[int64][]*model.BoardTagView
}

func (f *fakeBoardTagRepo) GetByBoard(ctx context.Context, boardID int64) ([]*model.BoardTagView, error) {
	return f.views[boardID], nil
}

func (f *fakeBoardTagRepo) Attach(ctx context.Context, edge *model.BoardTag) error {
	for _, e := range f.edges {
		if e.BoardID == edge.BoardID && e.TagID == edge.TagID {
			return &pq.Error{Code: "23505"}
		}
	}
	f.edges = append(f.edges, edge)
	return nil
}

func (f *fakeBoardTagRepo) Detach(ctx context.Context, boardID, tagID int64) (int64, error) {
	for i, e := range f.edges {
		if e.BoardID == boardID && e.TagID == tagID {
			f.edges = append(f.edges[:i], f.edges[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeBoardTagRepo) NextSortOrder(ctx context.Context, boardID int64) (int, error) {
	next := 0
	for _, e := range f.edges {
		if e.BoardID == boardID && e.SortOrder >= next {
			next = e.SortOrder + 1
		}
	}
	return next, nil
}

type fakeAssetLinkRepo struct {
	links  map[string]map[int64]bool // assetID -> boardID
	synced map[string][]int64        // assetID -> tag IDs from the last sync
}

func newFakeAssetLinkRepo() *fakeAssetLinkRepo {
	return &fakeAssetLinkRepo{
		links:  make(map[string]map[int64]bool),
		synced: make(map[string][]int64),
	}
}

func (f *fakeAssetLinkRepo) Place(ctx context.Context, assetID string, boardID int64) error {
	if f.links[assetID][boardID] {
		return &pq.Error{Code: "23505"}
	}
	if f.links[assetID] == nil {
		f.links[assetID] = make(map[int64]bool)
	}
	f.links[assetID][boardID] = true
	return nil
}

func (f *fakeAssetLinkRepo) Remove(ctx context.Context, assetID string, boardID int64) (int64, error) {
	if f.links[assetID][boardID] {
		delete(f.links[assetID], boardID)
		return 1, nil
	}
	return 0, nil
}

func (f *fakeAssetLinkRepo) CountAssetsByBoard(ctx context.Context, boardID int64) (int, error) {
	n := 0
	for _, boards := range f.links {
		if boards[boardID] {
			n++
		}
	}
	return n, nil
}

func (f *fakeAssetLinkRepo) SyncAssetTags(ctx context.Context, assetID string, tagIDs []int64) (int64, error) {
	prev := len(f.synced[assetID])
	f.synced[assetID] = tagIDs
	inserted := len(tagIDs) - prev
	if inserted < 0 {
		inserted = 0
	}
	return int64(inserted), nil
}

type fakeAssetRepo struct {
	assets []*model.Asset
}

func (f *fakeAssetRepo) GetByID(ctx context.Context, assetID string) (*model.Asset, error) {
	for _, a := range f.assets {
		if a.AssetID == assetID {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAssetRepo) GetAll(ctx context.Context) ([]*model.Asset, error) {
	return f.assets, nil
}

func (f *fakeAssetRepo) GetPublished(ctx context.Context) ([]*model.Asset, error) {
	var out []*model.Asset
	for _, a := range f.assets {
		if a.Published {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeTagRepo struct {
	tags []*model.Tag
}

func (f *fakeTagRepo) GetByID(ctx context.Context, tagID int64) (*model.Tag, error) {
	for _, t := range f.tags {
		if t.TagID == tagID {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTagRepo) GetBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	for _, t := range f.tags {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTagRepo) GetAll(ctx context.Context) ([]*model.Tag, error) {
	return f.tags, nil
}

func (f *fakeTagRepo) GetAllWithCounts(ctx context.Context) ([]*model.TagWithCounts, error) {
	out := make([]*model.TagWithCounts, 0, len(f.tags))
	for _, t := range f.tags {
		out = append(out, &model.TagWithCounts{Tag: *t})
	}
	return out, nil
}

func (f *fakeTagRepo) GetCounts(ctx context.Context, tagID int64) (int, int, error) {
	return 0, 0, nil
}

func (f *fakeTagRepo) Create(ctx context.Context, tag *model.Tag) (int64, error) {
	for _, t := range f.tags {
		if t.Slug == tag.Slug {
			return 0, &pq.Error{Code: "23505"}
		}
	}
	id := int64(len(f.tags) + 1)
	tag.TagID = id
	f.tags = append(f.tags, tag)
	return id, nil
}

func (f *fakeTagRepo) Update(ctx context.Context, tag *model.Tag) error {
	return nil
}

func (f *fakeTagRepo) DeleteCascade(ctx context.Context, tagID int64) error {
	for i, t := range f.tags {
		if t.TagID == tagID {
			f.tags = append(f.tags[:i], f.tags[i+1:]...)
			return nil
		}
	}
	return nil
}

func newBoardFixture() (*BoardService, *fakeBoardRepo, *fakeBoardTagRepo, *fakeAssetLinkRepo, *fakeTagRepo, *fakeAssetRepo) {
	boardRepo := &fakeBoardRepo{
		boards: []*model.Board{
			{BoardID: 1, Slug: "b1", Name: "Board One", SortOrder: 0},
			{BoardID: 2, Slug: "b2", Name: "Board Two", SortOrder: 1},
			{BoardID: 3, Slug: "b3", Name: "Board Three", SortOrder: 2},
		},
	}
	boardTagRepo := &fakeBoardTagRepo{views: make(map[int64][]*model.BoardTagView)}
	assetLinkRepo := newFakeAssetLinkRepo()
	tagRepo := &fakeTagRepo{
		tags: []*model.Tag{
			{TagID: 1, Slug: "go-to-market", Name: "Go to Market"},
			{TagID: 2, Slug: "enablement", Name: "Enablement"},
		},
	}
	assetRepo := &fakeAssetRepo{}

	cfg := &config.CacheConfig{L1Cap: 8, L2TTL: 60}
	svc := NewBoardService(boardRepo, boardTagRepo, assetLinkRepo, tagRepo, assetRepo, nil, cfg)
	return svc, boardRepo, boardTagRepo, assetLinkRepo, tagRepo, assetRepo
}

func TestBoardReorder(t *testing.T) {
	svc, boardRepo, _, _, _, _ := newBoardFixture()

	updated, err := svc.Reorder(context.Background(), []string{"b2", "b1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	// listed boards take their position, the rest keep their order
	assert.Equal(t, 0, boardRepo.orders["b2"])
	assert.Equal(t, 1, boardRepo.orders["b1"])
	_, touched := boardRepo.orders["b3"]
	assert.False(t, touched)
}

func TestBoardReorder_UnknownSlugSkipped(t *testing.T) {
	svc, boardRepo, _, _, _, _ := newBoardFixture()

	updated, err := svc.Reorder(context.Background(), []string{"b3", "ghost", "b1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)
	assert.Equal(t, 0, boardRepo.orders["b3"])
	assert.Equal(t, 2, boardRepo.orders["b1"])
}

func TestBoardReorder_EmptyList(t *testing.T) {
	svc, _, _, _, _, _ := newBoardFixture()

	_, err := svc.Reorder(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
}

func TestAttachTag(t *testing.T) {
	svc, _, boardTagRepo, _, _, _ := newBoardFixture()
	ctx := context.Background()

	err := svc.AttachTag(ctx, "b1", "go-to-market", AttachTagInput{})
	require.NoError(t, err)
	require.Len(t, boardTagRepo.edges, 1)
	assert.Equal(t, 0, boardTagRepo.edges[0].SortOrder)

	// defaults to the end of the board's list
	err = svc.AttachTag(ctx, "b1", "enablement", AttachTagInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, boardTagRepo.edges[1].SortOrder)
}

func TestAttachTag_DuplicateIsConflict(t *testing.T) {
	svc, _, _, _, _, _ := newBoardFixture()
	ctx := context.Background()

	require.NoError(t, svc.AttachTag(ctx, "b1", "go-to-market", AttachTagInput{}))

	err := svc.AttachTag(ctx, "b1", "go-to-market", AttachTagInput{})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
}

func TestAttachTag_AbsentParents(t *testing.T) {
	svc, _, _, _, _, _ := newBoardFixture()
	ctx := context.Background()

	err := svc.AttachTag(ctx, "ghost", "go-to-market", AttachTagInput{})
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	err = svc.AttachTag(ctx, "b1", "ghost", AttachTagInput{})
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestAttachTag_DisplayOverride(t *testing.T) {
	svc, _, boardTagRepo, _, _, _ := newBoardFixture()

	name := "GTM Plays"
	order := 5
	err := svc.AttachTag(context.Background(), "b1", "go-to-market", AttachTagInput{
		DisplayName: &name,
		SortOrder:   &order,
	})
	require.NoError(t, err)
	require.Len(t, boardTagRepo.edges, 1)
	assert.Equal(t, "GTM Plays", boardTagRepo.edges[0].DisplayName.String)
	assert.True(t, boardTagRepo.edges[0].DisplayName.Valid)
	assert.Equal(t, 5, boardTagRepo.edges[0].SortOrder)
}

func TestDetachTag_AbsentEdgeIsNoOp(t *testing.T) {
	svc, _, _, _, _, _ := newBoardFixture()
	ctx := context.Background()

	// edge never existed: success
	err := svc.DetachTag(ctx, "b1", "go-to-market")
	require.NoError(t, err)

	// absent parents are still NotFound
	err = svc.DetachTag(ctx, "ghost", "go-to-market")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
	err = svc.DetachTag(ctx, "b1", "ghost")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestDetachTag_RemovesEdge(t *testing.T) {
	svc, _, boardTagRepo, _, _, _ := newBoardFixture()
	ctx := context.Background()

	require.NoError(t, svc.AttachTag(ctx, "b1", "go-to-market", AttachTagInput{}))
	require.Len(t, boardTagRepo.edges, 1)

	require.NoError(t, svc.DetachTag(ctx, "b1", "go-to-market"))
	assert.Empty(t, boardTagRepo.edges)

	// detaching again is still a success
	require.NoError(t, svc.DetachTag(ctx, "b1", "go-to-market"))
}

func TestPlaceAndRemoveAsset(t *testing.T) {
	svc, _, _, assetLinkRepo, _, assetRepo := newBoardFixture()
	assetRepo.assets = []*model.Asset{{AssetID: "asset-1", Published: true}}
	ctx := context.Background()

	require.NoError(t, svc.PlaceAsset(ctx, "asset-1", "b1"))
	assert.True(t, assetLinkRepo.links["asset-1"][1])

	err := svc.PlaceAsset(ctx, "asset-1", "b1")
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))

	err = svc.PlaceAsset(ctx, "ghost", "b1")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	require.NoError(t, svc.RemoveAsset(ctx, "asset-1", "b1"))
	assert.False(t, assetLinkRepo.links["asset-1"][1])
	// absent edge: no-op
	require.NoError(t, svc.RemoveAsset(ctx, "asset-1", "b1"))
}

func TestBoardList_FanOut(t *testing.T) {
	svc, _, boardTagRepo, assetLinkRepo, _, assetRepo := newBoardFixture()
	ctx := context.Background()

	boardTagRepo.views[1] = []*model.BoardTagView{
		{TagID: 1, Slug: "go-to-market", Name: "Go to Market", SortOrder: 0},
	}
	assetRepo.assets = []*model.Asset{
		{AssetID: "asset-1", Published: true},
		{AssetID: "asset-2", Published: true},
	}
	require.NoError(t, assetLinkRepo.Place(ctx, "asset-1", 1))
	require.NoError(t, assetLinkRepo.Place(ctx, "asset-2", 1))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 2, list[0].AssetCount)
	require.Len(t, list[0].Tags, 1)
	assert.Equal(t, "Go to Market", list[0].Tags[0].DisplayName)
	assert.Empty(t, list[1].Tags)
}

func TestBoardGetBySlug_EffectiveNameAndMatchCounts(t *testing.T) {
	svc, _, boardTagRepo, _, _, assetRepo := newBoardFixture()

	boardTagRepo.views[1] = []*model.BoardTagView{
		{
			TagID:       1,
			Slug:        "go-to-market",
			Name:        "Go to Market",
			DisplayName: nullString("GTM Plays"),
			SortOrder:   0,
		},
	}
	assetRepo.assets = []*model.Asset{
		{AssetID: "asset-1", Published: true, Tags: []string{"go-to-market"}},
		{AssetID: "asset-2", Published: true, Tags: []string{"Go To Market"}}, // name match, folded
		{AssetID: "asset-3", Published: true, Tags: []string{"GTM Plays"}},    // override never matches
		{AssetID: "asset-4", Published: false, Tags: []string{"go-to-market"}},
	}

	dto, err := svc.GetBySlug(context.Background(), "b1")
	require.NoError(t, err)
	require.NotNil(t, dto)
	require.Len(t, dto.Tags, 1)

	assert.Equal(t, "GTM Plays", dto.Tags[0].DisplayName)
	assert.Equal(t, "Go to Market", dto.Tags[0].Name)
	// published assets matching the canonical slug or name: asset-1, asset-2
	assert.Equal(t, 2, dto.Tags[0].MatchCount)
}

func TestBoardGetBySlug_Missing(t *testing.T) {
	svc, _, _, _, _, _ := newBoardFixture()

	dto, err := svc.GetBySlug(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, dto)
}

func TestBoardCreate_Validation(t *testing.T) {
	svc, _, _, _, _, _ := newBoardFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateBoardInput{Slug: "x"})
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))

	_, err = svc.Create(ctx, CreateBoardInput{Slug: "x", Name: "X", ColorPrimary: "#111"})
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))

	dto, err := svc.Create(ctx, CreateBoardInput{
		Slug: "x", Name: "X",
		ColorPrimary: "#111", ColorSecondary: "#222", ColorAccent: "#333",
	})
	require.NoError(t, err)
	assert.NotZero(t, dto.BoardID)

	// duplicate slug
	_, err = svc.Create(ctx, CreateBoardInput{
		Slug: "x", Name: "X again",
		ColorPrimary: "#111", ColorSecondary: "#222", ColorAccent: "#333",
	})
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
}

func TestResyncAssetTags(t *testing.T) {
	svc, _, _, assetLinkRepo, _, assetRepo := newBoardFixture()
	assetRepo.assets = []*model.Asset{
		{AssetID: "asset-1", Tags: []string{"Go-To-Market", "enablement", "freeform"}},
		{AssetID: "asset-2", Tags: []string{"nothing known"}},
	}

	result, err := svc.ResyncAssetTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Assets)
	assert.Equal(t, int64(2), result.Inserted)

	assert.Equal(t, []int64{1, 2}, assetLinkRepo.synced["asset-1"])
	assert.Empty(t, assetLinkRepo.synced["asset-2"])
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}
