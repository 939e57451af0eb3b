package otherinfo

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sitecms/sitecms-backend/internal/dbtest"
	"github.com/sitecms/sitecms-backend/pkg/db"
	"github.com/sitecms/sitecms-backend/pkg/db/models"
	pkgerrors "github.com/sitecms/sitecms-backend/pkg/errors"
	"github.com/sitecms/sitecms-backend/pkg/logger"
	"github.com/sitecms/sitecms-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.New(t)
	svc, err := NewService(NewRepository(client.DB()), client, logger.Nop())
	require.NoError(t, err)
	return svc, client
}

func value(s string) *types.CleanString {
	c := types.CleanString(s)
	return &c
}

func decodeUpdate(t *testing.T, body string) UpdateInput {
	t.Helper()
	var in UpdateInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func TestUpdateNullClearsValue(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "tiktok", Value: value("x")})
	require.NoError(t, err)

	untouched, err := svc.Update(ctx, "tiktok", decodeUpdate(t, `{}`))
	require.NoError(t, err)
	require.NotNil(t, untouched.Value)
	assert.Equal(t, "x", *untouched.Value)

	cleared, err := svc.Update(ctx, "tiktok", decodeUpdate(t, `{"value": null}`))
	require.NoError(t, err)
	assert.Nil(t, cleared.Value)

	got, err := svc.Get(ctx, "tiktok")
	require.NoError(t, err)
	assert.Nil(t, got.Value)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"value":null`)
}

func TestCreateDuplicateName(t *testing.T) {
	svc, client := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "phone", Value: value("555-0100")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{Name: "phone", Value: value("555-0199")})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Equal(t, "Information with name 'phone' already exists.", typed.Message())

	var n int64
	require.NoError(t, client.DB().Model(&models.OtherInfo{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestRename(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "insta", Value: value("@shop")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Name: "instagram"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "insta", decodeUpdate(t, `{"name": "instagram"}`))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	renamed, err := svc.Update(ctx, "insta", decodeUpdate(t, `{"name": "ig"}`))
	require.NoError(t, err)
	assert.Equal(t, "ig", renamed.Name)
	require.NotNil(t, renamed.Value)
	assert.Equal(t, "@shop", *renamed.Value)

	_, err = svc.Get(ctx, "insta")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteByName(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "email", Value: value("hi@example.com")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "email"))

	err = svc.Delete(ctx, "email")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "Information not found", typed.Message())
}

func TestEnsureIsIdempotent(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, svc.Ensure(ctx, DefaultEntries...))
	_, err := svc.Update(ctx, "tiktok", decodeUpdate(t, `{"value": "@shop"}`))
	require.NoError(t, err)

	require.NoError(t, svc.Ensure(ctx, DefaultEntries...))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Value)
	assert.Equal(t, "@shop", *list[0].Value)

	assert.True(t, pkgerrors.IsCode(svc.Ensure(ctx, "  "), pkgerrors.CodeValidation))
}

func TestUpdateRejectsBlankName(t *testing.T) {
	var in UpdateInput
	err := json.Unmarshal([]byte(`{"name": "   "}`), &in)
	assert.Error(t, err)
}
