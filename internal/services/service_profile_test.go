package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lsx-portal/dto"
	"lsx-portal/internal/repository"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestProfileGet(t *testing.T) {
	fx := newFixture(t, asOf2026, member{id: "m1", name: "Aom", username: "1@lsxrank", rank: "4/20", score: 12.5, birthday: "2013-06-15"})

	p, err := fx.profile.Get(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Aom", p.DisplayName)
	assert.Equal(t, 4, p.Rank)
	assert.Equal(t, 12, p.AgeYears)
	assert.Equal(t, PlaceholderPhotoURL, p.PhotoURL)
	assert.False(t, p.HasPhoto)

	_, err = fx.profile.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrMemberNotFound)
}

func TestProfileUpdateValidation(t *testing.T) {
	fx := newFixture(t, asOf2026,
		member{id: "m1", name: "Aom"},
		member{id: "m2", name: "Bee"},
	)
	blank := "  "
	taken := "Bee"
	long := strings.Repeat("x", 73)

	cases := map[string]dto.UpdateProfileRequest{
		"mismatch":   {Password: "abcd", ConfirmPassword: "abce"},
		"too short":  {Password: "abc", ConfirmPassword: "abc"},
		"too long":   {Password: long, ConfirmPassword: long},
		"blank name": {DisplayName: &blank},
		"taken name": {DisplayName: &taken},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := fx.profile.Update(context.Background(), "m1", req)
			assert.True(t, IsValidation(err), "got %v", err)
		})
	}
}

func TestProfileUpdateSameNameIsNoop(t *testing.T) {
	fx := newFixture(t, asOf2026, member{id: "m1", name: "Aom"})
	fx.store.failWrite = errors.New("must not write")
	same := "Aom"

	p, err := fx.profile.Update(context.Background(), "m1", dto.UpdateProfileRequest{DisplayName: &same})
	require.NoError(t, err)
	assert.Equal(t, "Aom", p.DisplayName)
}

func TestProfileUpdatePassword(t *testing.T) {
	fx := newFixture(t, asOf2026, member{id: "m1", name: "Aom", username: "1@lsxrank", password: "old"})

	_, err := fx.profile.Update(context.Background(), "m1", dto.UpdateProfileRequest{Password: "newpass", ConfirmPassword: "newpass"})
	require.NoError(t, err)

	_, err = fx.auth.Login(context.Background(), "1@lsxrank", "newpass")
	assert.NoError(t, err)
	_, err = fx.auth.Login(context.Background(), "1@lsxrank", "old")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProfileWriteFailure(t *testing.T) {
	fx := newFixture(t, asOf2026, member{id: "m1", name: "Aom"})
	fx.store.failWrite = errors.New("502")
	name := "Aommy"

	_, err := fx.profile.Update(context.Background(), "m1", dto.UpdateProfileRequest{DisplayName: &name})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestUploadPhoto(t *testing.T) {
	fx := newFixture(t, asOf2026, member{id: "m1", name: "Aom"})
	img := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)

	url, err := fx.profile.UploadPhoto(context.Background(), "m1", img)
	require.NoError(t, err)
	assert.Equal(t, "https://i.ibb.co/x/new.png", url)

	p, err := fx.profile.Get(context.Background(), "m1")
	require.NoError(t, err)
	assert.True(t, p.HasPhoto)
	assert.Equal(t, url, p.PhotoURL)
}

func TestUploadPhotoRejectsAndFails(t *testing.T) {
	fx := newFixture(t, asOf2026, member{id: "m1", name: "Aom"})
	uploader := &fakeUploader{err: errors.New("imgbb: 400")}
	fx.profile.images = uploader

	_, err := fx.profile.UploadPhoto(context.Background(), "m1", []byte("GIF89a...."))
	assert.True(t, IsValidation(err))
	assert.Zero(t, uploader.calls)

	_, err = fx.profile.UploadPhoto(context.Background(), "m1", pngHeader)
	assert.ErrorIs(t, err, ErrPhotoUpload)
}
