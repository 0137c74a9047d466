package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type LocalStorageSuite struct {
	suite.Suite
	root    string
	storage *LocalImageStorage
}

func (suite *LocalStorageSuite) SetupTest() {
	suite.root = suite.T().TempDir()
	suite.storage = NewLocalImageStorage(suite.root, "", 1024)
}

func (suite *LocalStorageSuite) fileHeader(name string, content []byte) *multipart.FileHeader {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("imagen", name)
	suite.Require().NoError(err)
	_, err = part.Write(content)
	suite.Require().NoError(err)
	suite.Require().NoError(w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { form.RemoveAll() })
	return form.File["imagen"][0]
}

func (suite *LocalStorageSuite) TestSaveAndDelete() {
	url, err := suite.storage.SaveImage(context.Background(), suite.fileHeader("cover.PNG", []byte("png-bytes")), "games")
	suite.Require().NoError(err)
	suite.True(strings.HasPrefix(url, "/uploads/games/"), url)
	suite.True(strings.HasSuffix(url, ".png"), url)

	stored := filepath.Join(suite.root, "games", filepath.Base(url))
	data, err := os.ReadFile(stored)
	suite.Require().NoError(err)
	suite.Equal("png-bytes", string(data))

	suite.Require().NoError(suite.storage.DeleteImageByURL(context.Background(), url))
	_, err = os.Stat(stored)
	suite.True(os.IsNotExist(err))
}

func (suite *LocalStorageSuite) TestBaseURLPrefix() {
	s := NewLocalImageStorage(suite.root, "http://cdn.local/", 0)
	url, err := s.SaveImage(context.Background(), suite.fileHeader("a.jpg", []byte("x")), "games")
	suite.Require().NoError(err)
	suite.True(strings.HasPrefix(url, "http://cdn.local/uploads/games/"), url)
	suite.NoError(s.DeleteImageByURL(context.Background(), url))
}

func (suite *LocalStorageSuite) TestRejectsBadUploads() {
	_, err := suite.storage.SaveImage(context.Background(), suite.fileHeader("run.exe", []byte("MZ")), "games")
	suite.True(errors.Is(err, ErrInvalidImage), "%v", err)

	_, err = suite.storage.SaveImage(context.Background(), suite.fileHeader("big.png", bytes.Repeat([]byte("a"), 2048)), "games")
	suite.True(errors.Is(err, ErrInvalidImage), "%v", err)

	_, err = suite.storage.SaveImage(context.Background(), suite.fileHeader("x.png", []byte("x")), "../escape")
	suite.Error(err)
	suite.False(errors.Is(err, ErrInvalidImage))
}

func (suite *LocalStorageSuite) TestDeleteRejectsForeignURLs() {
	outside := filepath.Join(filepath.Dir(suite.root), "keep.txt")
	suite.Require().NoError(os.WriteFile(outside, []byte("x"), 0o644))
	suite.T().Cleanup(func() { os.Remove(outside) })

	for _, url := range []string{
		"",
		"http://elsewhere/img.png",
		"/uploads/../keep.txt",
		"/uploads/games/../../keep.txt",
		"/uploads/keep.txt",
	} {
		suite.Error(suite.storage.DeleteImageByURL(context.Background(), url), url)
	}
	_, err := os.Stat(outside)
	suite.NoError(err)

	suite.Error(suite.storage.DeleteImageByURL(context.Background(), "/uploads/games/missing.png"))
}

func TestLocalStorageSuite(t *testing.T) {
	suite.Run(t, new(LocalStorageSuite))
}
