package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saraobi.com/web/internal/langpref"
)

func TestEmbeddedBundlesShareKeys(t *testing.T) {
	b, err := Load()
	require.NoError(t, err)

	en := b.Keys(langpref.EN)
	require.NotEmpty(t, en)
	assert.Equal(t, en, b.Keys(langpref.JP), "every english key has a japanese translation")
}

func TestTranslate(t *testing.T) {
	b := MustLoad()

	assert.Equal(t, "COLLECTION", b.T(langpref.EN, "nav.gallery"))
	assert.Equal(t, "コレクション", b.T(langpref.JP, "nav.gallery"))
	assert.Equal(t, "Bespoke & Custom Orders", b.T(langpref.EN, "gallery.custom.title"))
	assert.Equal(t, "missing.key", b.T(langpref.JP, "missing.key"))
	assert.Contains(t, b.T(langpref.EN, "about.story_title"), "\n")
}

func TestFallbackToDefaultLanguage(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: []byte("nav:\n  home: HOME\n  about: ABOUT\ncount: 3\n")},
		"locales/ja.yaml": {Data: []byte("nav:\n  home: ホーム\n")},
	}
	b, err := LoadFS(fsys)
	require.NoError(t, err)

	assert.Equal(t, "ホーム", b.T(langpref.JP, "nav.home"))
	assert.Equal(t, "ABOUT", b.T(langpref.JP, "nav.about"))
	assert.Equal(t, "3", b.T(langpref.EN, "count"))
	assert.Equal(t, "nav.home", (*Bundle)(nil).T(langpref.EN, "nav.home"))
}

func TestLoadRequiresDefaultBundle(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{"locales/ja.yaml": {Data: []byte("a: b\n")}})
	require.Error(t, err)

	_, err = LoadFS(fstest.MapFS{"locales/en.yaml": {Data: []byte("a: [\n")}})
	require.Error(t, err)
}
