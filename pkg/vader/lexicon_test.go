package vader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLexicon(t *testing.T) {
	lex, err := LoadLexicon(strings.NewReader(testLexicon))
	require.NoError(t, err)
	assert.Len(t, lex, 6)
	assert.Equal(t, 3.1, lex["great"])
	assert.Equal(t, 2.0, lex[":)"])
}

func TestLoadLexicon_Invalid(t *testing.T) {
	_, err := LoadLexicon(strings.NewReader("great\tabc\n"))
	assert.Error(t, err)

	_, err = LoadLexicon(strings.NewReader("great\n"))
	assert.Error(t, err)

	_, err = LoadLexicon(strings.NewReader("\n\n"))
	assert.Error(t, err)
}

func TestEnsureLexicon(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(testLexicon))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "lex", LexiconFileName)
	ctx := context.Background()

	require.NoError(t, EnsureLexicon(ctx, path, srv.URL))
	assert.FileExists(t, path)
	assert.Equal(t, int32(1), hits.Load())

	// already present, no second download
	require.NoError(t, EnsureLexicon(ctx, path, srv.URL))
	assert.Equal(t, int32(1), hits.Load())
}

func TestEnsureLexicon_Errors(t *testing.T) {
	ctx := context.Background()
	assert.Error(t, EnsureLexicon(ctx, "", LexiconURL))

	path := filepath.Join(t.TempDir(), LexiconFileName)
	assert.Error(t, EnsureLexicon(ctx, path, ""))

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	assert.Error(t, EnsureLexicon(ctx, path, srv.URL))
	assert.NoFileExists(t, path)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), LexiconFileName)
	require.NoError(t, os.WriteFile(path, []byte(testLexicon), 0600))

	a, err := Open(context.Background(), path, "")
	require.NoError(t, err)
	assert.Greater(t, a.Compound("great"), 0.0)
}

func TestOpen_BadLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), LexiconFileName)
	require.NoError(t, os.WriteFile(path, []byte("bad line\n"), 0600))

	_, err := Open(context.Background(), path, "")
	assert.Error(t, err)
}
