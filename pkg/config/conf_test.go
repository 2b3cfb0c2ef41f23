package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mchmarny/revpulse/pkg/vader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	testDir := t.TempDir()

	c1, err := ReadOrCreate(testDir)
	require.NoError(t, err)
	require.NotNil(t, c1)
	assert.Len(t, c1.Banks, 3)
	assert.Equal(t, ScorerVader, c1.Sentiment.Scorer)

	c1.Sentiment.Scorer = ScorerBayes
	c1.Banks = append(c1.Banks, &Bank{Code: "Awash", Name: "Awash Bank", AppID: "com.awash.mobile"})

	err = Save(testDir, c1)
	require.NoError(t, err)

	c2, err := ReadOrCreate(testDir)
	require.NoError(t, err)
	require.NotNil(t, c2)
	assert.Equal(t, ScorerBayes, c2.Sentiment.Scorer)
	assert.Len(t, c2.Banks, 4)
	assert.Equal(t, c1.Sentiment.LexiconURL, c2.Sentiment.LexiconURL)
}

func TestReadOrCreate_NestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.FileExists(t, filepath.Join(dir, configFileName))
}

func TestReadOrCreate_Errors(t *testing.T) {
	_, err := ReadOrCreate("")
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("banks: [\n"), fileMode))
	_, err = ReadOrCreate(dir)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("sentiment:\n  scorer: magic\n"), fileMode))
	_, err = ReadOrCreate(dir)
	assert.Error(t, err)
}

func TestReadOrCreate_FillsDefaults(t *testing.T) {
	dir := t.TempDir()
	raw := "banks:\n  - code: CBE\n    name: Commercial Bank of Ethiopia\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(raw), fileMode))

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.Equal(t, ScorerVader, c.Sentiment.Scorer)
	assert.Equal(t, vader.LexiconURL, c.Sentiment.LexiconURL)
	assert.Equal(t, filepath.Join(dir, vader.LexiconFileName), c.LexiconPath(dir))
}

func TestSave_Errors(t *testing.T) {
	assert.Error(t, Save("", getDefaultConfig()))
	assert.Error(t, Save(t.TempDir(), nil))
}

func TestValidate(t *testing.T) {
	c := getDefaultConfig()
	assert.NoError(t, c.Validate())

	c.Banks = append(c.Banks, &Bank{Code: "cbe"})
	assert.Error(t, c.Validate())

	c = getDefaultConfig()
	c.Banks = append(c.Banks, &Bank{Name: "No Code"})
	assert.Error(t, c.Validate())
}

func TestResolveBank(t *testing.T) {
	c := getDefaultConfig()

	tests := []struct {
		in   string
		want string
	}{
		{"CBE", "CBE"},
		{"cbe", "CBE"},
		{"Commercial Bank of Ethiopia", "CBE"},
		{"com.dashen.dashensuperapp", "DashenBank"},
		{" boamobile ", "BoAMobile"},
	}
	for _, tt := range tests {
		b := c.ResolveBank(tt.in)
		require.NotNil(t, b, tt.in)
		assert.Equal(t, tt.want, b.Code)
	}

	assert.Nil(t, c.ResolveBank("unknown"))
	assert.Nil(t, c.ResolveBank(""))

	assert.Equal(t, "Dashen Bank", c.BankName("DashenBank"))
	assert.Equal(t, "Other", c.BankName("Other"))
}

func TestLexiconPath_Absolute(t *testing.T) {
	c := getDefaultConfig()
	c.Sentiment.LexiconFile = "/opt/lexicon.txt"
	assert.Equal(t, "/opt/lexicon.txt", c.LexiconPath("/home/x"))
}
