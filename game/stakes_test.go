package game

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStakesConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "stakes")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	fileName := filepath.Join(dir, "stakes.yaml")
	content := []byte(`tiers:
  - maxBuyIn: 200
    smallBlind: 1
    bigBlind: 2
  - maxBuyIn: 1000
    smallBlind: 5
    bigBlind: 10
`)
	require.NoError(t, ioutil.WriteFile(fileName, content, 0644))

	config, err := ParseStakesConfig(fileName)
	require.NoError(t, err)
	require.Len(t, config.Tiers, 2)
	assert.Equal(t, int64(200), config.Tiers[0].MaxBuyIn)
	assert.Equal(t, int64(10), config.Tiers[1].BigBlind)

	_, err = ParseStakesConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
