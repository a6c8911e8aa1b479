package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/battlesnakeio/nol/brain"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestGetEnvInt(t *testing.T) {
	os.Setenv("NOL_TEST_INT", "42")
	defer os.Unsetenv("NOL_TEST_INT")
	require.Equal(t, 42, getEnvInt("NOL_TEST_INT", 7))

	os.Setenv("NOL_TEST_INT", "not a number")
	require.Equal(t, 7, getEnvInt("NOL_TEST_INT", 7))

	require.Equal(t, 7, getEnvInt("NOL_TEST_UNSET", 7))
}

func TestGetEnvString(t *testing.T) {
	os.Setenv("NOL_TEST_STRING", "value")
	defer os.Unsetenv("NOL_TEST_STRING")
	require.Equal(t, "value", getEnvString("NOL_TEST_STRING", "default"))
	require.Equal(t, "default", getEnvString("NOL_TEST_UNSET", "default"))
}

func TestParseWeights(t *testing.T) {
	w, err := ParseWeights([]byte("danger_penalty: 500\nfood_weight: 2.5\n"))
	require.NoError(t, err)

	want := brain.DefaultWeights()
	want.DangerPenalty = 500
	want.FoodWeight = 2.5
	require.Equal(t, want, w)
}

func TestParseWeightsEmpty(t *testing.T) {
	w, err := ParseWeights(nil)
	require.NoError(t, err)
	require.Equal(t, brain.DefaultWeights(), w)
}

func TestParseWeightsErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "dangerpenalty: 5\n"},
		{"bad type", "food_weight: lots\n"},
		{"penalty too small", "danger_penalty: 2\n"},
		{"negative", "space_weight: -1\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseWeights([]byte(test.data))
			require.Error(t, err)
		})
	}
}

func TestLoadWeights(t *testing.T) {
	w, err := LoadWeights("")
	require.NoError(t, err)
	require.Equal(t, brain.DefaultWeights(), w)

	dir, err := ioutil.TempDir("", "nol-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "weights.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte("hunger_buffer: 3\n"), 0644))

	w, err = LoadWeights(path)
	require.NoError(t, err)
	require.Equal(t, 3, w.HungerBuffer)

	_, err = LoadWeights(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	SetupLogging(true)
	require.Equal(t, log.DebugLevel, log.GetLevel())

	LogLevel = "warn"
	defer func() { LogLevel = "info" }()
	SetupLogging(false)
	require.Equal(t, log.WarnLevel, log.GetLevel())

	LogLevel = "nonsense"
	SetupLogging(false)
	require.Equal(t, log.InfoLevel, log.GetLevel())
}
