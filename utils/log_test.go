package utils_test

import (
	"strings"
	"testing"

	"github.com/NethermindEth/statekeeper/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var levelStrings = map[*utils.LogLevel]string{
	utils.NewLogLevel(utils.DEBUG): "debug",
	utils.NewLogLevel(utils.INFO):  "info",
	utils.NewLogLevel(utils.WARN):  "warn",
	utils.NewLogLevel(utils.ERROR): "error",
}

func TestLogLevelString(t *testing.T) {
	for level, str := range levelStrings {
		t.Run("level "+str, func(t *testing.T) {
			assert.Equal(t, str, level.String())
		})
	}
}

func TestLogLevelSet(t *testing.T) {
	for level, str := range levelStrings {
		t.Run("level "+str, func(t *testing.T) {
			l := utils.NewLogLevel(utils.ERROR)
			require.NoError(t, l.Set(str))
			assert.Equal(t, *level, *l)
		})
		uppercase := strings.ToUpper(str)
		t.Run("level "+uppercase, func(t *testing.T) {
			l := utils.NewLogLevel(utils.ERROR)
			require.NoError(t, l.Set(uppercase))
			assert.Equal(t, *level, *l)
		})
	}

	t.Run("unknown log level", func(t *testing.T) {
		l := new(utils.LogLevel)
		require.ErrorIs(t, l.Set("blah"), utils.ErrUnknownLogLevel)
	})
}

func TestLogLevelUnmarshalText(t *testing.T) {
	for level, str := range levelStrings {
		t.Run("level "+str, func(t *testing.T) {
			l := utils.NewLogLevel(utils.ERROR)
			require.NoError(t, l.UnmarshalText([]byte(str)))
			assert.Equal(t, *level, *l)
		})
	}

	t.Run("unknown log level", func(t *testing.T) {
		l := new(utils.LogLevel)
		require.ErrorIs(t, l.UnmarshalText([]byte("blah")), utils.ErrUnknownLogLevel)
	})
}

func TestLogLevelMarshalYAML(t *testing.T) {
	for level, str := range levelStrings {
		t.Run("level "+str, func(t *testing.T) {
			out, err := yaml.Marshal(*level)
			require.NoError(t, err)
			assert.Equal(t, str+"\n", string(out))
		})
	}
}

func TestZapLogger(t *testing.T) {
	for level := range levelStrings {
		_, err := utils.NewZapLogger(*level, true)
		require.NoError(t, err)
	}
}
