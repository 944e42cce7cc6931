package token

import (
	"testing"
	"time"

	"github.com/cameronsaddress/snapchef-social/config"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	cfg := config.AuthConfigs{
		TokenSecret:     "secret",
		TokenExpiration: time.Minute,
	}

	tkn, err := Generate("user1", cfg)
	require.NoError(t, err)

	id, err := Verify(tkn, cfg)
	require.NoError(t, err)
	require.Equal(t, "user1", id)
}

func TestVerifyExpired(t *testing.T) {
	cfg := config.AuthConfigs{
		TokenSecret:     "secret",
		TokenExpiration: -time.Minute,
	}

	tkn, err := Generate("user1", cfg)
	require.NoError(t, err)

	_, err = Verify(tkn, cfg)
	require.Error(t, err)
}

func TestVerifyWrongSecret(t *testing.T) {
	tkn, err := Generate("user1", config.AuthConfigs{
		TokenSecret:     "secret",
		TokenExpiration: time.Minute,
	})
	require.NoError(t, err)

	_, err = Verify(tkn, config.AuthConfigs{TokenSecret: "another"})
	require.Error(t, err)
}
