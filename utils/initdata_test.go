package utils

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "123:ABC"

func signedInitData(authDate, user string) url.Values {
	values := url.Values{}
	values.Set("auth_date", authDate)
	values.Set("query_id", "AAF")
	values.Set("user", user)
	values.Set("hash", InitDataHash(values, testBotToken))
	return values
}

func TestInitDataHashKnownVector(t *testing.T) {
	values := url.Values{}
	values.Set("user", `{"id":42,"username":"alice"}`)
	values.Set("query_id", "AAF")
	values.Set("auth_date", "1700000000")
	values.Set("hash", "ignored")

	assert.Equal(t, "2b4d9fef27d9e3f10981bc2c235737e77c849aec4c4bfaa89655d1862c567473", InitDataHash(values, testBotToken))
}

func TestValidateInitData(t *testing.T) {
	now := time.Unix(1700000000, 0).Add(time.Hour)
	values := signedInitData("1700000000", `{"id":42,"username":"alice"}`)

	user, err := ValidateInitData(values.Encode(), testBotToken, 24*time.Hour, now)
	require.NoError(t, err)
	assert.EqualValues(t, 42, user.ID)
	assert.Equal(t, "alice", user.Username)

	_, err = ValidateInitData(values.Encode(), testBotToken, 30*time.Minute, now)
	assert.ErrorIs(t, err, ErrInitData)
	assert.ErrorContains(t, err, "expired")

	_, err = ValidateInitData(values.Encode(), testBotToken, 0, now.Add(1000*time.Hour))
	assert.NoError(t, err)
}

func TestValidateInitDataRejectsTampering(t *testing.T) {
	now := time.Unix(1700000000, 0)
	values := signedInitData("1700000000", `{"id":42}`)

	_, err := ValidateInitData(values.Encode(), "other:TOKEN", 0, now)
	assert.ErrorIs(t, err, ErrInitData)

	forged := url.Values{}
	for k, v := range values {
		forged[k] = v
	}
	forged.Set("user", `{"id":43}`)
	_, err = ValidateInitData(forged.Encode(), testBotToken, 0, now)
	assert.ErrorContains(t, err, "signature mismatch")

	noHash := signedInitData("1700000000", `{"id":42}`)
	noHash.Del("hash")
	_, err = ValidateInitData(noHash.Encode(), testBotToken, 0, now)
	assert.ErrorContains(t, err, "missing hash")

	_, err = ValidateInitData(values.Encode(), "", 0, now)
	assert.ErrorIs(t, err, ErrInitData)

	anonymous := signedInitData("1700000000", `{}`)
	_, err = ValidateInitData(anonymous.Encode(), testBotToken, 0, now)
	assert.ErrorContains(t, err, "no user")
}
