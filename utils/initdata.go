package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var ErrInitData = errors.New("invalid init data")

// WebAppUser is the Telegram account a Mini App launch was issued for.
type WebAppUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// ValidateInitData checks the signature Telegram puts into Mini App launch
// parameters and returns the user they belong to. Data signed more than
// maxAge before now is rejected; maxAge <= 0 turns that check off.
func ValidateInitData(initData, botToken string, maxAge time.Duration, now time.Time) (*WebAppUser, error) {
	if botToken == "" {
		return nil, fmt.Errorf("%w: bot token is not configured", ErrInitData)
	}
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitData, err)
	}

	got, err := hex.DecodeString(values.Get("hash"))
	if err != nil || len(got) == 0 {
		return nil, fmt.Errorf("%w: missing hash", ErrInitData)
	}
	want, _ := hex.DecodeString(InitDataHash(values, botToken))
	if !hmac.Equal(got, want) {
		return nil, fmt.Errorf("%w: signature mismatch", ErrInitData)
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad auth_date", ErrInitData)
	}
	if maxAge > 0 && now.Sub(time.Unix(authDate, 0)) > maxAge {
		return nil, fmt.Errorf("%w: expired", ErrInitData)
	}

	var user WebAppUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil || user.ID == 0 {
		return nil, fmt.Errorf("%w: no user", ErrInitData)
	}
	return &user, nil
}

// InitDataHash returns the hex signature of values for botToken, computed
// over every field except "hash".
func InitDataHash(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + values.Get(k)
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
