package httpclient

import (
	"encoding/base64"
	"net/http"
)

const authorizationHeader = "Authorization"

// AuthHeader is the single authentication header a Network sends with
// every request. Setting a new one replaces the previous one entirely.
type AuthHeader struct {
	Key   string
	Value string
}

// BasicAuth builds an "Authorization: Basic base64(user:pass)" header.
func BasicAuth(username, password string) AuthHeader {
	token := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return AuthHeader{Key: authorizationHeader, Value: "Basic " + token}
}

// BearerAuth builds an "Authorization: Bearer <token>" header.
func BearerAuth(token string) AuthHeader {
	return AuthHeader{Key: authorizationHeader, Value: "Bearer " + token}
}

// CustomAuth builds an arbitrary authentication header, such as an API key.
func CustomAuth(key, value string) AuthHeader {
	return AuthHeader{Key: key, Value: value}
}

// apply sets the header on req, overwriting any existing value.
func (a *AuthHeader) apply(req *http.Request) {
	if a == nil || a.Key == "" {
		return
	}
	req.Header.Set(a.Key, a.Value)
}
