// Package authapi exposes Quill's session endpoints over HTTP and provides
// the request-authentication middleware used by the rest of the API.
//
// Credentials travel in two cookies, accessToken and refreshToken. The
// middleware requires both cookies to be present but verifies only the access
// credential; the refresh credential is checked against server-side state
// only when it is exchanged at /refresh.
package authapi
