// Package content implements Quill's post and comment domain: storage,
// validation, and the HTTP handlers mounted behind the request
// authenticator.
package content
