// Package common contains shared constants and sentinel errors used across
// ShareBox components.
package common

// AccessTokenHeaderName is the gRPC/HTTP metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// LinkIDBytes is the amount of randomness behind every share link id.
const LinkIDBytes = 32
