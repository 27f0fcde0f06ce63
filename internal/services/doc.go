// Package services defines the [Service] interface for track catalog providers and implements it for the streaming proxy and Spotify.
//
// # Service Interface
//
// All catalog providers implement a common abstraction, so track lookup and search work uniformly across providers.
//
// # Registry
//
// [Registry] routes track IDs to their owning service. Qualified IDs carry a
// "service:" prefix ("spotify:4uLU6hMC..."), while canonical IDs use the
// streaming node's own scheme ("yt:dQw4w9WgXcQ") and fall through to the
// default service untouched.
//
// # Proxy Implementation
//
// [ProxyService] communicates with the upstream streaming node that owns
// canonical track IDs and audio. The node's API key is sent via the X-API-Key
// header on each request, and error bodies are decoded for their detail field.
//
// # Spotify Implementation
//
// [SpotifyClient] queries the Spotify Web API with an app-level bearer token.
// The client is a token sink: the credential session installs a fresh token
// through SetAccessToken after every grant, and requests made before the
// first grant fail fast.
//
// # Lyrics API
//
// [LyricsAPIClient] fetches lyric payloads for Spotify track IDs from a
// lyrics proxy deployment. The upstream reports failures in-body through an
// "error" flag, which the client translates into typed errors so callers only
// ever see a payload or an error, never both.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : no access token installed yet
//   - [shared.ErrTokenExpired] : bearer token rejected, refresh needed
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrTrackNotFound] : track ID unknown to the provider
//   - [shared.ErrInvalidResponse] : response body had an unexpected shape
package services
