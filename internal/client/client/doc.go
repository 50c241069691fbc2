// Package client talks to the remote Keijiban board service.
//
// # Overview
//
// The package provides:
//  1. The Gateway contract consumed by the client services: fetch boards
//     (optionally with recent entries), page through entries, post an entry
//     and ping the service.
//  2. HTTPClient, a JSON-over-HTTP implementation of Gateway.
//  3. The decode boundary (DecodeBoard, DecodeEntry, ...) turning wire types
//     from internal/api into models. Payloads missing an identifier are
//     rejected here with common.ErrMissingIdentifier so that nothing partial
//     reaches the local store.
//
// # Error Handling
//
// Transport and HTTP failures wrap common.ErrGateway together with one of
// ErrUnavailable, ErrRejected or ErrMalformedPayload. Nothing is retried.
//
// Post bodies tag every image with its index because the receiving side is
// not required to preserve array order.
package client
