package jwtx

import "errors"

var (
	ErrIssuer      = errors.New("jwtx: unexpected issuer")
	ErrAudience    = errors.New("jwtx: unexpected audience")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrSignature   = errors.New("jwtx: signature verification failed")
)
