package domain

import "errors"

var ErrNotFound = errors.New("record not found")
var ErrTokenRevoked = errors.New("token revoked")
